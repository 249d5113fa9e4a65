package main

import (
	"errors"
	"log"
	"os"

	"github.com/absmach/fedcoord"
	"github.com/absmach/fedcoord/cli"
	"github.com/absmach/fedcoord/pkg/sdk"
	"github.com/spf13/cobra"
)

const defConfigPath = "config.toml"

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "fedcoord-cli",
		Short: "Federated averaging coordinator CLI",
		Long:  `fedcoord-cli is a command line interface for interacting with the federated averaging coordinator.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg := fedcoord.DefaultConfig()
			fileCfg, err := fedcoord.LoadConfig(configPath)
			switch {
			case err == nil:
				cfg = *fileCfg
			case errors.Is(err, os.ErrNotExist) && !cmd.Flags().Changed("config"):
			default:
				return err
			}

			s := sdk.NewSDK(sdk.Config{
				CoordinatorURL:  cfg.CLI.CoordinatorURL,
				TLSVerification: cfg.CLI.TLSVerification,
			})
			cli.SetSDK(s)

			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", defConfigPath, "Config file path")

	rootCmd.AddCommand(cli.NewModelCmd())
	rootCmd.AddCommand(cli.NewTrainCmd())
	rootCmd.AddCommand(cli.NewRoundsCmd())

	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

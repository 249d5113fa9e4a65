package cli

import (
	"github.com/absmach/fedcoord/pkg/sdk"
	"github.com/spf13/cobra"
)

var fsdk sdk.SDK

func SetSDK(s sdk.SDK) {
	fsdk = s
}

func NewModelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "model [get|status]",
		Short: "Global model",
		Long:  `Fetch the global model and inspect the aggregation buffer.`,
	}

	getCmd := &cobra.Command{
		Use:   "get",
		Short: "Get model",
		Long:  `Get the current global model weights, bias and version.`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 0 {
				logUsageCmd(*cmd, cmd.Use)

				return
			}

			m, err := fsdk.GetModel()
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			logJSONCmd(*cmd, m)
		},
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Coordinator status",
		Long:  `Show the model version, buffered updates and aggregation threshold.`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 0 {
				logUsageCmd(*cmd, cmd.Use)

				return
			}

			s, err := fsdk.Status()
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			logJSONCmd(*cmd, s)
		},
	}

	cmd.AddCommand(getCmd)
	cmd.AddCommand(statusCmd)

	return cmd
}

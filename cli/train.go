package cli

import (
	"encoding/json"
	"os"

	"github.com/absmach/fedcoord/pkg/sdk"
	"github.com/spf13/cobra"
)

var (
	clientID   string
	sampleSize int
)

func NewTrainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "train [submit]",
		Short: "Training updates",
		Long:  `Submit locally trained model updates.`,
	}

	submitCmd := &cobra.Command{
		Use:   "submit <file.json>",
		Short: "Submit update",
		Long: `Submit a model update read from a JSON file.

Examples:
  # Submit an update using the sample size stored in the file
  fedcoord-cli train submit update.json

  # Override client id and sample size
  fedcoord-cli train submit update.json --client-id edge-7 --sample-size 250`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 1 {
				logUsageCmd(*cmd, cmd.Use)

				return
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}

			var req sdk.UpdateRequest
			if err := json.Unmarshal(data, &req); err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			if clientID != "" {
				req.ClientID = clientID
			}
			if cmd.Flags().Changed("sample-size") {
				req.SampleSize = &sampleSize
			}

			res, err := fsdk.SubmitUpdate(req)
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			logJSONCmd(*cmd, res)
		},
	}

	submitCmd.Flags().StringVar(&clientID, "client-id", "", "Client identifier recorded with the update")
	submitCmd.Flags().IntVar(&sampleSize, "sample-size", 0, "Number of local training samples behind the update")

	cmd.AddCommand(submitCmd)

	return cmd
}

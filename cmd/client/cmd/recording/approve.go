package recording

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"fieldvoice/cmd/client/cmd/types"
	"fieldvoice/internal/app/client"
)

var (
	approveBy      string
	approveDiscard bool
)

var ApproveCmd = &cobra.Command{
	Use:   "approve <id>",
	Short: "Approve or discard the analysis of a recording",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if !ok {
			return fmt.Errorf("application not initialized")
		}

		rec, err := findRecord(cmd, app, args[0])
		if err != nil {
			return err
		}

		if approveDiscard {
			if err := app.Reviews.Discard(cmd.Context(), rec, approveBy); err != nil {
				return fmt.Errorf("discard analysis: %w", err)
			}
			color.Yellow("Analysis discarded.")
			return nil
		}

		if err := app.Reviews.Approve(cmd.Context(), rec, approveBy); err != nil {
			return fmt.Errorf("approve analysis: %w", err)
		}
		color.Green("Analysis approved.")
		return nil
	},
}

func init() {
	ApproveCmd.Flags().StringVar(&approveBy, "by", "", "name of the approver")
	ApproveCmd.Flags().BoolVar(&approveDiscard, "discard", false, "discard instead of approve")
}

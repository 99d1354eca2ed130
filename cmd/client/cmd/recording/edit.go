package recording

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"fieldvoice/cmd/client/cmd/types"
	"fieldvoice/internal/app/client"
	"fieldvoice/internal/domain/review"
)

var (
	editSummary string
	editEditor  string
	editApprove bool
)

var EditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit the analysis summary of a recording",
	Long: `Save an edited summary for a completed analysis. Every save bumps the
summary version and appends the previous version to the edit history.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if !ok {
			return fmt.Errorf("application not initialized")
		}

		if editSummary == "" {
			return fmt.Errorf("nothing to change, pass --summary")
		}

		rec, err := findRecord(cmd, app, args[0])
		if err != nil {
			return err
		}

		draft, err := app.Reviews.BeginEdit(rec)
		if err != nil {
			return fmt.Errorf("begin edit: %w", err)
		}
		draft.SetSummary(editSummary)

		updated, err := app.Reviews.SaveEdit(cmd.Context(), rec, draft, review.SaveOptions{
			Editor:  editEditor,
			Approve: editApprove,
		})
		if err != nil {
			return fmt.Errorf("save edit: %w", err)
		}

		color.Green("Summary saved as version %d.", updated.Analysis.EditedSummary.Version)
		if editApprove {
			color.Green("Analysis approved.")
		}
		return nil
	},
}

func init() {
	EditCmd.Flags().StringVar(&editSummary, "summary", "", "new summary text")
	EditCmd.Flags().StringVar(&editEditor, "editor", "", "name of the person making the edit")
	EditCmd.Flags().BoolVar(&editApprove, "approve", false, "approve the analysis in the same step")
}

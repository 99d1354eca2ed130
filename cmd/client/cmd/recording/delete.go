package recording

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"fieldvoice/cmd/client/cmd/types"
	"fieldvoice/internal/app/client"
)

var deleteYes bool

var DeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a recording and its audio file",
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

		if !deleteYes {
			fmt.Printf("Delete recording %s (job %s)? [y/N]: ", shortID(rec.ID), rec.JobID)
			var answer string
			_, _ = fmt.Scanln(&answer)
			if strings.ToLower(strings.TrimSpace(answer)) != "y" {
				fmt.Println("Aborted.")
				return nil
			}
		}

		if err := app.Recordings.Delete(cmd.Context(), rec.ID); err != nil {
			return fmt.Errorf("delete recording: %w", err)
		}

		fmt.Println("Recording deleted.")
		return nil
	},
}

func init() {
	DeleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "skip the confirmation prompt")
}

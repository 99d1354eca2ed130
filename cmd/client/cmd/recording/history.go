package recording

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"fieldvoice/cmd/client/cmd/types"
	"fieldvoice/internal/app/client"
)

var HistoryCmd = &cobra.Command{
	Use:   "history <id>",
	Short: "Show the summary edit history of a recording",
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

		if len(rec.History) == 0 {
			fmt.Println("No edits recorded.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "VERSION\tEDITED\tEDITOR\tSUMMARY\t\n")
		for _, entry := range rec.History {
			editor := entry.Editor
			if editor == "" {
				editor = "-"
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t\n",
				entry.Version,
				time.UnixMilli(entry.Timestamp).Format("2006-01-02 15:04"),
				editor,
				truncate(entry.Summary, 60),
			)
		}
		w.Flush()

		if rec.Analysis != nil {
			fmt.Printf("\nCurrent version: %d\n", rec.Analysis.EditedSummary.Version)
		}
		return nil
	},
}

func truncate(s string, length int) string {
	if len(s) <= length {
		return s
	}
	return s[:length-3] + "..."
}

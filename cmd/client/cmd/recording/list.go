package recording

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"fieldvoice/cmd/client/cmd/types"
	"fieldvoice/internal/app/client"
	"fieldvoice/internal/domain/recording"
)

var listFormat string

var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recordings, newest first",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if !ok {
			return fmt.Errorf("application not initialized")
		}

		records, err := app.Recordings.List(cmd.Context())
		if err != nil {
			return fmt.Errorf("list recordings: %w", err)
		}

		switch listFormat {
		case "json":
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			return encoder.Encode(records)
		default:
			return printRecordsTable(records)
		}
	},
}

func printRecordsTable(records []recording.Record) error {
	if len(records) == 0 {
		fmt.Println("No recordings found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID\tJOB\tTYPE\tRECORDED\tSTATUS\tAPPROVAL\t\n")

	for _, rec := range records {
		approval := "-"
		if rec.Approval != nil {
			approval = string(rec.Approval.Status)
		}

		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t\n",
			shortID(rec.ID),
			rec.JobID,
			rec.MeetingType,
			time.UnixMilli(rec.Timestamp).Format("2006-01-02 15:04"),
			coloredStatus(rec.UploadStatus),
			approval,
		)
	}

	w.Flush()
	fmt.Printf("\nTotal: %d\n", len(records))
	return nil
}

func coloredStatus(status recording.UploadStatus) string {
	switch status {
	case recording.StatusCompleted:
		return color.GreenString(string(status))
	case recording.StatusFailed:
		return color.RedString(string(status))
	case recording.StatusUploading:
		return color.YellowString(string(status))
	default:
		return string(status)
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func init() {
	ListCmd.Flags().StringVarP(&listFormat, "format", "f", "table", "output format (table, json)")
}

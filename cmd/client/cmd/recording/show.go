package recording

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"fieldvoice/cmd/client/cmd/types"
	"fieldvoice/internal/app/client"
	"fieldvoice/internal/domain/recording"
)

var showJSON bool

var ShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one recording with its analysis",
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

		if showJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			return encoder.Encode(rec)
		}

		printRecord(rec)
		return nil
	},
}

// findRecord resolves an id argument to a record, accepting a unique id
// prefix as shown by the list command.
func findRecord(cmd *cobra.Command, app *client.App, idArg string) (*recording.Record, error) {
	rec, err := app.Recordings.Get(cmd.Context(), idArg)
	if err == nil {
		return rec, nil
	}

	records, listErr := app.Recordings.List(cmd.Context())
	if listErr != nil {
		return nil, fmt.Errorf("get recording: %w", err)
	}

	var match *recording.Record
	for i := range records {
		if strings.HasPrefix(records[i].ID, idArg) {
			if match != nil {
				return nil, fmt.Errorf("recording id %q is ambiguous", idArg)
			}
			match = &records[i]
		}
	}
	if match == nil {
		return nil, fmt.Errorf("recording %q not found", idArg)
	}
	return match, nil
}

func printRecord(rec *recording.Record) {
	fmt.Printf("ID:           %s\n", rec.ID)
	fmt.Printf("Job:          %s\n", rec.JobID)
	fmt.Printf("Meeting type: %s\n", rec.MeetingType)
	fmt.Printf("Recorded:     %s\n", time.UnixMilli(rec.Timestamp).Format(time.RFC1123))
	fmt.Printf("Duration:     %s\n", (time.Duration(rec.DurationMillis) * time.Millisecond).String())
	fmt.Printf("Audio:        %s\n", rec.URI)
	fmt.Printf("Status:       %s (attempts: %d)\n", coloredStatus(rec.UploadStatus), rec.UploadAttempts)

	fmt.Println("Participants:")
	for _, p := range rec.Participants {
		fmt.Printf("  - %s: %s\n", p.Role, p.Name)
	}

	if rec.Approval != nil {
		fmt.Printf("Approval:     %s by %s at %s\n",
			rec.Approval.Status,
			rec.Approval.Approver,
			time.UnixMilli(rec.Approval.Timestamp).Format(time.RFC1123),
		)
	}

	if rec.Analysis == nil {
		fmt.Println("\nNo analysis yet.")
		return
	}

	fmt.Println()
	color.Cyan("Summary (v%d):", rec.Analysis.EditedSummary.Version)
	fmt.Println(rec.Analysis.EditedSummary.Text)

	transcript := rec.Analysis.EditedTranscript
	if transcript == nil {
		transcript = rec.Analysis.RawTranscript
	}
	if len(transcript) > 0 {
		fmt.Println()
		color.Cyan("Transcript:")
		for _, entry := range transcript {
			fmt.Printf("  [%s] %s: %s\n", entry.Time, entry.SpeakerName, entry.Text)
		}
	}

	printActionItems("Action items (PM)", rec.Analysis.ActionItems.PM)
	printActionItems("Action items (other parties)", rec.Analysis.ActionItems.OtherParties)
}

func printActionItems(title string, items []recording.ActionItem) {
	if len(items) == 0 {
		return
	}
	fmt.Println()
	color.Cyan("%s:", title)
	for _, item := range items {
		line := "  - " + item.Title
		if item.OwnerName != "" {
			line += " (owner: " + item.OwnerName + ")"
		}
		if item.DueDate != "" {
			line += " (due: " + item.DueDate + ")"
		}
		fmt.Println(line)
	}
}

func init() {
	ShowCmd.Flags().BoolVar(&showJSON, "json", false, "output as JSON")
}

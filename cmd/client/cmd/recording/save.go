package recording

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"fieldvoice/cmd/client/cmd/types"
	"fieldvoice/internal/app/client"
	"fieldvoice/internal/domain/recording"
)

var (
	saveMeetingType  string
	saveParticipants []string
	saveDuration     int64
	saveJobID        string
	saveConsent      bool
	saveNoUpload     bool
)

var SaveCmd = &cobra.Command{
	Use:   "save <audio-file>",
	Short: "Save a captured recording",
	Long: `Store a captured audio file with its meeting metadata. The file is
moved into the managed recordings directory and queued for upload.

Participants are given as ROLE:NAME pairs, for example:
  fieldvoice recording save call.m4a -t Scope -p "PM:Ada Clarke" -p "Vendor:Sam Ortiz" --consent`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if !ok {
			return fmt.Errorf("application not initialized")
		}

		participants, err := parseParticipants(saveParticipants)
		if err != nil {
			return err
		}

		rec, err := app.Recordings.SaveRecording(cmd.Context(), args[0], recording.Metadata{
			DurationMillis: saveDuration,
			JobID:          saveJobID,
			MeetingType:    saveMeetingType,
			Participants:   participants,
			ConsentGiven:   saveConsent,
		})
		if err != nil {
			return fmt.Errorf("save recording: %w", err)
		}

		color.Green("Recording saved: %s (job %s)", rec.ID, rec.JobID)

		if saveNoUpload {
			fmt.Println("Upload skipped. Submit later with: fieldvoice recording upload", rec.ID)
			return nil
		}

		fmt.Println("Uploading for analysis...")
		if !app.Uploads.Upload(cmd.Context(), rec) {
			color.Yellow("Upload failed. It will be retried, or run: fieldvoice recording retry")
			return nil
		}
		color.Green("Analysis completed.")
		return nil
	},
}

func parseParticipants(specs []string) ([]recording.Participant, error) {
	participants := make([]recording.Participant, 0, len(specs))
	for _, spec := range specs {
		role, name, found := strings.Cut(spec, ":")
		if !found || strings.TrimSpace(role) == "" || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("invalid participant %q, expected ROLE:NAME", spec)
		}
		participants = append(participants, recording.Participant{
			Role: strings.TrimSpace(role),
			Name: strings.TrimSpace(name),
		})
	}
	return participants, nil
}

func init() {
	SaveCmd.Flags().StringVarP(&saveMeetingType, "meeting-type", "t", "", "meeting type ("+strings.Join(recording.MeetingTypes, ", ")+")")
	SaveCmd.Flags().StringArrayVarP(&saveParticipants, "participant", "p", nil, "participant as ROLE:NAME (repeatable)")
	SaveCmd.Flags().Int64Var(&saveDuration, "duration", 0, "recording duration in milliseconds")
	SaveCmd.Flags().StringVar(&saveJobID, "job-id", "", "job identifier (generated when empty)")
	SaveCmd.Flags().BoolVar(&saveConsent, "consent", false, "confirm participants consented to recording")
	SaveCmd.Flags().BoolVar(&saveNoUpload, "no-upload", false, "save locally without uploading")
}

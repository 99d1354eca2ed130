package recording

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"fieldvoice/cmd/client/cmd/types"
	"fieldvoice/internal/app/client"
)

var UploadCmd = &cobra.Command{
	Use:   "upload <id>",
	Short: "Upload a recording for analysis",
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

		fmt.Println("Uploading for analysis...")
		if !app.Uploads.Upload(cmd.Context(), rec) {
			return fmt.Errorf("upload failed, run: fieldvoice recording retry")
		}

		color.Green("Analysis completed.")
		return nil
	},
}

package recording

import (
	"fmt"

	"github.com/spf13/cobra"

	"fieldvoice/cmd/client/cmd/types"
	"fieldvoice/internal/app/client"
)

var RetryCmd = &cobra.Command{
	Use:   "retry",
	Short: "Retry all pending and failed uploads",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if !ok {
			return fmt.Errorf("application not initialized")
		}

		attempted := app.Uploads.RetryPending(cmd.Context())
		if attempted == 0 {
			fmt.Println("Nothing to retry.")
			return nil
		}

		fmt.Printf("Retried %d upload(s). Check results with: fieldvoice recording list\n", attempted)
		return nil
	},
}

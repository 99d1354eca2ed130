package auth

import (
	"fmt"

	"github.com/spf13/cobra"

	"fieldvoice/cmd/client/cmd/types"
	"fieldvoice/internal/app/client"
)

var LogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored session token",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if !ok {
			return fmt.Errorf("application not initialized")
		}

		if err := app.ClearToken(); err != nil {
			return fmt.Errorf("logout failed: %w", err)
		}

		fmt.Println("Logged out.")
		return nil
	},
}

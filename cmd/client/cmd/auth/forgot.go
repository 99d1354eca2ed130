package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"fieldvoice/cmd/client/cmd/types"
	"fieldvoice/internal/app/client"
)

var ForgotPasswordCmd = &cobra.Command{
	Use:   "forgot-password",
	Short: "Request a password reset code",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if !ok {
			return fmt.Errorf("application not initialized")
		}

		fmt.Print("Email: ")
		var email string
		_, _ = fmt.Scanln(&email)

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		if err := app.Auth.ForgotPassword(ctx, email); err != nil {
			return fmt.Errorf("reset request failed: %w", err)
		}

		fmt.Println("If the account exists, a reset code has been sent.")
		fmt.Println("Continue with: fieldvoice auth reset-password")
		return nil
	},
}

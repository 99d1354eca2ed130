package auth

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"fieldvoice/cmd/client/cmd/types"
	"fieldvoice/internal/app/client"
)

var ResetPasswordCmd = &cobra.Command{
	Use:   "reset-password",
	Short: "Reset the account password with a one-time code",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if !ok {
			return fmt.Errorf("application not initialized")
		}

		fmt.Print("Email: ")
		var email string
		_, _ = fmt.Scanln(&email)

		fmt.Print("Reset code: ")
		var code string
		_, _ = fmt.Scanln(&code)

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		resetToken, err := app.Auth.VerifyOTP(ctx, email, code)
		if err != nil {
			return fmt.Errorf("code verification failed: %w", err)
		}

		fmt.Print("New password: ")
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
		fmt.Println()

		fmt.Print("Repeat new password: ")
		confirm, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
		fmt.Println()

		if string(password) != string(confirm) {
			return fmt.Errorf("passwords do not match")
		}

		if err := app.Auth.ResetPassword(ctx, resetToken, string(password)); err != nil {
			return fmt.Errorf("password reset failed: %w", err)
		}

		color.Green("Password updated. Log in with: fieldvoice auth login")
		return nil
	},
}

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

var LoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the FieldVoice backend",
	Long: `Authenticate against the FieldVoice backend.

The session token is stored locally for subsequent commands.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if !ok {
			return fmt.Errorf("application not initialized")
		}

		fmt.Print("Email: ")
		var email string
		_, _ = fmt.Scanln(&email)

		fmt.Print("Password: ")
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
		fmt.Println()

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		session, err := app.Auth.Login(ctx, client.Credentials{
			Email:    email,
			Password: string(password),
		})
		if err != nil {
			return fmt.Errorf("authentication failed: %w", err)
		}

		if err := app.SaveToken(session.Token); err != nil {
			return fmt.Errorf("save token: %w", err)
		}

		color.Green("Logged in as %s", session.Email)
		return nil
	},
}

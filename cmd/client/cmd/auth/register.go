package auth

import (
	"bufio"
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

var RegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a FieldVoice account",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if !ok {
			return fmt.Errorf("application not initialized")
		}

		fmt.Print("Email: ")
		var email string
		_, _ = fmt.Scanln(&email)

		fmt.Print("Full name: ")
		var fullName string
		scanner := bufio.NewScanner(os.Stdin)
		if scanner.Scan() {
			fullName = scanner.Text()
		}

		fmt.Print("Password: ")
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
		fmt.Println()

		fmt.Print("Repeat password: ")
		confirm, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
		fmt.Println()

		if string(password) != string(confirm) {
			return fmt.Errorf("passwords do not match")
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		err = app.Auth.Register(ctx, client.RegisterRequest{
			Email:    email,
			Password: string(password),
			FullName: fullName,
		})
		if err != nil {
			return fmt.Errorf("registration failed: %w", err)
		}

		color.Green("Account created. Log in with: fieldvoice auth login")
		return nil
	},
}

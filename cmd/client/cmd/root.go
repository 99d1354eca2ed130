package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/exp/slog"

	"fieldvoice/cmd/client/cmd/types"
	"fieldvoice/internal/app/client"
	"fieldvoice/internal/app/client/config"
	"fieldvoice/internal/utils/logger"
)

var (
	cfg        *config.Config
	log        *slog.Logger
	app        *client.App
	webhookURL string
	noRetry    bool
)

var rootCmd = &cobra.Command{
	Use:   "fieldvoice",
	Short: "FieldVoice - field recording capture and analysis client",
	Long: `FieldVoice manages voice recordings captured on site: it stores
the audio and its metadata locally, submits recordings to the analysis
webhook, and tracks reviewer edits and approvals of the results.`,
	PersistentPreRunE: setupApp,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func setupApp(cmd *cobra.Command, _ []string) error {
	cfg = config.MustLoad()

	if webhookURL != "" {
		cfg.WebhookURL = webhookURL
	}
	if noRetry {
		cfg.RetryOnStart = false
	}

	log = logger.New(cfg.Env)

	var err error
	app, err = client.New(cfg, log)
	if err != nil {
		return fmt.Errorf("initialize application: %w", err)
	}

	app.RetryPendingOnStart(cmd.Context())

	cmd.SetContext(context.WithValue(cmd.Context(), types.ClientAppKey, app))
	return nil
}

func init() {
	cobra.OnInitialize()

	rootCmd.PersistentFlags().StringVar(&webhookURL, "webhook", "", "analysis webhook URL override")
	rootCmd.PersistentFlags().BoolVar(&noRetry, "no-retry", false, "skip retrying pending uploads on start")
}

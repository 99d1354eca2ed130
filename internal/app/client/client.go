package client

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/exp/slog"

	"fieldvoice/internal/app/client/config"
	"fieldvoice/internal/domain/recording"
	"fieldvoice/internal/domain/review"
	"fieldvoice/internal/domain/upload"
)

// App wires the client together: local metadata storage, the audio asset
// store, and the recording, upload, and review services built on top of
// them.
type App struct {
	config *config.Config
	log    *slog.Logger
	store  recording.Store

	Recordings *recording.Service
	Uploads    *upload.Service
	Reviews    *review.Service
	Auth       *AuthClient

	authenticated bool
}

func New(cfg *config.Config, log *slog.Logger) (*App, error) {
	// SQLite is the primary store. If it cannot be opened the single-file
	// JSON document takes over so the client stays usable.
	var store recording.Store
	sqliteStore, err := NewSQLiteStore(cfg.DBPath)
	if err != nil {
		log.Warn("failed to open sqlite store, falling back to file store", "error", err)
		fileStore, err := NewFileStore(cfg.MetadataPath)
		if err != nil {
			return nil, fmt.Errorf("init metadata store: %w", err)
		}
		store = fileStore
	} else {
		store = sqliteStore
	}

	var assets recording.AssetStore
	if cfg.KeepAssetsInPlace {
		assets = recording.ReferenceAssets{}
	} else {
		moveAssets, err := recording.NewMoveAssets(cfg.RecordingsDir)
		if err != nil {
			return nil, fmt.Errorf("init recordings directory: %w", err)
		}
		assets = moveAssets
	}

	app := &App{
		config:     cfg,
		log:        log,
		store:      store,
		Recordings: recording.NewService(store, assets, log),
		Uploads: upload.NewService(store, cfg.WebhookURL, upload.Options{
			MaxAttempts: cfg.MaxUploadAttempts,
			Timeout:     time.Duration(cfg.UploadTimeoutSec) * time.Second,
		}, log),
		Reviews: review.NewService(store, log),
		Auth:    NewAuthClient(cfg.AuthBaseURL, log),
	}

	if token, err := app.GetToken(); err == nil && token != "" {
		app.Auth.SetToken(token)
		app.authenticated = true
		log.Debug("session token loaded from file")
	}

	return app, nil
}

// Config returns the loaded client configuration.
func (a *App) Config() *config.Config {
	return a.config
}

// RetryPendingOnStart re-drives unfinished uploads if the configuration
// asks for it. Called once at process start.
func (a *App) RetryPendingOnStart(ctx context.Context) {
	if !a.config.RetryOnStart {
		return
	}
	if n := a.Uploads.RetryPending(ctx); n > 0 {
		a.log.Info("retried pending uploads on start", "count", n)
	}
}

// IsAuthenticated reports whether a session token is available.
func (a *App) IsAuthenticated() bool {
	if !a.authenticated {
		if token, err := a.GetToken(); err == nil && token != "" {
			a.authenticated = true
		}
	}
	return a.authenticated
}

// GetToken returns the stored session token.
func (a *App) GetToken() (string, error) {
	tokenBytes, err := os.ReadFile(a.config.TokenPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("no session token found, run: fieldvoice auth login")
		}
		return "", fmt.Errorf("read token: %w", err)
	}
	return string(tokenBytes), nil
}

// SaveToken stores the session token for future invocations.
func (a *App) SaveToken(token string) error {
	if err := os.WriteFile(a.config.TokenPath, []byte(token), 0600); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	a.Auth.SetToken(token)
	a.authenticated = true
	return nil
}

// ClearToken removes the stored session token.
func (a *App) ClearToken() error {
	a.authenticated = false
	if err := os.Remove(a.config.TokenPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove token: %w", err)
	}
	return nil
}

// Close releases the metadata store.
func (a *App) Close() error {
	return a.store.Close()
}

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultWebhookURL  = "http://localhost:3000/webhook/analyze"
	defaultAuthBaseURL = "http://localhost:3000/api/auth"
	defaultLogLevel    = "info"
	defaultEnv         = "local"
	defaultConfigDir   = ".fieldvoice"
)

type Config struct {
	Env               string `mapstructure:"app_env"`
	WebhookURL        string `mapstructure:"webhook_url"`
	AuthBaseURL       string `mapstructure:"auth_base_url"`
	LogLevel          string `mapstructure:"log_level"`
	ConfigDir         string `mapstructure:"config_dir"`
	RecordingsDir     string `mapstructure:"recordings_dir"`
	DBPath            string `mapstructure:"db_path"`
	MetadataPath      string `mapstructure:"metadata_path"`
	TokenPath         string `mapstructure:"token_path"`
	MaxUploadAttempts int    `mapstructure:"max_upload_attempts"`
	UploadTimeoutSec  int    `mapstructure:"upload_timeout_seconds"`
	RetryOnStart      bool   `mapstructure:"retry_on_start"`
	KeepAssetsInPlace bool   `mapstructure:"keep_assets_in_place"`
}

// MustLoad reads the client configuration from the environment, with an
// optional .env file next to the binary or one directory up.
func MustLoad() *Config {
	envPath := ".env"
	if _, err := os.Stat(envPath); os.IsNotExist(err) {
		envPath = "../.env"
	}
	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			fmt.Printf("failed to load .env file: %v\n", err)
		}
	}

	viper.AutomaticEnv()

	viper.SetDefault("APP_ENV", defaultEnv)
	viper.SetDefault("WEBHOOK_URL", defaultWebhookURL)
	viper.SetDefault("AUTH_BASE_URL", defaultAuthBaseURL)
	viper.SetDefault("LOG_LEVEL", defaultLogLevel)
	viper.SetDefault("CONFIG_DIR", defaultConfigDir)
	viper.SetDefault("MAX_UPLOAD_ATTEMPTS", 5)
	viper.SetDefault("UPLOAD_TIMEOUT_SECONDS", 120)
	viper.SetDefault("RETRY_ON_START", true)
	viper.SetDefault("KEEP_ASSETS_IN_PLACE", false)

	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}

	configDir := viper.GetString("CONFIG_DIR")
	if configDir == defaultConfigDir {
		configDir = filepath.Join(homeDir, configDir)
	}
	if err := os.MkdirAll(configDir, 0700); err != nil {
		fmt.Printf("failed to create config directory: %v\n", err)
	}

	recordingsDir := filepath.Join(configDir, "recordings")
	if err := os.MkdirAll(recordingsDir, 0700); err != nil {
		fmt.Printf("failed to create recordings directory: %v\n", err)
	}

	config := &Config{
		Env:               viper.GetString("APP_ENV"),
		WebhookURL:        viper.GetString("WEBHOOK_URL"),
		AuthBaseURL:       viper.GetString("AUTH_BASE_URL"),
		LogLevel:          viper.GetString("LOG_LEVEL"),
		ConfigDir:         configDir,
		RecordingsDir:     recordingsDir,
		DBPath:            filepath.Join(configDir, "recordings.db"),
		MetadataPath:      filepath.Join(configDir, "recordings_metadata.json"),
		TokenPath:         filepath.Join(configDir, "token"),
		MaxUploadAttempts: viper.GetInt("MAX_UPLOAD_ATTEMPTS"),
		UploadTimeoutSec:  viper.GetInt("UPLOAD_TIMEOUT_SECONDS"),
		RetryOnStart:      viper.GetBool("RETRY_ON_START"),
		KeepAssetsInPlace: viper.GetBool("KEEP_ASSETS_IN_PLACE"),
	}

	if err := config.validate(); err != nil {
		panic(fmt.Sprintf("invalid configuration: %v", err))
	}

	return config
}

func (c *Config) validate() error {
	if c.WebhookURL == "" {
		return fmt.Errorf("webhook_url must not be empty")
	}
	if c.AuthBaseURL == "" {
		return fmt.Errorf("auth_base_url must not be empty")
	}
	if c.MaxUploadAttempts < 1 {
		return fmt.Errorf("max_upload_attempts must be at least 1")
	}
	return nil
}

// IsProd reports whether the environment is prod.
func (c *Config) IsProd() bool {
	return c.Env == "prod"
}

// IsDev reports whether the environment is dev.
func (c *Config) IsDev() bool {
	return c.Env == "dev"
}

// IsLocal reports whether the environment is local.
func (c *Config) IsLocal() bool {
	return c.Env == "local" || c.Env == ""
}

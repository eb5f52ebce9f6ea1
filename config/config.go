package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultSiteOrigin  = "."
	DefaultUserAgent   = "blueprint-browser/dev"
	DefaultHTTPTimeout = 10 * time.Second
	DefaultDataDir     = ".blueprint-browser"
	DefaultSort        = "score"
)

// Config holds all configuration for the application.
// Values are loaded by Viper from a config file and/or environment variables.
type Config struct {
	SiteOrigin     string        `mapstructure:"SITE_ORIGIN"`     // where the local index.json lives: URL or directory
	RemoteBaseURL  string        `mapstructure:"REMOTE_BASE_URL"` // mirror used when the local index is unavailable
	UserAgent      string        `mapstructure:"USERAGENT"`
	HTTPTimeout    time.Duration `mapstructure:"-"`
	DataDir        string        `mapstructure:"DATA_DIR"`
	DefaultSort    string        `mapstructure:"DEFAULT_SORT"`
	HistoryEnabled bool          `mapstructure:"-"`
	DatabasePath   string        `mapstructure:"-"` // derived from DataDir
}

var boundKeys = []string{
	"SITE_ORIGIN",
	"REMOTE_BASE_URL",
	"USERAGENT",
	"HTTP_TIMEOUT",
	"DATA_DIR",
	"DEFAULT_SORT",
	"HISTORY_ENABLED",
}

// LoadConfig reads configuration from file and environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")

	vipErr := viper.ReadInConfig()
	if _, ok := vipErr.(viper.ConfigFileNotFoundError); ok {
		slog.Info("Config file (.env) not found, relying on environment variables.")
	} else if vipErr != nil {
		return Config{}, fmt.Errorf("fatal error config file: %w", vipErr)
	}

	viper.AutomaticEnv()
	for _, key := range boundKeys {
		if err := viper.BindEnv(strings.ToLower(key), key); err != nil {
			slog.Warn("Unable to bind env var", "key", key, "error", err)
		}
	}

	if err := viper.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("unable to decode into struct, %w", err)
	}

	if err := parseTypedValues(&config); err != nil {
		return Config{}, err
	}
	processConfigDefaults(&config)

	if err := validateAndEnsureDirectories(&config); err != nil {
		return Config{}, err
	}
	return config, nil
}

// parseTypedValues handles the keys whose env-string form needs explicit parsing.
func parseTypedValues(cfg *Config) error {
	timeoutStr := viper.GetString("HTTP_TIMEOUT")
	if timeoutStr == "" {
		cfg.HTTPTimeout = DefaultHTTPTimeout
	} else {
		timeout, err := time.ParseDuration(timeoutStr)
		if err != nil {
			return fmt.Errorf("invalid HTTP_TIMEOUT %q: %w", timeoutStr, err)
		}
		if timeout <= 0 {
			return fmt.Errorf("HTTP_TIMEOUT must be positive, got %s", timeout)
		}
		cfg.HTTPTimeout = timeout
	}

	historyStr := viper.GetString("HISTORY_ENABLED")
	if historyStr == "" {
		cfg.HistoryEnabled = true
	} else {
		enabled, err := strconv.ParseBool(historyStr)
		if err != nil {
			slog.Warn("Invalid value for HISTORY_ENABLED, defaulting to true", "value", historyStr, "error", err)
			enabled = true
		}
		cfg.HistoryEnabled = enabled
	}
	return nil
}

// processConfigDefaults fills every unset value with its default.
func processConfigDefaults(cfg *Config) {
	if cfg.SiteOrigin == "" {
		cfg.SiteOrigin = DefaultSiteOrigin
	}
	if cfg.RemoteBaseURL != "" && !strings.HasSuffix(cfg.RemoteBaseURL, "/") {
		cfg.RemoteBaseURL += "/"
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
		slog.Warn("USERAGENT not set in config or environment, using default.")
	}
	if cfg.HTTPTimeout == 0 {
		cfg.HTTPTimeout = DefaultHTTPTimeout
	}
	if cfg.DataDir == "" {
		cfg.DataDir = DefaultDataDir
	}
	if cfg.DefaultSort == "" {
		cfg.DefaultSort = DefaultSort
	}
}

func validateAndEnsureDirectories(cfg *Config) error {
	if cfg.DataDir == "" {
		return fmt.Errorf("DATA_DIR is required")
	}
	if cfg.RemoteBaseURL == "" {
		return fmt.Errorf("REMOTE_BASE_URL is required: set it to the mirror that serves index.json")
	}
	if !strings.HasPrefix(cfg.RemoteBaseURL, "http://") && !strings.HasPrefix(cfg.RemoteBaseURL, "https://") {
		return fmt.Errorf("REMOTE_BASE_URL must be an absolute http(s) URL, got %q", cfg.RemoteBaseURL)
	}

	if _, err := os.Stat(cfg.DataDir); os.IsNotExist(err) {
		slog.Info("Data directory does not exist, creating it", "path", cfg.DataDir)
		if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
			return fmt.Errorf("failed to create data directory %q: %w", cfg.DataDir, err)
		}
	} else if err != nil {
		return fmt.Errorf("failed to check data directory %q: %w", cfg.DataDir, err)
	}

	cfg.DatabasePath = filepath.Join(cfg.DataDir, "history.db")
	return nil
}

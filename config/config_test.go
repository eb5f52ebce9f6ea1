package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

const testMirror = "https://mirror.example.org/"

func TestProcessConfigDefaults(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		viper.Reset()
		cfg := Config{}
		processConfigDefaults(&cfg)

		if cfg.SiteOrigin != DefaultSiteOrigin {
			t.Errorf("Expected SiteOrigin to be %q, got %q", DefaultSiteOrigin, cfg.SiteOrigin)
		}
		if cfg.RemoteBaseURL != "" {
			t.Errorf("Expected RemoteBaseURL to stay unset, got %q", cfg.RemoteBaseURL)
		}
		if cfg.UserAgent == "" {
			t.Error("Expected UserAgent to have a default value")
		}
		if cfg.HTTPTimeout != DefaultHTTPTimeout {
			t.Errorf("Expected HTTPTimeout to be %s, got %s", DefaultHTTPTimeout, cfg.HTTPTimeout)
		}
		if cfg.DefaultSort != "score" {
			t.Errorf("Expected DefaultSort to be score, got %s", cfg.DefaultSort)
		}
	})

	t.Run("respects existing values", func(t *testing.T) {
		viper.Reset()
		cfg := Config{
			SiteOrigin:    "https://example.org/",
			RemoteBaseURL: "https://mirror.example.org/data",
			UserAgent:     "custom-agent",
			HTTPTimeout:   3 * time.Second,
			DefaultSort:   "newest",
		}
		processConfigDefaults(&cfg)

		if cfg.SiteOrigin != "https://example.org/" {
			t.Errorf("Expected SiteOrigin to stay, got %s", cfg.SiteOrigin)
		}
		if cfg.RemoteBaseURL != "https://mirror.example.org/data/" {
			t.Errorf("Expected RemoteBaseURL to gain a trailing slash, got %s", cfg.RemoteBaseURL)
		}
		if cfg.UserAgent != "custom-agent" {
			t.Errorf("Expected UserAgent to stay custom-agent, got %s", cfg.UserAgent)
		}
		if cfg.HTTPTimeout != 3*time.Second {
			t.Errorf("Expected HTTPTimeout to stay 3s, got %s", cfg.HTTPTimeout)
		}
		if cfg.DefaultSort != "newest" {
			t.Errorf("Expected DefaultSort to stay newest, got %s", cfg.DefaultSort)
		}
	})
}

func TestValidateAndEnsureDirectories(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("missing data dir", func(t *testing.T) {
		cfg := Config{DataDir: "", RemoteBaseURL: testMirror}
		if err := validateAndEnsureDirectories(&cfg); err == nil {
			t.Error("Expected error for missing DataDir")
		}
	})

	t.Run("missing remote base", func(t *testing.T) {
		cfg := Config{DataDir: tmpDir}
		err := validateAndEnsureDirectories(&cfg)
		if err == nil || !strings.Contains(err.Error(), "REMOTE_BASE_URL is required") {
			t.Errorf("Expected missing REMOTE_BASE_URL error, got %v", err)
		}
	})

	t.Run("relative remote base", func(t *testing.T) {
		cfg := Config{DataDir: tmpDir, RemoteBaseURL: "mirror/"}
		if err := validateAndEnsureDirectories(&cfg); err == nil {
			t.Error("Expected error for non-absolute RemoteBaseURL")
		}
	})

	t.Run("creates directory and derives database path", func(t *testing.T) {
		dataDir := filepath.Join(tmpDir, "data")
		cfg := Config{DataDir: dataDir, RemoteBaseURL: testMirror}
		if err := validateAndEnsureDirectories(&cfg); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if _, err := os.Stat(dataDir); os.IsNotExist(err) {
			t.Error("Data directory was not created")
		}
		if cfg.DatabasePath != filepath.Join(dataDir, "history.db") {
			t.Errorf("Unexpected DatabasePath %s", cfg.DatabasePath)
		}
	})
}

func TestLoadConfigFromEnvFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	dataDir := filepath.Join(dir, "state")
	env := "SITE_ORIGIN=https://blueprints.example.org/\n" +
		"REMOTE_BASE_URL=https://mirror.example.org/data\n" +
		"HTTP_TIMEOUT=2s\n" +
		"HISTORY_ENABLED=false\n" +
		"DATA_DIR=" + dataDir + "\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0644); err != nil {
		t.Fatalf("Failed to write .env: %v", err)
	}

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.SiteOrigin != "https://blueprints.example.org/" {
		t.Errorf("SiteOrigin = %q", cfg.SiteOrigin)
	}
	if cfg.RemoteBaseURL != "https://mirror.example.org/data/" {
		t.Errorf("RemoteBaseURL = %q", cfg.RemoteBaseURL)
	}
	if cfg.HTTPTimeout != 2*time.Second {
		t.Errorf("HTTPTimeout = %s, want 2s", cfg.HTTPTimeout)
	}
	if cfg.HistoryEnabled {
		t.Error("Expected HistoryEnabled to be false")
	}
	if cfg.DatabasePath != filepath.Join(dataDir, "history.db") {
		t.Errorf("DatabasePath = %q", cfg.DatabasePath)
	}
}

func TestLoadConfigRejectsBadTimeout(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	env := "HTTP_TIMEOUT=soon\nDATA_DIR=" + filepath.Join(dir, "state") + "\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0644); err != nil {
		t.Fatalf("Failed to write .env: %v", err)
	}

	if _, err := LoadConfig(dir); err == nil {
		t.Fatal("Expected error for unparsable HTTP_TIMEOUT")
	}
}

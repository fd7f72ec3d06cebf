//go:build !integration

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const validConfig = `
database:
  url: postgres://localhost:5432/storefront
webhook:
  secret: whsec_abc
email:
  sender: Shop <shop@example.com>
  resend_key: re_123
download:
  token_secret: dl_secret
  base_url: https://shop.example.com/downloads
`

func TestLoadConfig(t *testing.T) {
	t.Run("loads a minimal valid file and applies defaults", func(t *testing.T) {
		cfg, err := LoadConfig(writeConfig(t, validConfig), false)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Log.Level != "info" || cfg.Log.Format != "json" {
			t.Errorf("unexpected log defaults: %+v", cfg.Log)
		}
		if cfg.Webhook.Tolerance != 5*time.Minute {
			t.Errorf("expected 5m tolerance default, got %v", cfg.Webhook.Tolerance)
		}
		if cfg.Webhook.Port != 8080 {
			t.Errorf("expected port 8080 default, got %d", cfg.Webhook.Port)
		}
		if cfg.Redis.TTL != time.Hour {
			t.Errorf("expected 1h cache TTL default, got %v", cfg.Redis.TTL)
		}
		if cfg.Runtime.Dev {
			t.Error("dev flag must be off")
		}
	})

	t.Run("explicit values are kept", func(t *testing.T) {
		cfg, err := LoadConfig(writeConfig(t, validConfig+`
log:
  level: debug
  format: console
`), false)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Log.Level != "debug" || cfg.Log.Format != "console" {
			t.Errorf("unexpected log config: %+v", cfg.Log)
		}
	})

	t.Run("env overrides beat the file", func(t *testing.T) {
		t.Setenv("WEBHOOK_SECRET", "whsec_from_env")
		t.Setenv("DATABASE_URL", "postgres://db.internal:5432/storefront")

		cfg, err := LoadConfig(writeConfig(t, validConfig), false)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Webhook.Secret != "whsec_from_env" {
			t.Errorf("expected env secret, got %q", cfg.Webhook.Secret)
		}
		if cfg.Database.URL != "postgres://db.internal:5432/storefront" {
			t.Errorf("expected env database url, got %q", cfg.Database.URL)
		}
	})

	t.Run("missing required values fail startup", func(t *testing.T) {
		cases := map[string]string{
			"database.url":          strings.Replace(validConfig, "url: postgres://localhost:5432/storefront", "url: \"\"", 1),
			"webhook.secret":        strings.Replace(validConfig, "secret: whsec_abc", "secret: \"\"", 1),
			"email.sender":          strings.Replace(validConfig, "sender: Shop <shop@example.com>", "sender: \"\"", 1),
			"download.token_secret": strings.Replace(validConfig, "token_secret: dl_secret", "token_secret: \"\"", 1),
		}
		for field, content := range cases {
			if _, err := LoadConfig(writeConfig(t, content), false); err == nil {
				t.Errorf("%s: expected an error, got nil", field)
			} else if !strings.Contains(err.Error(), field) {
				t.Errorf("%s: error does not name the field: %v", field, err)
			}
		}
	})

	t.Run("resend key optional only in dev mode", func(t *testing.T) {
		content := strings.Replace(validConfig, "resend_key: re_123", "resend_key: \"\"", 1)

		if _, err := LoadConfig(writeConfig(t, content), false); err == nil {
			t.Error("expected an error outside dev mode")
		}
		cfg, err := LoadConfig(writeConfig(t, content), true)
		if err != nil {
			t.Fatalf("dev mode should tolerate a missing resend key: %v", err)
		}
		if !cfg.Runtime.Dev {
			t.Error("dev flag must be on")
		}
	})

	t.Run("missing file is an error", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"), false); err == nil {
			t.Fatal("expected an error, got nil")
		}
	})

	t.Run("malformed yaml is an error", func(t *testing.T) {
		if _, err := LoadConfig(writeConfig(t, "database: [not a map"), false); err == nil {
			t.Fatal("expected an error, got nil")
		}
	})
}

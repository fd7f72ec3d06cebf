// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type RedisConfig struct {
	URL      string        `yaml:"url"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

type WebhookConfig struct {
	Secret    string        `yaml:"secret"`    // provider signing secret
	Tolerance time.Duration `yaml:"tolerance"` // replay-protection window
	Port      int           `yaml:"port"`
}

type EmailConfig struct {
	Sender    string `yaml:"sender"`     // receipt From address
	ResendKey string `yaml:"resend_key"` // notification provider credential
}

type AdminConfig struct {
	APIKey string `yaml:"api_key"`
}

type DownloadConfig struct {
	TokenSecret string `yaml:"token_secret"` // HMAC secret shared with the download server
	BaseURL     string `yaml:"base_url"`     // e.g. https://shop.example.com/downloads
}

type Config struct {
	Log      LogConfig      `yaml:"log"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Webhook  WebhookConfig  `yaml:"webhook"`
	Email    EmailConfig    `yaml:"email"`
	Admin    AdminConfig    `yaml:"admin"`
	Download DownloadConfig `yaml:"download"`

	Runtime RuntimeConfig `yaml:"-"`
}

// LoadConfig reads the YAML file, applies env overrides for secrets and
// validates. Missing required values are a startup-time error, never a
// per-request one.
func LoadConfig(path string, dev bool) (*Config, error) {
	// .env is a dev convenience; absence is fine.
	_ = godotenv.Load()

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// env overrides win over the file so secrets can stay out of it
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("WEBHOOK_SECRET"); v != "" {
		cfg.Webhook.Secret = v
	}
	if v := os.Getenv("RESEND_API_KEY"); v != "" {
		cfg.Email.ResendKey = v
	}
	if v := os.Getenv("ADMIN_API_KEY"); v != "" {
		cfg.Admin.APIKey = v
	}
	if v := os.Getenv("DOWNLOAD_TOKEN_SECRET"); v != "" {
		cfg.Download.TokenSecret = v
	}

	// defaults
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Webhook.Tolerance <= 0 {
		cfg.Webhook.Tolerance = 5 * time.Minute
	}
	if cfg.Webhook.Port == 0 {
		cfg.Webhook.Port = 8080
	}
	cfg.Redis.TTL = normalizeTTL(cfg.Redis.TTL)

	// Minimal validation
	if cfg.Database.URL == "" {
		return nil, errors.New("database.url is required")
	}
	if cfg.Webhook.Secret == "" {
		return nil, errors.New("webhook.secret is required")
	}
	if cfg.Email.Sender == "" {
		return nil, errors.New("email.sender is required")
	}
	if cfg.Email.ResendKey == "" && !dev {
		return nil, errors.New("email.resend_key is required outside dev mode")
	}
	if cfg.Download.TokenSecret == "" {
		return nil, errors.New("download.token_secret is required")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

func normalizeTTL(d time.Duration) time.Duration {
	if d <= 0 {
		return time.Hour
	}
	return d
}

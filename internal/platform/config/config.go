// Package config provides environment-based configuration.
//
// Loads from .env file (godotenv), maps to Config struct via go-simpler/env
// struct tags. Validates required fields and key formats at startup.
package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

type Config struct {
	AppEnv      string `env:"APP_ENV" default:"development"`
	Port        string `env:"PORT" default:"8080"`
	DatabaseURL string `env:"DATABASE_URL"`

	SessionSecret string        `env:"SESSION_SECRET"`
	SessionMaxAge time.Duration `env:"SESSION_MAX_AGE" default:"168h"` // 7 days
	LoginURL      string        `env:"LOGIN_URL" default:"/auth/login"`

	// Upload storage. Backend is "local" or "s3".
	UploadBackend string `env:"UPLOAD_BACKEND" default:"local"`
	UploadRoot    string `env:"UPLOAD_ROOT" default:"./uploads"`
	MaxUploadSize int64  `env:"MAX_UPLOAD_SIZE" default:"10485760"` // 10 MiB

	S3Endpoint  string `env:"S3_ENDPOINT"`
	S3AccessKey string `env:"S3_ACCESS_KEY"`
	S3SecretKey string `env:"S3_SECRET_KEY"`
	S3Bucket    string `env:"S3_BUCKET"`
	S3UseSSL    bool   `env:"S3_USE_SSL" default:"true"`

	// Link tokens are stored encrypted when a key is configured.
	TokenEncryptionKey string `env:"TOKEN_ENCRYPTION_KEY"`

	// SMTP settings for the email-change notification. All empty disables mail.
	SMTPHost    string `env:"SMTP_HOST"`
	SMTPPort    string `env:"SMTP_PORT" default:"587"`
	SMTPUser    string `env:"SMTP_USER"`
	SMTPPass    string `env:"SMTP_PASS"`
	SenderEmail string `env:"SENDER_EMAIL"`

	LogLevel  string `env:"LOG_LEVEL" default:"info"`
	LogFormat string `env:"LOG_FORMAT" default:"text"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	required := map[string]string{
		"DATABASE_URL":   cfg.DatabaseURL,
		"SESSION_SECRET": cfg.SessionSecret,
	}
	for name, value := range required {
		if value == "" {
			return fmt.Errorf("%s is required", name)
		}
	}

	switch cfg.UploadBackend {
	case "local":
		if cfg.UploadRoot == "" {
			return errors.New("UPLOAD_ROOT is required for the local upload backend")
		}
	case "s3":
		for name, value := range map[string]string{
			"S3_ENDPOINT":   cfg.S3Endpoint,
			"S3_ACCESS_KEY": cfg.S3AccessKey,
			"S3_SECRET_KEY": cfg.S3SecretKey,
			"S3_BUCKET":     cfg.S3Bucket,
		} {
			if value == "" {
				return fmt.Errorf("%s is required for the s3 upload backend", name)
			}
		}
	default:
		return fmt.Errorf("UPLOAD_BACKEND must be \"local\" or \"s3\", got %q", cfg.UploadBackend)
	}

	if cfg.MaxUploadSize <= 0 {
		return errors.New("MAX_UPLOAD_SIZE must be positive")
	}

	if cfg.TokenEncryptionKey != "" {
		keyBytes, err := hex.DecodeString(cfg.TokenEncryptionKey)
		if err != nil {
			return fmt.Errorf("TOKEN_ENCRYPTION_KEY must be valid hex: %w", err)
		}
		if len(keyBytes) != 32 {
			return fmt.Errorf("TOKEN_ENCRYPTION_KEY must be exactly 64 hex characters (32 bytes), got %d bytes", len(keyBytes))
		}
	}

	// SMTP settings must be all set or all empty.
	smtpSet := cfg.SMTPHost != "" || cfg.SMTPUser != "" || cfg.SMTPPass != "" || cfg.SenderEmail != ""
	if smtpSet {
		if cfg.SMTPHost == "" || cfg.SMTPUser == "" || cfg.SMTPPass == "" || cfg.SenderEmail == "" {
			return errors.New("SMTP_HOST, SMTP_USER, SMTP_PASS, and SENDER_EMAIL must be set together")
		}
	}

	return nil
}

// MailEnabled reports whether SMTP notification mail is configured.
func (c *Config) MailEnabled() bool {
	return c.SMTPHost != ""
}

package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all configuration for the application, populated from the
// environment. A .env file is loaded first if present so local development
// does not need exported variables.
type Config struct {
	AppAddr    string `envconfig:"APP_ADDR" default:":8080"`
	AppBaseURL string `envconfig:"APP_BASE_URL" default:"http://localhost:8080"`

	DBUrl  string `envconfig:"SURREAL_URL"`
	DBUser string `envconfig:"SURREAL_USER"`
	DBPass string `envconfig:"SURREAL_PASS"`
	DBNs   string `envconfig:"SURREAL_NS"`
	DBDb   string `envconfig:"SURREAL_DB"`

	// AuthJWTSecret verifies HS256 identity tokens. AuthJWTPublicKey, when
	// set, takes precedence and switches verification to RS256 (PEM block).
	AuthJWTSecret    string `envconfig:"AUTH_JWT_SECRET"`
	AuthJWTPublicKey string `envconfig:"AUTH_JWT_PUBLIC_KEY"`

	SessionSecret string `envconfig:"SESSION_SECRET"`

	// WebhookSecret is the identity provider's signing secret for inbound
	// webhooks ("whsec_..." format). Verification is skipped when empty,
	// which is only acceptable in development.
	WebhookSecret string `envconfig:"IDENTITY_WEBHOOK_SECRET"`

	// Image storage and CDN settings.
	StorageRoot string `envconfig:"STORAGE_ROOT" default:"data/uploads"`
	CDNBaseURL  string `envconfig:"CDN_BASE_URL" default:"http://localhost:8080/static"`

	// NotificationTTL controls how long a live notification stays visible
	// before the client auto-dismisses it.
	NotificationTTL time.Duration `envconfig:"NOTIFICATION_TTL" default:"6s"`
}

// New loads configuration from the environment, exiting on missing required
// database settings since nothing can run without them.
func New() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatal(err)
	}
	return cfg
}

// Load is the error-returning variant of New, used by tests and the CLI.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if cfg.DBUrl == "" || cfg.DBNs == "" || cfg.DBDb == "" {
		return nil, fmt.Errorf("required environment variables SURREAL_URL, SURREAL_NS, or SURREAL_DB are not set")
	}

	return &cfg, nil
}

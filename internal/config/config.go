package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds the daemon's environment-driven settings.
type Config struct {
	Port          string `env:"SPINCYCLE_PORT" envDefault:"8080"`
	DBPath        string `env:"SPINCYCLE_DB_PATH" envDefault:"spincycle.db"`
	LogLevel      string `env:"SPINCYCLE_LOG_LEVEL" envDefault:"info"`
	BaseURL       string `env:"SPINCYCLE_BASE_URL" envDefault:"http://localhost:8080"`
	PostmarkToken string `env:"SPINCYCLE_POSTMARK_TOKEN"`
	EmailFrom     string `env:"SPINCYCLE_EMAIL_FROM" envDefault:"noreply@spincycle.local"`
}

// Load reads configuration from the environment, with an optional local
// .env file layered underneath.
func Load() (*Config, error) {
	// Missing .env is fine; the environment alone is authoritative.
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

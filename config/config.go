// Package config loads application settings from the environment,
// with an optional .env file for local development.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v8"
	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	// General
	RespectRobots bool   `env:"TRENDMUSE_RESPECT_ROBOTS" envDefault:"true"`
	DelayProfile  string `env:"TRENDMUSE_DELAY_PROFILE" envDefault:"normal"` // cautious, normal, aggressive
	LogLevel      string `env:"TRENDMUSE_LOG_LEVEL" envDefault:"info"`

	// Rate limiting
	RatePerSecond float64 `env:"TRENDMUSE_RATE_PER_SECOND" envDefault:"2.0"`
	RateBurst     int     `env:"TRENDMUSE_RATE_BURST" envDefault:"3"`
	MaxConcurrent int     `env:"TRENDMUSE_MAX_CONCURRENT" envDefault:"5"`

	// Storage
	DBPath string `env:"TRENDMUSE_DB_PATH" envDefault:"data/trendmuse.db"`

	// HTTP server
	HTTPPort string `env:"PORT" envDefault:"8080"`
	APIKey   string `env:"TRENDMUSE_API_KEY"`

	// Proxy
	ProxyFile string `env:"TRENDMUSE_PROXIES"`

	// Design studio
	ImageAPIKey string `env:"TRENDMUSE_IMAGE_API_KEY"`
	ImageAPIURL string `env:"TRENDMUSE_IMAGE_API_URL"`
}

// Load reads .env (if present) and parses the environment. Parse
// failures are configuration errors, not defaults.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := new(Config)
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DelayProfile {
	case "cautious", "normal", "aggressive":
	default:
		return fmt.Errorf("unknown delay profile %q", c.DelayProfile)
	}
	if c.RatePerSecond <= 0 {
		return fmt.Errorf("rate per second must be positive, got %v", c.RatePerSecond)
	}
	if c.MaxConcurrent <= 0 {
		return fmt.Errorf("max concurrent must be positive, got %d", c.MaxConcurrent)
	}
	return nil
}

package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds client configuration. Values come from the environment and
// may be overridden by command-line flags.
type Config struct {
	BackendURL     string        `env:"NEXUS_BACKEND_URL" envDefault:"http://localhost:8000"`
	Email          string        `env:"NEXUS_EMAIL"`
	Token          string        `env:"NEXUS_TOKEN"`
	LogLevel       string        `env:"NEXUS_LOG_LEVEL" envDefault:"info"`
	LogFile        string        `env:"NEXUS_LOG_FILE"`
	PollInterval   time.Duration `env:"NEXUS_POLL_INTERVAL" envDefault:"5s"`
	RequestTimeout time.Duration `env:"NEXUS_REQUEST_TIMEOUT" envDefault:"2m"`
}

// DefaultConfig returns the built-in defaults without consulting the
// environment.
func DefaultConfig() Config {
	return Config{
		BackendURL:     "http://localhost:8000",
		LogLevel:       "info",
		PollInterval:   5 * time.Second,
		RequestTimeout: 2 * time.Minute,
	}
}

// Load builds a Config from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}

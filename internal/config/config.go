// Package config resolves the client configuration from the environment,
// once, during process initialization.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// DefaultBaseURL is the local-development backend used when no override
// is supplied.
const DefaultBaseURL = "http://localhost:8000/api/"

type APIConfig struct {
	BaseURL string        `env:"STOREFRONT_API_URL"`
	Timeout time.Duration `env:"STOREFRONT_API_TIMEOUT" envDefault:"30s"`
}

type LogConfig struct {
	Level string `env:"STOREFRONT_LOG_LEVEL" envDefault:"info"`
}

type SessionConfig struct {
	File      string `env:"STOREFRONT_SESSION_FILE"`
	RedisAddr string `env:"STOREFRONT_SESSION_REDIS"`
}

type MetricsConfig struct {
	Addr string `env:"STOREFRONT_METRICS_ADDR"`
}

type GuardConfig struct {
	RoutesFile string `env:"STOREFRONT_ROUTES_FILE"`
}

type Config struct {
	API     APIConfig
	Log     LogConfig
	Session SessionConfig
	Metrics MetricsConfig
	Guard   GuardConfig
}

// Load parses the environment into a Config and applies defaults.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}

	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = DefaultBaseURL
	}
	// The backend requires trailing slashes; relative paths are joined
	// against the base, so the base must end with one.
	if !strings.HasSuffix(cfg.API.BaseURL, "/") {
		cfg.API.BaseURL += "/"
	}

	if cfg.Session.File == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("resolve home dir: %w", err)
		}
		cfg.Session.File = filepath.Join(home, ".storefront", "session.json")
	} else if strings.HasPrefix(cfg.Session.File, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("resolve home dir: %w", err)
		}
		cfg.Session.File = filepath.Join(home, cfg.Session.File[2:])
	}

	return cfg, nil
}

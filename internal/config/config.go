// Package config loads and validates CLI configuration from environment variables.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all configuration values for the tripkit client.
// Values are populated by Load from environment variables.
type Config struct {
	// APIBaseURL is the base endpoint of the remote trip planner API.
	// Defaults to the local dev server.
	APIBaseURL string `env:"TRIPKIT_API_URL" envDefault:"http://localhost:8080/api"`

	// StateFile is the path of the session state file (bearer token plus the
	// signed-in user). When unset, Load resolves a per-user default under the
	// OS config directory.
	StateFile string `env:"TRIPKIT_STATE_FILE"`

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTPTimeout bounds every request to the remote API. There are no
	// retries anywhere in the client, so this is the only time limit.
	HTTPTimeout time.Duration `env:"TRIPKIT_HTTP_TIMEOUT" envDefault:"30s"`
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error when a value is present but malformed; absent optional
// values fall back to their defaults.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config.Load: %w", err)
	}

	u, err := url.Parse(cfg.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return Config{}, fmt.Errorf("config.Load: TRIPKIT_API_URL %q is not an absolute URL", cfg.APIBaseURL)
	}

	if cfg.StateFile == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return Config{}, fmt.Errorf("config.Load: resolving state file location: %w", err)
		}
		cfg.StateFile = filepath.Join(dir, "tripkit", "session.json")
	}

	if cfg.HTTPTimeout <= 0 {
		return Config{}, fmt.Errorf("config.Load: TRIPKIT_HTTP_TIMEOUT must be positive")
	}

	return cfg, nil
}

// Package config loads runtime settings for the jobctl CLI.
package config

import (
	"os"
	"time"
)

// Config holds runtime settings for the jobctl CLI.
//
// Fields:
//   - BackendBaseURL: base URL of the job-tracker REST backend.
//   - StateDBPath: path of the local SQLite database holding the auth token
//     and the cached user snapshot.
//   - RequestTimeout: fixed per-request timeout.
//   - Environment: "development" or "production"; controls log verbosity.
type Config struct {
	BackendBaseURL string
	StateDBPath    string
	RequestTimeout time.Duration
	Environment    string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.BackendBaseURL = "http://127.0.0.1:8000"
	c.StateDBPath = "jobctl.db"
	c.RequestTimeout = 15 * time.Second
	c.Environment = "development"
}

// parseEnv overlays values from the environment (typically loaded from a
// .env file by the entrypoint).
func parseEnv(cfg *Config) {
	if v := os.Getenv("JOBCTL_BACKEND_URL"); v != "" {
		cfg.BackendBaseURL = v
	}
	if v := os.Getenv("JOBCTL_STATE_DB"); v != "" {
		cfg.StateDBPath = v
	}
	if v := os.Getenv("JOBCTL_ENV"); v != "" {
		cfg.Environment = v
	}
	if v := os.Getenv("JOBCTL_REQUEST_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.RequestTimeout = parsed
		}
	}
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from the environment, a JSON file (if present) and command-line flags.
// Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Load reads the configuration file at path, applies defaults, applies
// OLLAMAGATE_* environment variable overrides and validates the result.
//
// A missing file is not an error when path is empty: the gateway then runs
// from defaults and environment alone.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// Fall through to defaults; the file is optional.
		case err != nil:
			return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
			}
		}
	}

	ApplyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// applyEnvOverrides applies OLLAMAGATE_* environment variables on top of
// the file-based configuration.
func applyEnvOverrides(cfg *Config) {
	if val := os.Getenv("OLLAMAGATE_LISTEN_ADDRESS"); val != "" {
		cfg.Server.ListenAddress = val
	}
	if val := os.Getenv("OLLAMAGATE_ENDPOINTS"); val != "" {
		cfg.Endpoints.Raw = val
	}
	if val := os.Getenv("OLLAMAGATE_BACKEND_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Backend.RequestTimeout = d
		}
	}
	if val := os.Getenv("OLLAMAGATE_API_KEYS"); val != "" {
		keys := strings.Split(val, ",")
		cfg.Auth.APIKeys = cfg.Auth.APIKeys[:0]
		for _, k := range keys {
			if k = strings.TrimSpace(k); k != "" {
				cfg.Auth.APIKeys = append(cfg.Auth.APIKeys, k)
			}
		}
	}
	if val := os.Getenv("OLLAMAGATE_LOG_LEVEL"); val != "" {
		cfg.Logging.Level = val
	}
	if val := os.Getenv("OLLAMAGATE_LOG_FORMAT"); val != "" {
		cfg.Logging.Format = val
	}
	if val := os.Getenv("OLLAMAGATE_HISTORY_PATH"); val != "" {
		cfg.History.Path = val
	}
	if val := os.Getenv("OLLAMAGATE_SWEEP_SCHEDULE"); val != "" {
		cfg.Sweep.Schedule = val
	}
}

// Package config loads and validates the gateway configuration.
//
// Configuration comes from an optional YAML file plus OLLAMAGATE_* environment
// variable overrides; environment variables always win. The multi-endpoint
// string itself is opaque to this package and parsed by pkg/endpoints.
package config

import (
	"fmt"
	"time"
)

// Config is the root gateway configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Endpoints EndpointsConfig `yaml:"endpoints"`
	Backend   BackendConfig   `yaml:"backend"`
	Auth      AuthConfig      `yaml:"auth"`
	Logging   LoggingConfig   `yaml:"logging"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	History   HistoryConfig   `yaml:"history"`
	Sweep     SweepConfig     `yaml:"sweep"`
}

// ServerConfig controls the inbound HTTP listener.
type ServerConfig struct {
	// ListenAddress is the host:port the gateway binds to.
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout bounds reading an inbound request.
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// IdleTimeout bounds idle keep-alive connections.
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MaxHeaderBytes bounds inbound header size.
	MaxHeaderBytes int `yaml:"max_header_bytes"`

	CORS CORSConfig `yaml:"cors"`
}

// CORSConfig controls cross-origin request handling.
type CORSConfig struct {
	Enabled        bool     `yaml:"enabled"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// EndpointsConfig carries the raw multi-endpoint string.
type EndpointsConfig struct {
	// Raw is the endpoint configuration string,
	// grammar: url[_credential](,url[_credential])*.
	Raw string `yaml:"raw"`

	// Watch re-parses the registry when the config file changes.
	Watch bool `yaml:"watch"`
}

// BackendConfig controls outbound calls to the selected backend.
type BackendConfig struct {
	// RequestTimeout bounds non-streaming backend calls. Zero leaves
	// them unbounded; streaming calls are never bounded.
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

// AuthConfig gates inbound requests. An empty key list disables the gate.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// LoggingConfig controls the structured logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig controls Prometheus exposure.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// HistoryConfig controls the persisted relay-operation log.
type HistoryConfig struct {
	Enabled bool `yaml:"enabled"`

	// Path is the sqlite database file.
	Path string `yaml:"path"`

	// Limit caps the number of entries returned by the history listing.
	Limit int `yaml:"limit"`
}

// SweepConfig schedules the periodic endpoint connectivity sweep.
// An empty schedule disables it.
type SweepConfig struct {
	// Schedule is a standard cron expression, e.g. "*/5 * * * *".
	Schedule string `yaml:"schedule"`
}

// ApplyDefaults fills zero values with working defaults.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = ":3333"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 30 * time.Second
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = 120 * time.Second
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 15 * time.Second
	}
	if cfg.Server.MaxHeaderBytes == 0 {
		cfg.Server.MaxHeaderBytes = 1 << 20
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
	if cfg.History.Path == "" {
		cfg.History.Path = "ollamagate-history.db"
	}
	if cfg.History.Limit == 0 {
		cfg.History.Limit = 100
	}
}

// Validate rejects configurations that cannot work.
func Validate(cfg *Config) error {
	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging level %q", cfg.Logging.Level)
	}

	switch cfg.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("invalid logging format %q", cfg.Logging.Format)
	}

	if cfg.Server.ListenAddress == "" {
		return fmt.Errorf("server listen address must not be empty")
	}

	if cfg.History.Limit < 0 {
		return fmt.Errorf("history limit must not be negative")
	}

	return nil
}

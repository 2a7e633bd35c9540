package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.ListenAddress != ":3333" {
		t.Errorf("listen address = %q, want :3333", cfg.Server.ListenAddress)
	}
	if cfg.Endpoints.Raw != "" {
		t.Errorf("endpoints raw = %q, want empty (registry falls back to default)", cfg.Endpoints.Raw)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "text" {
		t.Errorf("logging defaults = %s/%s, want info/text", cfg.Logging.Level, cfg.Logging.Format)
	}
	if cfg.Backend.RequestTimeout != 0 {
		t.Errorf("backend timeout = %v, want 0 (unbounded)", cfg.Backend.RequestTimeout)
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  listen_address: ":8090"
endpoints:
  raw: "http://a:11434_tok,http://b:11434"
backend:
  request_timeout: 45s
auth:
  api_keys:
    - key-one
logging:
  level: debug
  format: json
sweep:
  schedule: "*/5 * * * *"
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.ListenAddress != ":8090" {
		t.Errorf("listen address = %q, want :8090", cfg.Server.ListenAddress)
	}
	if cfg.Endpoints.Raw != "http://a:11434_tok,http://b:11434" {
		t.Errorf("endpoints raw = %q", cfg.Endpoints.Raw)
	}
	if cfg.Backend.RequestTimeout != 45*time.Second {
		t.Errorf("backend timeout = %v, want 45s", cfg.Backend.RequestTimeout)
	}
	if len(cfg.Auth.APIKeys) != 1 || cfg.Auth.APIKeys[0] != "key-one" {
		t.Errorf("api keys = %v", cfg.Auth.APIKeys)
	}
	if cfg.Sweep.Schedule != "*/5 * * * *" {
		t.Errorf("sweep schedule = %q", cfg.Sweep.Schedule)
	}
}

func TestLoad_EnvOverridesWin(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("endpoints:\n  raw: \"http://file:11434\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("OLLAMAGATE_ENDPOINTS", "http://env:11434_envtok")
	t.Setenv("OLLAMAGATE_LOG_LEVEL", "warn")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Endpoints.Raw != "http://env:11434_envtok" {
		t.Errorf("endpoints raw = %q, want env value", cfg.Endpoints.Raw)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("log level = %q, want warn", cfg.Logging.Level)
	}
}

func TestLoad_RejectsInvalidLevel(t *testing.T) {
	t.Setenv("OLLAMAGATE_LOG_LEVEL", "loud")

	if _, err := Load(""); err == nil {
		t.Fatal("expected validation error for invalid log level")
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server: [broken"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error for malformed YAML")
	}
}

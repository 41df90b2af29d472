package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Server.HTTPPort != 8080 {
		t.Errorf("Expected default port 8080, got %d", cfg.Server.HTTPPort)
	}
	if cfg.Cache.Backend != "memory" {
		t.Errorf("Expected memory cache backend, got %s", cfg.Cache.Backend)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should validate: %v", err)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	path := writeConfig(t, `
server:
  http_port: 9090
provider:
  model: test-model
  timeout: 10s
cache:
  backend: memory
  default_ttl: 5m
`)

	cfg, err := LoadConfigFromFile(path)
	if err != nil {
		t.Fatalf("LoadConfigFromFile failed: %v", err)
	}

	if cfg.Server.HTTPPort != 9090 {
		t.Errorf("Expected port 9090, got %d", cfg.Server.HTTPPort)
	}
	if cfg.Provider.Model != "test-model" {
		t.Errorf("Expected model test-model, got %s", cfg.Provider.Model)
	}
	if cfg.Provider.Timeout != Duration(10*time.Second) {
		t.Errorf("Expected 10s provider timeout, got %s", cfg.Provider.Timeout)
	}
	if cfg.Cache.DefaultTTL != Duration(5*time.Minute) {
		t.Errorf("Expected 5m cache TTL, got %s", cfg.Cache.DefaultTTL)
	}
	// Unset values keep their defaults
	if cfg.Server.ReadTimeout != Duration(30*time.Second) {
		t.Errorf("Expected default read timeout, got %s", cfg.Server.ReadTimeout)
	}
}

func TestLoadConfigExpandsEnv(t *testing.T) {
	t.Setenv("TEST_PROVIDER_KEY", "sk-test-123")
	path := writeConfig(t, `
provider:
  api_key: ${TEST_PROVIDER_KEY}
`)

	cfg, err := LoadConfigFromFile(path)
	if err != nil {
		t.Fatalf("LoadConfigFromFile failed: %v", err)
	}
	if cfg.Provider.APIKey != "sk-test-123" {
		t.Errorf("Expected expanded API key, got %q", cfg.Provider.APIKey)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("DATABASE_DSN", "host=db port=5432")
	t.Setenv("REDIS_URL", "redis://cache:6379")

	cfg := DefaultConfig()
	cfg.ApplyEnvOverrides()

	if cfg.Database.DSN != "host=db port=5432" {
		t.Errorf("Expected DSN override, got %q", cfg.Database.DSN)
	}
	if cfg.Cache.Backend != "redis" || cfg.Cache.RedisURL != "redis://cache:6379" {
		t.Errorf("Expected redis backend from env, got %s/%s", cfg.Cache.Backend, cfg.Cache.RedisURL)
	}
}

func TestValidateRejectsBadConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.HTTPPort = 0
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for invalid port")
	}

	cfg = DefaultConfig()
	cfg.Cache.Backend = "memcached"
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for unknown cache backend")
	}

	cfg = DefaultConfig()
	cfg.Cache.Backend = "redis"
	cfg.Cache.RedisURL = ""
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for redis backend without URL")
	}
}

func TestWatcherReloadsOnChange(t *testing.T) {
	path := writeConfig(t, "server:\n  http_port: 8080\n")

	reloaded := make(chan *Config, 1)
	w, err := NewWatcher(path, func(cfg *Config) {
		select {
		case reloaded <- cfg:
		default:
		}
	})
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("server:\n  http_port: 9191\n"), 0644); err != nil {
		t.Fatalf("failed to rewrite config: %v", err)
	}

	select {
	case cfg := <-reloaded:
		if cfg.Server.HTTPPort != 9191 {
			t.Errorf("Expected reloaded port 9191, got %d", cfg.Server.HTTPPort)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Timed out waiting for config reload")
	}
}

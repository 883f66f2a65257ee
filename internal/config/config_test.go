package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"STOREFRONT_API_URL",
		"STOREFRONT_API_TIMEOUT",
		"STOREFRONT_LOG_LEVEL",
		"STOREFRONT_SESSION_FILE",
	} {
		// t.Setenv registers the restore; Unsetenv makes the variable
		// genuinely absent so envDefault values apply.
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.API.BaseURL != DefaultBaseURL {
		t.Errorf("BaseURL = %q, want %q", cfg.API.BaseURL, DefaultBaseURL)
	}
	if cfg.API.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", cfg.API.Timeout)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want info", cfg.Log.Level)
	}
	if !strings.HasSuffix(cfg.Session.File, ".storefront/session.json") {
		t.Errorf("Session.File = %q, want default under home", cfg.Session.File)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STOREFRONT_API_URL", "https://shop.example.com/api")
	t.Setenv("STOREFRONT_API_TIMEOUT", "5s")
	t.Setenv("STOREFRONT_LOG_LEVEL", "debug")
	t.Setenv("STOREFRONT_SESSION_FILE", "/tmp/storefront-session.json")
	t.Setenv("STOREFRONT_SESSION_REDIS", "localhost:6379")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// The base URL gains its required trailing slash.
	if cfg.API.BaseURL != "https://shop.example.com/api/" {
		t.Errorf("BaseURL = %q, want trailing slash appended", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", cfg.API.Timeout)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
	if cfg.Session.File != "/tmp/storefront-session.json" {
		t.Errorf("Session.File = %q", cfg.Session.File)
	}
	if cfg.Session.RedisAddr != "localhost:6379" {
		t.Errorf("Session.RedisAddr = %q", cfg.Session.RedisAddr)
	}
}

func TestLoadInvalidTimeout(t *testing.T) {
	t.Setenv("STOREFRONT_API_TIMEOUT", "not-a-duration")

	if _, err := Load(); err == nil {
		t.Error("Load() with bad timeout should fail")
	}
}

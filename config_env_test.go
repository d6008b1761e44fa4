package amsauth

import (
	"testing"
	"time"
)

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("from env: %v", err)
	}

	if cfg.Service.SystemID != "ams" {
		t.Fatalf("unexpected system id %q", cfg.Service.SystemID)
	}
	if cfg.Session.RefreshInterval != 4*time.Minute {
		t.Fatalf("unexpected refresh interval %v", cfg.Session.RefreshInterval)
	}
	if cfg.HTTP.Timeout != 15*time.Second {
		t.Fatalf("unexpected timeout %v", cfg.HTTP.Timeout)
	}
	if cfg.Storage.StateDir == "" {
		t.Fatal("state dir default not filled")
	}
	if !cfg.Metrics.Enabled {
		t.Fatal("metrics should default to enabled")
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("AMSAUTH_SERVICE_URL", "https://auth.example.com")
	t.Setenv("AMSAUTH_SYSTEM_ID", "tts")
	t.Setenv("AMSAUTH_REFRESH_INTERVAL", "90s")
	t.Setenv("AMSAUTH_STATE_DIR", "/var/lib/ams")
	t.Setenv("AMSAUTH_METRICS_ENABLED", "false")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("from env: %v", err)
	}

	if cfg.Service.BaseURL != "https://auth.example.com" {
		t.Fatalf("base url not read, got %q", cfg.Service.BaseURL)
	}
	if cfg.Service.SystemID != "tts" {
		t.Fatalf("system id not read, got %q", cfg.Service.SystemID)
	}
	if cfg.Session.RefreshInterval != 90*time.Second {
		t.Fatalf("refresh interval not read, got %v", cfg.Session.RefreshInterval)
	}
	if cfg.Storage.StateDir != "/var/lib/ams" {
		t.Fatalf("state dir not read, got %q", cfg.Storage.StateDir)
	}
	if cfg.Metrics.Enabled {
		t.Fatal("metrics toggle not read")
	}
}

func TestConfigValidate(t *testing.T) {
	valid := defaultConfig()
	valid.Service.BaseURL = "https://auth.example.com"
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing base url", func(c *Config) { c.Service.BaseURL = "" }},
		{"missing system id", func(c *Config) { c.Service.SystemID = "" }},
		{"zero refresh interval", func(c *Config) { c.Session.RefreshInterval = 0 }},
		{"zero timeout", func(c *Config) { c.HTTP.Timeout = 0 }},
		{"missing state dir", func(c *Config) { c.Storage.StateDir = "" }},
	}

	for _, tc := range cases {
		cfg := valid
		tc.mutate(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Fatalf("%s: expected a validation error", tc.name)
		}
	}
}

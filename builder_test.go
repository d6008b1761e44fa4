package amsauth

import "testing"

func TestBuilderRejectsInvalidConfig(t *testing.T) {
	cfg := defaultConfig() // no BaseURL
	if _, err := New().WithConfig(cfg).Build(); err == nil {
		t.Fatal("build succeeded without a service URL")
	}
}

func TestBuilderSingleUse(t *testing.T) {
	cfg := defaultConfig()
	cfg.Service.BaseURL = "https://auth.example.com"
	cfg.Storage.StateDir = t.TempDir()

	b := New().WithConfig(cfg)
	mgr, err := b.Build()
	if err != nil {
		t.Fatalf("first build failed: %v", err)
	}
	t.Cleanup(mgr.Close)

	if _, err := b.Build(); err == nil {
		t.Fatal("builder allowed a second build")
	}
}

func TestMetricsToggle(t *testing.T) {
	cfg := defaultConfig()
	cfg.Service.BaseURL = "https://auth.example.com"
	cfg.Storage.StateDir = t.TempDir()

	mgr, err := New().WithConfig(cfg).WithMetricsEnabled(false).Build()
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	t.Cleanup(mgr.Close)

	mgr.metrics.Inc(MetricLoginSuccess)
	if got := mgr.MetricsSnapshot()[MetricLoginSuccess]; got != 0 {
		t.Fatalf("disabled metrics counted: %d", got)
	}
}

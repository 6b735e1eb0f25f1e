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
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, "sparlo:\n  api_key: k1\n")

	cfg, err := LoadConfig(path, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Sparlo.PollInterval != 30*time.Second {
		t.Errorf("poll interval default = %v", cfg.Sparlo.PollInterval)
	}
	if cfg.Sparlo.WatchTimeout != 35*time.Minute {
		t.Errorf("watch timeout default = %v", cfg.Sparlo.WatchTimeout)
	}
	if cfg.Benchmark.ResultsFile != "results.csv" || cfg.Benchmark.ReportsDir != "reports" {
		t.Errorf("benchmark defaults = %+v", cfg.Benchmark)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("log level default = %q", cfg.Log.Level)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	path := writeConfig(t, "sparlo:\n  api_key: from-file\n  base_url: https://file.example\n")
	t.Setenv("SPARLO_API_URL", "https://env.example")
	t.Setenv("BENCHMARK_API_KEY", "from-env")

	cfg, err := LoadConfig(path, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Sparlo.BaseURL != "https://env.example" {
		t.Errorf("env must override file, got %q", cfg.Sparlo.BaseURL)
	}
	if cfg.Sparlo.APIKey != "from-env" {
		t.Errorf("env must override file key, got %q", cfg.Sparlo.APIKey)
	}
}

func TestLoadConfigMissingFileUsesEnv(t *testing.T) {
	t.Setenv("BENCHMARK_API_KEY", "env-only")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"), true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Sparlo.APIKey != "env-only" {
		t.Errorf("api key = %q", cfg.Sparlo.APIKey)
	}
	if !cfg.Runtime.Dev {
		t.Error("dev flag not carried into runtime config")
	}
}

func TestLoadConfigRequiresAPIKey(t *testing.T) {
	path := writeConfig(t, "log:\n  level: debug\n")
	if _, err := LoadConfig(path, false); err == nil {
		t.Fatal("expected missing api key error")
	}
}

func TestLoadConfigReducedMotionEnv(t *testing.T) {
	path := writeConfig(t, "sparlo:\n  api_key: k1\n")
	t.Setenv("SPARLO_REDUCED_MOTION", "1")

	cfg, err := LoadConfig(path, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.UI.ReducedMotion {
		t.Error("reduced motion env not applied")
	}
}

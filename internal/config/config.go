// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type SparloConfig struct {
	BaseURL      string        `yaml:"base_url"`
	APIKey       string        `yaml:"api_key"` // overridden by BENCHMARK_API_KEY
	Timeout      time.Duration `yaml:"timeout"`
	PollInterval time.Duration `yaml:"poll_interval"`
	WatchTimeout time.Duration `yaml:"watch_timeout"`
}

type BaselineConfig struct {
	APIKey  string `yaml:"api_key"` // overridden by OPENAI_API_KEY
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"` // any OpenAI-compatible endpoint
}

type BenchmarkConfig struct {
	ResultsFile string `yaml:"results_file"`
	ReportsDir  string `yaml:"reports_dir"`
	Workers     int    `yaml:"workers"` // concurrent cases
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type UIConfig struct {
	ReducedMotion bool `yaml:"reduced_motion"` // suppress spinner and status rotation
}

type AdminConfig struct {
	Port int `yaml:"port"` // health/metrics server; 0 disables
}

type Config struct {
	Sparlo    SparloConfig    `yaml:"sparlo"`
	Baseline  BaselineConfig  `yaml:"baseline"`
	Benchmark BenchmarkConfig `yaml:"benchmark"`
	Log       LogConfig       `yaml:"log"`
	UI        UIConfig        `yaml:"ui"`
	Admin     AdminConfig     `yaml:"admin"`

	Runtime RuntimeConfig `yaml:"-"`
}

// LoadConfig reads the YAML file, applies env-var overrides for secrets and
// endpoints, and fills defaults. The config file may be absent: every field
// has a default or an env source.
func LoadConfig(path string, dev bool) (*Config, error) {
	var cfg Config

	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	case os.IsNotExist(err):
		// env-only configuration
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Env overrides take precedence over the file.
	if v := os.Getenv("SPARLO_API_URL"); v != "" {
		cfg.Sparlo.BaseURL = v
	}
	if v := os.Getenv("BENCHMARK_API_KEY"); v != "" {
		cfg.Sparlo.APIKey = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.Baseline.APIKey = v
	}
	if os.Getenv("SPARLO_REDUCED_MOTION") != "" {
		cfg.UI.ReducedMotion = true
	}

	// defaults
	if cfg.Sparlo.BaseURL == "" {
		cfg.Sparlo.BaseURL = "https://sparlo-production.up.railway.app"
	}
	if cfg.Sparlo.Timeout <= 0 {
		cfg.Sparlo.Timeout = 60 * time.Second
	}
	if cfg.Sparlo.PollInterval <= 0 {
		cfg.Sparlo.PollInterval = 30 * time.Second
	}
	if cfg.Sparlo.WatchTimeout <= 0 {
		cfg.Sparlo.WatchTimeout = 35 * time.Minute
	}
	if cfg.Baseline.Model == "" {
		cfg.Baseline.Model = "gpt-4o"
	}
	if cfg.Benchmark.ResultsFile == "" {
		cfg.Benchmark.ResultsFile = "results.csv"
	}
	if cfg.Benchmark.ReportsDir == "" {
		cfg.Benchmark.ReportsDir = "reports"
	}
	if cfg.Benchmark.Workers <= 0 {
		cfg.Benchmark.Workers = 1
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}

	// Minimal validation
	if cfg.Sparlo.APIKey == "" {
		return nil, errors.New("sparlo.api_key is required (or set BENCHMARK_API_KEY)")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

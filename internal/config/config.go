// Package config loads YAML configuration with environment overrides.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration for strategy-lab.
type Config struct {
	Storage   Storage         `yaml:"storage"`
	Provider  Provider        `yaml:"provider"`
	Optimizer OptimizerConfig `yaml:"optimizer"`
	Batch     BatchConfig     `yaml:"batch"`
}

// Storage holds DSNs for the persistence backends. Empty DSNs select the
// in-memory stores.
type Storage struct {
	PostgresDSN   string `yaml:"postgres_dsn"`
	ClickhouseDSN string `yaml:"clickhouse_dsn"`
}

// Provider configures the market data source. An empty endpoint selects the
// deterministic stub provider.
type Provider struct {
	Endpoint       string `yaml:"endpoint"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	MaxRetries     int    `yaml:"max_retries"`
}

// OptimizerConfig controls grid search execution.
type OptimizerConfig struct {
	Workers     int     `yaml:"workers"`
	InitialCash float64 `yaml:"initial_cash"`
}

// BatchConfig controls the re-optimization batch.
type BatchConfig struct {
	Tickers      []string `yaml:"tickers"`
	Strategies   []string `yaml:"strategies"`
	StalenessHrs int      `yaml:"staleness_hours"`
	LookbackDays int      `yaml:"lookback_days"`
	Workers      int      `yaml:"workers"`
}

// Load reads the YAML configuration file at the given path, parses it into a
// Config struct, and then applies environment variable overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

// Default returns the configuration used when no file is given: in-memory
// stores and the stub provider.
func Default() *Config {
	cfg := &Config{}
	applyEnvOverrides(cfg)
	return cfg
}

// applyEnvOverrides checks well-known environment variables and overrides the
// corresponding configuration fields when they are set.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		cfg.Storage.PostgresDSN = v
	}
	if v := os.Getenv("CLICKHOUSE_DSN"); v != "" {
		cfg.Storage.ClickhouseDSN = v
	}
	if v := os.Getenv("PROVIDER_ENDPOINT"); v != "" {
		cfg.Provider.Endpoint = v
	}
	if v := os.Getenv("OPTIMIZER_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Optimizer.Workers = n
		}
	}
	if v := os.Getenv("INITIAL_CASH"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			cfg.Optimizer.InitialCash = f
		}
	}
}

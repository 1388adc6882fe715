// Package config loads and validates service configuration from a YAML
// file with environment-variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/propgo/propgo/dataset"
)

// Config is the top-level service configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Dataset DatasetConfig `yaml:"dataset"`
	Index   IndexConfig   `yaml:"index"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"readTimeout"`
	WriteTimeout    time.Duration `yaml:"writeTimeout"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
	// RateLimit is the sustained per-client request rate; RateBurst the
	// short-term burst allowance. Zero disables rate limiting.
	RateLimit float64 `yaml:"rateLimit"`
	RateBurst int     `yaml:"rateBurst"`
}

// DatasetConfig points at the property CSV and names its columns.
type DatasetConfig struct {
	Path    string          `yaml:"path"`
	Columns dataset.Columns `yaml:"columns"`
}

// IndexConfig holds the bucket widths for range attributes.
type IndexConfig struct {
	PriceBucketWidth int64 `yaml:"priceBucketWidth"`
	YearBucketWidth  int64 `yaml:"yearBucketWidth"`
	ParallelBuild    bool  `yaml:"parallelBuild"`
}

// LoggingConfig controls structured logging level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// MetricsConfig controls the Prometheus scrape endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     5 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 15 * time.Second,
			RateLimit:       50,
			RateBurst:       100,
		},
		Dataset: DatasetConfig{
			Path:    "data/properties.csv",
			Columns: dataset.DefaultColumns(),
		},
		Index: IndexConfig{
			PriceBucketWidth: 50_000,
			YearBucketWidth:  10,
			ParallelBuild:    true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}

// Load reads the YAML file at path, applies environment overrides, and
// validates the result. An empty path yields the defaults (plus
// overrides).
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides lets deployment environments override the settings
// that differ per instance without editing the file.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PROPGO_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("PROPGO_DATASET_PATH"); v != "" {
		cfg.Dataset.Path = v
	}
	if v := os.Getenv("PROPGO_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("PROPGO_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
}

// Validate checks settings that would otherwise fail at first use.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Dataset.Path == "" {
		return fmt.Errorf("dataset path must not be empty")
	}
	if c.Index.PriceBucketWidth <= 0 {
		return fmt.Errorf("price bucket width must be positive, got %d", c.Index.PriceBucketWidth)
	}
	if c.Index.YearBucketWidth <= 0 {
		return fmt.Errorf("year bucket width must be positive, got %d", c.Index.YearBucketWidth)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format: %q", c.Logging.Format)
	}
	return nil
}

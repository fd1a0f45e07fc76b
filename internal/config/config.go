package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variables that override the file.
const (
	EnvDatabaseURL = "DATABASE_URL"
	EnvDialect     = "BURGERSTOCK_DB_DIALECT"
	EnvLogLevel    = "BURGERSTOCK_LOG_LEVEL"
)

// Config represents the application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	LogLevel string         `yaml:"log_level"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Seed     SeedConfig     `yaml:"seed"`
	Fries    FriesConfig    `yaml:"fries"`
	Feed     FeedConfig     `yaml:"feed"`
}

type ServerConfig struct {
	Port            int           `yaml:"port"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	// Dialect is "sqlite3" or "postgres". Empty means infer from URL.
	Dialect string `yaml:"dialect"`
	URL     string `yaml:"url"`
	Debug   bool   `yaml:"debug"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Port    int    `yaml:"port"`
	Path    string `yaml:"path"`
}

type SeedConfig struct {
	InitialQuantity int64 `yaml:"initial_quantity"`
}

type FriesConfig struct {
	// LegacyTruncatedDeduct deducts floor(kg) for standalone fries orders.
	LegacyTruncatedDeduct bool `yaml:"legacy_truncated_deduct"`
}

type FeedConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Dialect: "sqlite3",
			URL:     "burgerstock.db",
		},
		LogLevel: "info",
		Metrics: MetricsConfig{
			Enabled: true,
			Port:    9090,
			Path:    "/metrics",
		},
		Seed:  SeedConfig{InitialQuantity: 10},
		Feed:  FeedConfig{Enabled: true},
		Fries: FriesConfig{},
	}
}

// Load reads path over the defaults and applies environment overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		}
	}

	cfg.applyEnv(os.LookupEnv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvDatabaseURL); ok && v != "" {
		c.Database.URL = v
		// A URL from the environment decides its own dialect unless one is forced.
		if _, forced := lookup(EnvDialect); !forced {
			c.Database.Dialect = ""
		}
	}
	if v, ok := lookup(EnvDialect); ok && v != "" {
		c.Database.Dialect = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.LogLevel = v
	}
}

// Validate checks the values the server cannot start without.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Metrics.Enabled {
		if c.Metrics.Port <= 0 || c.Metrics.Port > 65535 {
			return fmt.Errorf("metrics.port %d out of range", c.Metrics.Port)
		}
		if c.Metrics.Port == c.Server.Port {
			return fmt.Errorf("metrics.port must differ from server.port")
		}
		if c.Metrics.Path == "" || c.Metrics.Path[0] != '/' {
			return fmt.Errorf("metrics.path must start with /")
		}
	}
	switch c.Database.Dialect {
	case "", "sqlite", "sqlite3", "postgres", "postgresql":
	default:
		return fmt.Errorf("unsupported database dialect %q", c.Database.Dialect)
	}
	if c.Database.URL == "" {
		return fmt.Errorf("database.url is required")
	}
	if c.Seed.InitialQuantity < 0 {
		return fmt.Errorf("seed.initial_quantity must not be negative")
	}
	if c.Server.ShutdownTimeout <= 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	return nil
}

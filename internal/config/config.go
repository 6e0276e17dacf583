// Package config provides configuration management for skysight.
//
// Config file locations (priority order):
//  1. $SKYSIGHT_CONFIG
//  2. ./skysight.yaml
//  3. ~/.config/skysight/config.yaml
//  4. /etc/skysight/config.yaml
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load finds and loads the config file, or returns defaults if none found
func Load() (*Config, string, error) {
	path := FindConfigPath()

	if path == "" {
		// No config found - return defaults
		return DefaultConfig(), "", nil
	}

	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, path, err
	}

	return &cfg, path, nil
}

// Save writes config to the specified path
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultConfig returns sensible defaults for a new installation
func DefaultConfig() *Config {
	cfg := &Config{Version: 1}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Database.Path == "" {
		c.Database.Path = "./skysight.db"
	}
	if c.Coverage.Workers == 0 {
		c.Coverage.Workers = 4
	}
	if c.Coverage.BufferQuadSegs == 0 {
		c.Coverage.BufferQuadSegs = 16
	}
	if c.Optimizer.Searcher == "" {
		c.Optimizer.Searcher = "grid"
	}
	if c.Optimizer.Samples == 0 {
		c.Optimizer.Samples = 200
	}
	if c.Optimizer.Workers == 0 {
		c.Optimizer.Workers = c.Coverage.Workers
	}
	if c.SeedBuiltins == nil {
		t := true
		c.SeedBuiltins = &t
	}
}

// Validate rejects configurations that cannot be served
func (c *Config) Validate() error {
	if c.Coverage.Workers < 1 {
		return fmt.Errorf("coverage.workers must be at least 1, got %d", c.Coverage.Workers)
	}
	if c.Optimizer.Samples < 1 {
		return fmt.Errorf("optimizer.samples must be at least 1, got %d", c.Optimizer.Samples)
	}
	if c.Optimizer.Workers < 1 {
		return fmt.Errorf("optimizer.workers must be at least 1, got %d", c.Optimizer.Workers)
	}
	return nil
}

// SeedBuiltinCameras reports whether built-in cameras should be loaded
// into an empty database on startup.
func (c *Config) SeedBuiltinCameras() bool {
	return c.SeedBuiltins == nil || *c.SeedBuiltins
}

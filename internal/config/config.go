// Package config provides configuration loading and management for bookql.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"
)

// Backends and compile targets accepted by Validate.
var (
	ValidBackends = []string{"sqlite", "memory"}
	ValidTargets  = []string{"sql", "sparql", "tree"}
)

// Config represents the complete bookql configuration
type Config struct {
	Store StoreConfig `yaml:"store"`
	Query QueryConfig `yaml:"query"`
	Log   LogConfig   `yaml:"log"`
}

// StoreConfig selects and locates the catalogue backend
type StoreConfig struct {
	// Backend is "sqlite" or "memory"
	Backend string `yaml:"backend"`
	// Path is the SQLite database file
	Path string `yaml:"path"`
	// SeedDir holds CUE seed files loaded into the memory backend
	SeedDir string `yaml:"seed_dir"`
}

// QueryConfig configures filter compilation
type QueryConfig struct {
	// DefaultTarget is the compile target when --target is not given
	DefaultTarget string `yaml:"default_target"`
	// StrictFields rejects relational fields the schema does not declare.
	// A pointer so that a file can switch it off.
	StrictFields *bool `yaml:"strict_fields"`
}

// Strict reports whether strict field resolution is on. Unset means on.
func (q QueryConfig) Strict() bool {
	return q.StrictFields == nil || *q.StrictFields
}

// LogConfig configures logging
type LogConfig struct {
	// Level is debug, info, warn or error
	Level string `yaml:"level"`
}

// SlogLevel converts Level to a slog.Level.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	strict := true
	return &Config{
		Store: StoreConfig{
			Backend: "sqlite",
			Path:    "bookql.db",
		},
		Query: QueryConfig{
			DefaultTarget: "sql",
			StrictFields:  &strict,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if !slices.Contains(ValidBackends, c.Store.Backend) {
		return fmt.Errorf("store.backend must be one of %v, got %q", ValidBackends, c.Store.Backend)
	}
	if c.Store.Backend == "sqlite" && c.Store.Path == "" {
		return fmt.Errorf("store.path is required for the sqlite backend")
	}
	if !slices.Contains(ValidTargets, c.Query.DefaultTarget) {
		return fmt.Errorf("query.default_target must be one of %v, got %q", ValidTargets, c.Query.DefaultTarget)
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// LoadFromFile loads the values set in a YAML file. Unset values stay
// zero so the result can be merged over another config. Unknown keys are
// rejected.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := &Config{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(config); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	// Store
	if other.Store.Backend != "" {
		c.Store.Backend = other.Store.Backend
	}
	if other.Store.Path != "" {
		c.Store.Path = other.Store.Path
	}
	if other.Store.SeedDir != "" {
		c.Store.SeedDir = other.Store.SeedDir
	}

	// Query
	if other.Query.DefaultTarget != "" {
		c.Query.DefaultTarget = other.Query.DefaultTarget
	}
	if other.Query.StrictFields != nil {
		strict := *other.Query.StrictFields
		c.Query.StrictFields = &strict
	}

	// Log
	if other.Log.Level != "" {
		c.Log.Level = other.Log.Level
	}
}

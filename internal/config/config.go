// Package config provides configuration management.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"go.uber.org/multierr"

	"routed-values/core/graph"
	"routed-values/core/routed"
	"routed-values/internal/errors"
	"routed-values/internal/logging"
)

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version"`

	// Graph contains graph construction defaults
	Graph GraphConfig `json:"graph"`

	// Output contains output configuration
	Output OutputConfig `json:"output"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging"`
}

// GraphConfig contains defaults applied when a topology leaves them out
type GraphConfig struct {
	// DefaultStrategy is used for nodes without a strategy
	DefaultStrategy string `json:"default_strategy"`

	// DefaultKind is used for topologies without a kind
	DefaultKind string `json:"default_kind"`
}

// OutputConfig contains output-related settings
type OutputConfig struct {
	// DefaultFormat is the default output format (cli, json)
	DefaultFormat string `json:"default_format"`

	// NoColor disables ANSI colors
	NoColor bool `json:"no_color"`

	// ShowChanges prints every value notification as it happens
	ShowChanges bool `json:"show_changes"`
}

// Default returns a default configuration
func Default() *Config {
	return &Config{
		Version: "1.0",
		Graph: GraphConfig{
			DefaultStrategy: routed.Ascending.String(),
			DefaultKind:     string(graph.KindNumber),
		},
		Output: OutputConfig{
			DefaultFormat: "cli",
			NoColor:       false,
			ShowChanges:   true,
		},
		Logging: logging.DefaultConfig(),
	}
}

// DefaultPath returns the per-user configuration file location
func DefaultPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".routed", "config.json")
	}
	return filepath.Join(homeDir, ".routed", "config.json")
}

// Load loads configuration from a file. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, errors.Config("failed to read config", err).WithContext("path", path)
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, errors.Config("failed to parse config", err).WithContext("path", path)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks that every named default is known
func (c *Config) Validate() error {
	var err error
	if _, perr := routed.ParseStrategy(c.Graph.DefaultStrategy); perr != nil {
		err = multierr.Append(err, errors.Config("graph.default_strategy", perr))
	}
	if _, kerr := graph.ParseKind(c.Graph.DefaultKind); kerr != nil {
		err = multierr.Append(err, errors.Config("graph.default_kind", kerr))
	}
	switch c.Output.DefaultFormat {
	case "cli", "json":
	default:
		err = multierr.Append(err, errors.Config("output.default_format",
			errors.Newf(errors.TypeInput, "unknown format %q", c.Output.DefaultFormat)))
	}
	return err
}

// Strategy returns the parsed default strategy
func (c *Config) Strategy() routed.Strategy {
	s, _ := routed.ParseStrategy(c.Graph.DefaultStrategy)
	return s
}

// Kind returns the parsed default kind, falling back to number
func (c *Config) Kind() graph.Kind {
	k, err := graph.ParseKind(c.Graph.DefaultKind)
	if err != nil {
		return graph.KindNumber
	}
	return k
}

// Save saves configuration to a file
func (c *Config) Save(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Config("failed to create config directory", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.Internal("failed to encode config", err)
	}

	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return errors.Config("failed to write config", err).WithContext("path", path)
	}
	return nil
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}

// Package config loads the narrow-phase configuration and scene descriptions.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/akmonengine/narrowphase/collide"
	"github.com/akmonengine/narrowphase/epa"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalidConfig is returned when a loaded value is out of range.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds every tunable of the narrow phase.
type Config struct {
	GJK     GJKConfig `yaml:"gjk"`
	EPA     EPAConfig `yaml:"epa"`
	Workers int       `yaml:"workers"`
	Log     LogConfig `yaml:"log"`
}

// GJKConfig bounds the distance queries.
type GJKConfig struct {
	MaxIterations int `yaml:"max_iterations"`
}

// EPAConfig bounds penetration depth queries.
type EPAConfig struct {
	MaxIterations int     `yaml:"max_iterations"`
	Tolerance     float64 `yaml:"tolerance"` // convergence threshold on face distance
}

type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn or error
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only fields present in the file are overwritten.
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the queries cannot run with.
func (c *Config) Validate() error {
	if c.GJK.MaxIterations < 1 {
		return fmt.Errorf("%w: gjk.max_iterations must be positive, got %d", ErrInvalidConfig, c.GJK.MaxIterations)
	}
	if c.EPA.MaxIterations < 1 {
		return fmt.Errorf("%w: epa.max_iterations must be positive, got %d", ErrInvalidConfig, c.EPA.MaxIterations)
	}
	if c.EPA.Tolerance <= 0 {
		return fmt.Errorf("%w: epa.tolerance must be positive, got %v", ErrInvalidConfig, c.EPA.Tolerance)
	}
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be positive, got %d", ErrInvalidConfig, c.Workers)
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	return nil
}

// LogLevel parses log.level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, fmt.Errorf("%w: log.level: %w", ErrInvalidConfig, err)
	}
	return level, nil
}

// Collide converts the iteration bounds into query options.
func (c *Config) Collide() collide.Options {
	return collide.Options{
		MaxIterations: c.GJK.MaxIterations,
		EPA: epa.Options{
			MaxIterations: c.EPA.MaxIterations,
			Tolerance:     c.EPA.Tolerance,
		},
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

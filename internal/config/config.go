// Package config loads bridge settings from a YAML file, falling back to
// defaults when no file is given.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/grue-if/grue/pkg/bridge"
	"github.com/grue-if/grue/pkg/runner"
)

// Defaults applied when a field is absent from the file.
const (
	DefaultQueueCapacity   = bridge.DefaultQueueCapacity
	DefaultOutputCapacity  = bridge.DefaultOutputCapacity
	DefaultTaskCapacity    = bridge.DefaultTaskCapacity
	DefaultShutdownTimeout = runner.DefaultShutdownTimeout
)

// Priorities maps input sources to queue priorities.
type Priorities struct {
	Keyboard int `yaml:"keyboard"`
	Voice    int `yaml:"voice"`
}

// Config holds the tunable parameters of a session.
type Config struct {
	QueueCapacity   int           `yaml:"queue_capacity"`
	OutputCapacity  int           `yaml:"output_capacity"`
	TaskCapacity    int           `yaml:"task_capacity"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	Priorities      Priorities    `yaml:"priorities"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		QueueCapacity:   DefaultQueueCapacity,
		OutputCapacity:  DefaultOutputCapacity,
		TaskCapacity:    DefaultTaskCapacity,
		ShutdownTimeout: DefaultShutdownTimeout,
		Priorities:      Priorities{Keyboard: 0, Voice: 1},
	}
}

// Load reads a YAML config file. Absent fields keep their defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadOrDefault loads path when non-empty, otherwise returns defaults.
func LoadOrDefault(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// Validate rejects configurations the bridge cannot run with.
func (c Config) Validate() error {
	if c.QueueCapacity < 1 {
		return fmt.Errorf("queue_capacity must be at least 1, got %d", c.QueueCapacity)
	}
	if c.OutputCapacity < 1 {
		return fmt.Errorf("output_capacity must be at least 1, got %d", c.OutputCapacity)
	}
	if c.TaskCapacity < 1 {
		return fmt.Errorf("task_capacity must be at least 1, got %d", c.TaskCapacity)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown_timeout must be positive, got %s", c.ShutdownTimeout)
	}
	return nil
}

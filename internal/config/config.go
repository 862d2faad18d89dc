// Package config provides layered configuration for namedlock.
//
// Configuration sources are loaded in the following order (highest precedence first):
//  1. CLI flags (passed via LoadWithOverrides)
//  2. Environment variables (NAMEDLOCK_* prefix)
//  3. Project config (.namedlock/config.yaml)
//  4. Global config (~/.namedlock/config.yaml, or $NAMEDLOCK_HOME/config.yaml)
//  5. Built-in defaults
//
// IMPORTANT: This package may import internal/constants and internal/errors,
// but MUST NOT import other internal packages.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/mrz1836/namedlock/internal/constants"
)

// Config is the root configuration structure.
type Config struct {
	// Lock contains settings shared by every lock handle the CLI opens.
	Lock LockConfig `yaml:"lock" mapstructure:"lock" json:"lock"`

	// Demo contains settings for the demo launcher and its workers.
	Demo DemoConfig `yaml:"demo" mapstructure:"demo" json:"demo"`

	// Metrics contains settings for metrics export.
	Metrics MetricsConfig `yaml:"metrics" mapstructure:"metrics" json:"metrics"`
}

// LockConfig contains settings for lock handles.
type LockConfig struct {
	// Dir is the directory holding lock files. Processes only share a lock
	// when they use the same directory.
	// Default: "" (<os temp dir>/namedlock)
	Dir string `yaml:"dir" mapstructure:"dir" json:"dir"`

	// PollInterval is the longest pause between two acquisition attempts.
	// Default: 10ms, Valid range: 1ms-1s
	PollInterval time.Duration `yaml:"poll_interval" mapstructure:"poll_interval" json:"poll_interval"`
}

// DemoConfig contains settings for the demo.
type DemoConfig struct {
	// LockName is the name of the lock serializing workers.
	// Default: "writeLock"
	LockName string `yaml:"lock_name" mapstructure:"lock_name" json:"lock_name"`

	// Workers is the number of worker processes spawned.
	// Default: 100, Valid range: 1-1000
	Workers int `yaml:"workers" mapstructure:"workers" json:"workers"`

	// File is the shared file workers overwrite.
	// Default: "" (<os temp dir>/namedlock-demo.txt)
	File string `yaml:"file" mapstructure:"file" json:"file"`

	// Timeout is how long a locked worker waits for the lock.
	// Default: 10s
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout" json:"timeout"`

	// Lines is the number of lines in each worker's payload.
	// Default: 2000, Valid range: 1-1000000
	Lines int `yaml:"lines" mapstructure:"lines" json:"lines"`
}

// FilePath returns the shared file, resolving the default.
func (d DemoConfig) FilePath() string {
	if d.File != "" {
		return d.File
	}
	return filepath.Join(os.TempDir(), constants.DemoFileName)
}

// MetricsConfig contains settings for metrics export.
type MetricsConfig struct {
	// TextfileDir, when set, makes each worker write its metrics to
	// <dir>/namedlock-worker-<index>.prom on exit.
	// Default: "" (disabled)
	TextfileDir string `yaml:"textfile_dir" mapstructure:"textfile_dir" json:"textfile_dir"`
}

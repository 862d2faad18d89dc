package config

import "github.com/mrz1836/namedlock/internal/constants"

// DefaultConfig returns a new Config with default values.
// These are the base layer overridden by files, environment and flags.
func DefaultConfig() *Config {
	return &Config{
		Lock: LockConfig{
			Dir:          "",
			PollInterval: constants.DefaultPollInterval,
		},
		Demo: DemoConfig{
			LockName: constants.DefaultDemoLockName,
			Workers:  constants.DefaultDemoWorkers,
			File:     "",
			Timeout:  constants.DefaultDemoTimeout,
			Lines:    constants.DefaultDemoLines,
		},
		Metrics: MetricsConfig{
			TextfileDir: "",
		},
	}
}

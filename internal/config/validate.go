package config

import (
	"strings"

	"github.com/mrz1836/namedlock/internal/constants"
	"github.com/mrz1836/namedlock/internal/errors"
)

// Validate checks the configuration for invalid values.
// It returns an error describing the first failure found.
//
// Validation rules:
//   - lock.poll_interval must be between 1ms and 1s
//   - demo.lock_name must not be blank
//   - demo.workers must be between 1 and 1000
//   - demo.timeout must be positive
//   - demo.lines must be between 1 and 1000000
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.ErrConfigNil
	}

	if err := validateLockConfig(&cfg.Lock); err != nil {
		return err
	}

	return validateDemoConfig(&cfg.Demo)
}

func validateLockConfig(cfg *LockConfig) error {
	if cfg.PollInterval < constants.MinPollInterval || cfg.PollInterval > constants.MaxPollInterval {
		return errors.Wrapf(errors.ErrConfigInvalidLock,
			"lock.poll_interval must be between %s and %s, got %s",
			constants.MinPollInterval, constants.MaxPollInterval, cfg.PollInterval)
	}
	return nil
}

func validateDemoConfig(cfg *DemoConfig) error {
	if strings.TrimSpace(cfg.LockName) == "" {
		return errors.Wrap(errors.ErrConfigInvalidDemo, "demo.lock_name must not be empty")
	}

	if cfg.Workers < 1 || cfg.Workers > constants.MaxDemoWorkers {
		return errors.Wrapf(errors.ErrConfigInvalidDemo,
			"demo.workers must be between 1 and %d, got %d", constants.MaxDemoWorkers, cfg.Workers)
	}

	if cfg.Timeout <= 0 {
		return errors.Wrapf(errors.ErrConfigInvalidDemo,
			"demo.timeout must be positive, got %s", cfg.Timeout)
	}

	if cfg.Lines < 1 || cfg.Lines > constants.MaxDemoLines {
		return errors.Wrapf(errors.ErrConfigInvalidDemo,
			"demo.lines must be between 1 and %d, got %d", constants.MaxDemoLines, cfg.Lines)
	}

	return nil
}

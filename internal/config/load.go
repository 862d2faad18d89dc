package config

import (
	"context"
	stderrors "errors"
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/mrz1836/namedlock/internal/constants"
	"github.com/mrz1836/namedlock/internal/errors"
)

// newViperInstance creates a Viper instance with defaults and NAMEDLOCK_ env binding.
func newViperInstance() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// isConfigNotFoundError returns true if the error is a viper config file not found error.
func isConfigNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	var configNotFoundErr viper.ConfigFileNotFoundError
	return stderrors.As(err, &configNotFoundErr)
}

// unmarshalAndValidate unmarshals viper config into Config and validates it.
func unmarshalAndValidate(ctx context.Context, v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg, viperDecoderOption()); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	zerolog.Ctx(ctx).Debug().
		Str("component", "config").
		Str("lock.dir", cfg.Lock.Dir).
		Dur("lock.poll_interval", cfg.Lock.PollInterval).
		Str("demo.lock_name", cfg.Demo.LockName).
		Int("demo.workers", cfg.Demo.Workers).
		Dur("demo.timeout", cfg.Demo.Timeout).
		Msg("configuration loaded")

	if err := Validate(&cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return &cfg, nil
}

// Load reads configuration from all available sources with proper precedence.
// Missing config files are not an error.
func Load(ctx context.Context) (*Config, error) {
	v := newViperInstance()

	if err := loadGlobalConfig(v); err != nil {
		return nil, err
	}
	if err := loadProjectConfig(v); err != nil {
		return nil, err
	}

	return unmarshalAndValidate(ctx, v)
}

// loadGlobalConfig loads the global config file if it exists.
func loadGlobalConfig(v *viper.Viper) error {
	path, err := GlobalConfigPath()
	if err != nil || !fileExists(path) {
		return nil
	}

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil && !isConfigNotFoundError(err) {
		return errors.Wrap(err, "failed to read global config file")
	}
	return nil
}

// loadProjectConfig merges the project config file if it exists.
func loadProjectConfig(v *viper.Viper) error {
	path := ProjectConfigPath()
	if !fileExists(path) {
		return nil
	}

	v.SetConfigFile(path)
	if err := v.MergeInConfig(); err != nil && !isConfigNotFoundError(err) {
		return errors.Wrap(err, "failed to read project config file")
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// LoadWithOverrides loads configuration and applies CLI flag overrides.
// Only non-zero values in overrides are applied.
func LoadWithOverrides(ctx context.Context, overrides *Config) (*Config, error) {
	cfg, err := Load(ctx)
	if err != nil {
		return nil, err
	}

	if overrides != nil {
		applyOverrides(cfg, overrides)
	}

	if err := Validate(cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration after overrides")
	}
	return cfg, nil
}

// LoadFromPaths loads configuration from specific files. Either path may be
// empty to skip that level; the project file wins over the global one.
func LoadFromPaths(ctx context.Context, projectConfigPath, globalConfigPath string) (*Config, error) {
	v := newViperInstance()

	if globalConfigPath != "" {
		v.SetConfigFile(globalConfigPath)
		if err := v.ReadInConfig(); err != nil && !isConfigNotFoundError(err) && !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "failed to read global config: %s", globalConfigPath)
		}
	}

	if projectConfigPath != "" {
		v.SetConfigFile(projectConfigPath)
		if err := v.MergeInConfig(); err != nil && !isConfigNotFoundError(err) && !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "failed to read project config: %s", projectConfigPath)
		}
	}

	return unmarshalAndValidate(ctx, v)
}

// setDefaults configures default values on the Viper instance.
// Keys must match the YAML tag names. Values match DefaultConfig.
func setDefaults(v *viper.Viper) {
	defaults := DefaultConfig()

	v.SetDefault("lock.dir", defaults.Lock.Dir)
	v.SetDefault("lock.poll_interval", defaults.Lock.PollInterval.String())

	v.SetDefault("demo.lock_name", defaults.Demo.LockName)
	v.SetDefault("demo.workers", defaults.Demo.Workers)
	v.SetDefault("demo.file", defaults.Demo.File)
	v.SetDefault("demo.timeout", defaults.Demo.Timeout.String())
	v.SetDefault("demo.lines", defaults.Demo.Lines)

	v.SetDefault("metrics.textfile_dir", defaults.Metrics.TextfileDir)
}

// applyOverrides merges non-zero override values into cfg.
func applyOverrides(cfg, overrides *Config) {
	if overrides.Lock.Dir != "" {
		cfg.Lock.Dir = overrides.Lock.Dir
	}
	if overrides.Lock.PollInterval != 0 {
		cfg.Lock.PollInterval = overrides.Lock.PollInterval
	}

	if overrides.Demo.LockName != "" {
		cfg.Demo.LockName = overrides.Demo.LockName
	}
	if overrides.Demo.Workers != 0 {
		cfg.Demo.Workers = overrides.Demo.Workers
	}
	if overrides.Demo.File != "" {
		cfg.Demo.File = overrides.Demo.File
	}
	if overrides.Demo.Timeout != 0 {
		cfg.Demo.Timeout = overrides.Demo.Timeout
	}
	if overrides.Demo.Lines != 0 {
		cfg.Demo.Lines = overrides.Demo.Lines
	}

	if overrides.Metrics.TextfileDir != "" {
		cfg.Metrics.TextfileDir = overrides.Metrics.TextfileDir
	}
}

// viperDecoderOption configures mapstructure to decode durations from strings.
func viperDecoderOption() viper.DecoderConfigOption {
	return viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
		),
	)
}

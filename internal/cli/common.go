package cli

import (
	"context"
	"io"

	"github.com/rs/zerolog"

	"github.com/mrz1836/namedlock/internal/config"
	"github.com/mrz1836/namedlock/internal/namedlock"
	"github.com/mrz1836/namedlock/internal/tui"
)

// loadConfig loads the layered configuration with flag overrides applied.
// overrides may be nil.
func loadConfig(ctx context.Context, logger zerolog.Logger, overrides *config.Config) (*config.Config, error) {
	return config.LoadWithOverrides(logger.WithContext(ctx), overrides)
}

// lockOptions returns the handle options every command derives from cfg.
func lockOptions(cfg *config.Config, logger zerolog.Logger, extra ...namedlock.Option) []namedlock.Option {
	opts := []namedlock.Option{
		namedlock.WithDir(cfg.Lock.Dir),
		namedlock.WithPollInterval(cfg.Lock.PollInterval),
		namedlock.WithLogger(logger),
	}
	return append(opts, extra...)
}

// newOutput returns the output writer for the selected format.
func newOutput(w io.Writer, flags *GlobalFlags) tui.Output {
	return tui.NewOutput(w, flags.Output)
}

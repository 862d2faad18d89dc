package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/namedlock/internal/errors"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
		msg     string
	}{
		{"defaults", func(*Config) {}, nil, ""},
		{"poll interval at minimum", func(c *Config) { c.Lock.PollInterval = time.Millisecond }, nil, ""},
		{"poll interval at maximum", func(c *Config) { c.Lock.PollInterval = time.Second }, nil, ""},
		{"poll interval too small", func(c *Config) { c.Lock.PollInterval = time.Microsecond }, errors.ErrConfigInvalidLock, "lock.poll_interval"},
		{"poll interval too large", func(c *Config) { c.Lock.PollInterval = 2 * time.Second }, errors.ErrConfigInvalidLock, "lock.poll_interval"},
		{"blank lock name", func(c *Config) { c.Demo.LockName = "  " }, errors.ErrConfigInvalidDemo, "demo.lock_name"},
		{"zero workers", func(c *Config) { c.Demo.Workers = 0 }, errors.ErrConfigInvalidDemo, "demo.workers"},
		{"too many workers", func(c *Config) { c.Demo.Workers = 1001 }, errors.ErrConfigInvalidDemo, "demo.workers"},
		{"zero timeout", func(c *Config) { c.Demo.Timeout = 0 }, errors.ErrConfigInvalidDemo, "demo.timeout"},
		{"zero lines", func(c *Config) { c.Demo.Lines = 0 }, errors.ErrConfigInvalidDemo, "demo.lines"},
		{"too many lines", func(c *Config) { c.Demo.Lines = 1_000_001 }, errors.ErrConfigInvalidDemo, "demo.lines"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := Validate(cfg)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestValidate_Nil(t *testing.T) {
	require.ErrorIs(t, Validate(nil), errors.ErrConfigNil)
}

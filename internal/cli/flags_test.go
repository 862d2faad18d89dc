package cli

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mrz1836/namedlock/internal/errors"
)

func TestExitCodeForError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: ExitSuccess},
		{name: "generic", err: stderrors.New("boom"), want: ExitError},
		{name: "timeout", err: errors.Wrap(errors.ErrLockTimeout, "hold"), want: ExitError},
		{name: "corrupted", err: errors.ErrDemoCorrupted, want: ExitError},
		{name: "invalid output", err: fmt.Errorf("%w: xml", errors.ErrInvalidOutputFormat), want: ExitInvalidInput},
		{name: "invalid argument", err: errors.Wrap(errors.ErrInvalidArgument, "name"), want: ExitInvalidInput},
		{name: "invalid lock config", err: errors.Wrap(errors.ErrConfigInvalidLock, "poll"), want: ExitInvalidInput},
		{name: "invalid demo config", err: errors.Wrap(errors.ErrConfigInvalidDemo, "workers"), want: ExitInvalidInput},
		{name: "exit code 2 wrapper", err: errors.NewExitCode2Error(stderrors.New("bad")), want: ExitInvalidInput},
		{name: "unknown flag", err: stderrors.New("unknown flag: --nope"), want: ExitInvalidInput},
		{name: "missing required flag", err: stderrors.New(`required flag(s) "index" not set`), want: ExitInvalidInput},
		{name: "wrong arg count", err: stderrors.New("accepts 1 arg(s), received 0"), want: ExitInvalidInput},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, ExitCodeForError(tc.err))
		})
	}
}

func TestIsValidOutputFormat(t *testing.T) {
	t.Parallel()

	assert.True(t, IsValidOutputFormat(OutputText))
	assert.True(t, IsValidOutputFormat(OutputJSON))
	assert.False(t, IsValidOutputFormat("yaml"))
	assert.False(t, IsValidOutputFormat(""))
	assert.Equal(t, []string{"text", "json"}, ValidOutputFormats())
}

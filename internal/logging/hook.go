// Package logging provides zerolog helpers shared by the CLI and the demo workers.
package logging

import (
	"os"

	"github.com/rs/zerolog"
)

// ProcessHook stamps every entry with the process id, so the interleaved
// output of concurrent worker processes can be told apart.
type ProcessHook struct {
	pid int
}

// NewProcessHook creates a hook for the current process.
func NewProcessHook() ProcessHook {
	return ProcessHook{pid: os.Getpid()}
}

// Run implements zerolog.Hook.
func (h ProcessHook) Run(e *zerolog.Event, _ zerolog.Level, _ string) {
	e.Int("pid", h.pid)
}

var _ zerolog.Hook = ProcessHook{}

package demo

import (
	"bytes"
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/mrz1836/namedlock/internal/constants"
	nlerrors "github.com/mrz1836/namedlock/internal/errors"
	"github.com/mrz1836/namedlock/internal/namedlock"
)

// Worker overwrites the shared file with its payload.
type Worker struct {
	// Path is the shared file.
	Path string
	// Lines is the payload size.
	Lines int
	// Timeout bounds the wait for the lock.
	Timeout time.Duration
	// Lock serializes writers. When nil, locked runs use the handle carried
	// by the context passed to Run.
	Lock *namedlock.Lock
	// Logger receives progress messages.
	Logger zerolog.Logger
}

// Report describes one worker run.
type Report struct {
	Index     int              `json:"index"`
	Locked    bool             `json:"locked"`
	Acquired  bool             `json:"acquired"`
	Abandoned bool             `json:"abandoned"`
	Previous  *namedlock.Owner `json:"previous,omitempty"`
	Waited    time.Duration    `json:"waited"`
	Err       error            `json:"-"`
}

// Run writes the payload for index. When locked, the write happens only if
// the lock is obtained within Timeout.
//
// Lock errors (disposed handle, cancellation) are returned in Report.Err and
// nothing is written. Write errors are logged and also land in Report.Err.
func (w *Worker) Run(ctx context.Context, index int, locked bool) Report {
	report := Report{Index: index, Locked: locked}
	logger := w.Logger.With().Int("worker", index).Logger()
	payload := Payload(index, w.Lines)

	if !locked {
		logger.Info().Msg("start lock free write operation")
		report.Err = w.write(payload, logger)
		logger.Info().Msg("the lock free write operation is finished")
		return report
	}

	lock := w.Lock
	if lock == nil {
		var ok bool
		if lock, ok = namedlock.FromContext(ctx); !ok {
			report.Err = nlerrors.Wrap(nlerrors.ErrInvalidArgument, "locked run without a lock handle")
			return report
		}
	}

	acq, err := lock.Wait(ctx, w.Timeout)
	report.Waited = acq.Waited
	if err != nil {
		logger.Error().Err(err).Msg("failed to wait for the write lock")
		report.Err = err
		return report
	}
	if !acq.Outcome.Held() {
		logger.Warn().Dur("timeout", w.Timeout).Msg("failed to acquire the write lock")
		return report
	}

	report.Acquired = true
	if acq.Outcome == namedlock.OutcomeAbandoned {
		report.Abandoned = true
		report.Previous = acq.Previous
		event := logger.Warn()
		if acq.Previous != nil {
			event = event.Int("previous_pid", acq.Previous.PID).Bool("previous_running", acq.Previous.Running())
		}
		event.Msg("write lock was abandoned, the shared file may be incomplete")
	}

	logger.Info().Msg("start write operation")
	report.Err = w.write(payload, logger)

	if err := lock.Release(); err != nil {
		logger.Error().Err(err).Msg("failed to release the write lock")
		if report.Err == nil {
			report.Err = err
		}
	}
	logger.Info().Msg("the write operation is finished")
	return report
}

// write overwrites the shared file a few lines at a time so that
// uncoordinated writers interleave.
func (w *Worker) write(payload []byte, logger zerolog.Logger) error {
	f, err := os.OpenFile(w.Path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644) //#nosec G302 G304 -- shared demo file
	if err != nil {
		logger.Error().Err(err).Str("path", w.Path).Msg("failed to open shared file")
		return err
	}

	var writeErr error
	for chunk := range chunks(payload, constants.DemoChunkLines) {
		if _, err := f.Write(chunk); err != nil {
			logger.Error().Err(err).Str("path", w.Path).Msg("failed to write shared file")
			writeErr = err
			break
		}
	}
	if err := f.Close(); err != nil && writeErr == nil {
		logger.Error().Err(err).Str("path", w.Path).Msg("failed to close shared file")
		writeErr = err
	}
	return writeErr
}

// chunks yields data in pieces of n lines.
func chunks(data []byte, n int) func(func([]byte) bool) {
	return func(yield func([]byte) bool) {
		for len(data) > 0 {
			end := 0
			for range n {
				i := bytes.IndexByte(data[end:], '\n')
				if i < 0 {
					end = len(data)
					break
				}
				end += i + 1
				if end == len(data) {
					break
				}
			}
			if !yield(data[:end]) {
				return
			}
			data = data[end:]
		}
	}
}

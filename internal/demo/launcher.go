package demo

import (
	"context"
	"errors"
	"io"
	"os/exec"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Launcher starts worker processes and waits for all of them.
type Launcher struct {
	// Executable is the namedlock binary; workers run "<exe> worker ...".
	Executable string
	// Workers is the number of processes started.
	Workers int
	// Locked makes workers take the named lock before writing.
	Locked bool
	// ExtraArgs are appended to every worker command line.
	ExtraArgs []string
	// Stdout and Stderr receive the workers' output. Nil discards it.
	Stdout io.Writer
	Stderr io.Writer
	// Logger receives one line per failed worker.
	Logger zerolog.Logger
}

// Summary describes a completed launch.
type Summary struct {
	Workers int           `json:"workers"`
	Locked  bool          `json:"locked"`
	Failed  int           `json:"failed"`
	Elapsed time.Duration `json:"elapsed"`
}

// Run starts all workers at once and waits for them.
// A worker exiting non-zero counts as failed; only a worker that cannot be
// started, or ctx ending, makes Run return an error.
func (l *Launcher) Run(ctx context.Context) (Summary, error) {
	summary := Summary{Workers: l.Workers, Locked: l.Locked}
	start := time.Now()

	stdout := syncWriter(l.Stdout)
	stderr := syncWriter(l.Stderr)

	var failed atomic.Int32
	g, gctx := errgroup.WithContext(ctx)
	for i := 1; i <= l.Workers; i++ {
		g.Go(func() error {
			cmd := exec.CommandContext(gctx, l.Executable, l.args(i)...) //#nosec G204 -- re-executes our own binary
			cmd.Stdout = stdout
			cmd.Stderr = stderr

			err := cmd.Run()
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) && gctx.Err() == nil {
				failed.Add(1)
				l.Logger.Warn().Int("worker", i).Int("exit_code", exitErr.ExitCode()).Msg("worker failed")
				return nil
			}
			return err
		})
	}

	err := g.Wait()
	summary.Failed = int(failed.Load())
	summary.Elapsed = time.Since(start)
	if err == nil {
		err = ctx.Err()
	}
	return summary, err
}

func (l *Launcher) args(index int) []string {
	args := []string{"worker", "--index", strconv.Itoa(index), "--locked=" + strconv.FormatBool(l.Locked)}
	return append(args, l.ExtraArgs...)
}

// syncWriter serializes writes from concurrently running workers.
func syncWriter(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}
	return &lockedWriter{w: w}
}

type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (lw *lockedWriter) Write(p []byte) (int, error) {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	return lw.w.Write(p)
}

package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mrz1836/namedlock/internal/config"
	"github.com/mrz1836/namedlock/internal/errors"
	"github.com/mrz1836/namedlock/internal/namedlock"
	"github.com/mrz1836/namedlock/internal/signal"
)

type holdOptions struct {
	lockDir string
	timeout time.Duration
	hold    time.Duration
}

// holdResult is the JSON form of a hold run.
type holdResult struct {
	Name     string           `json:"name"`
	Path     string           `json:"path"`
	Outcome  string           `json:"outcome"`
	Waited   time.Duration    `json:"waited"`
	Held     time.Duration    `json:"held"`
	Previous *namedlock.Owner `json:"previous,omitempty"`
}

// AddHoldCommand adds the hold command to the root command.
func AddHoldCommand(root *cobra.Command, flags *GlobalFlags) {
	opts := &holdOptions{}

	cmd := &cobra.Command{
		Use:   "hold <name>",
		Short: "Acquire a named lock and hold it",
		Long: `Acquire the named lock and hold it until --for elapses or the process is
interrupted, then release it.

With --timeout 0 the command waits for the lock forever.`,
		Example: `  namedlock hold writeLock
  namedlock hold writeLock --timeout 5s --for 30s`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHold(cmd, flags, opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.lockDir, "lock-dir", "", "directory holding lock files")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "how long to wait for the lock (0 waits forever)")
	cmd.Flags().DurationVar(&opts.hold, "for", 0, "how long to hold the lock (0 holds until interrupted)")

	root.AddCommand(cmd)
}

func runHold(cmd *cobra.Command, flags *GlobalFlags, opts *holdOptions, name string) error {
	if opts.timeout < 0 || opts.hold < 0 {
		return errors.NewExitCode2Error(fmt.Errorf("%w: durations must not be negative", errors.ErrInvalidArgument))
	}

	logger := GetLogger()
	out := newOutput(cmd.OutOrStdout(), flags)

	cfg, err := loadConfig(cmd.Context(), logger, &config.Config{Lock: config.LockConfig{Dir: opts.lockDir}})
	if err != nil {
		return err
	}

	lock, err := namedlock.New(name, lockOptions(cfg, logger)...)
	if err != nil {
		return err
	}
	defer func() { _ = lock.Close() }()

	handler := signal.NewHandler(cmd.Context())
	defer handler.Stop()
	ctx := handler.Context()

	timeout := opts.timeout
	if timeout == 0 {
		timeout = namedlock.Infinite
	}

	acq, err := lock.Wait(ctx, timeout)
	if err != nil {
		if handler.Received() != nil {
			return errors.Wrap(errors.ErrOperationCanceled, "interrupted while waiting for the lock")
		}
		return err
	}
	if !acq.Outcome.Held() {
		return errors.Wrapf(errors.ErrLockTimeout, "lock %q not acquired within %s", name, opts.timeout)
	}

	if acq.Outcome == namedlock.OutcomeAbandoned {
		out.Warning(abandonedMessage(name, acq.Previous))
	}
	out.Success(fmt.Sprintf("Holding lock %q (waited %s)", name, acq.Waited.Round(time.Millisecond)))

	held := holdUntil(ctx, opts.hold)

	if err := lock.Release(); err != nil {
		return err
	}

	if flags.Output == OutputJSON {
		return out.JSON(holdResult{
			Name:     name,
			Path:     lock.Path(),
			Outcome:  acq.Outcome.String(),
			Waited:   acq.Waited,
			Held:     held,
			Previous: acq.Previous,
		})
	}
	out.Success(fmt.Sprintf("Released lock %q after %s", name, held.Round(time.Millisecond)))
	return nil
}

// holdUntil blocks for d, or until ctx ends when d is zero or ctx ends first.
func holdUntil(ctx context.Context, d time.Duration) time.Duration {
	start := time.Now()
	if d == 0 {
		<-ctx.Done()
		return time.Since(start)
	}

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
	return time.Since(start)
}

// abandonedMessage describes an abandoned acquisition for humans.
func abandonedMessage(name string, previous *namedlock.Owner) string {
	if previous == nil {
		return fmt.Sprintf("Lock %q was abandoned by its previous holder", name)
	}
	return fmt.Sprintf("Lock %q was abandoned by pid %d (acquired %s)",
		name, previous.PID, previous.AcquiredAt.Format(time.RFC3339))
}

package namedlock

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/mrz1836/namedlock/internal/clock"
	"github.com/mrz1836/namedlock/internal/constants"
	nlerrors "github.com/mrz1836/namedlock/internal/errors"
	"github.com/mrz1836/namedlock/internal/flock"
)

// Infinite makes Wait and TryAcquire block without a time limit.
const Infinite time.Duration = -1

const tracerName = "github.com/mrz1836/namedlock/internal/namedlock"

// Observer receives lock events. Calls happen after the handle's internal
// mutex is released, from the goroutine that performed the operation.
type Observer interface {
	// ObserveAcquire is called once per successful Wait, including timeouts.
	ObserveAcquire(name string, acq Acquisition)
	// ObserveRelease is called after a successful Release.
	ObserveRelease(name string, held time.Duration)
}

// Option configures a Lock.
type Option func(*options)

type options struct {
	dir          string
	pollInterval time.Duration
	logger       zerolog.Logger
	clock        clock.Clock
	observer     Observer
}

func buildOptions(opts []Option) options {
	o := options{
		dir:          DefaultDir(),
		pollInterval: constants.DefaultPollInterval,
		logger:       zerolog.Nop(),
		clock:        clock.RealClock{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithDir sets the directory holding lock files. Processes must use the same
// directory to share a lock. An empty dir keeps the default.
func WithDir(dir string) Option {
	return func(o *options) {
		if dir != "" {
			o.dir = dir
		}
	}
}

// WithPollInterval sets the longest pause between two acquisition attempts.
func WithPollInterval(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.pollInterval = d
		}
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithClock sets the clock used to stamp owner records.
func WithClock(c clock.Clock) Option {
	return func(o *options) {
		if c != nil {
			o.clock = c
		}
	}
}

// WithObserver registers an observer for acquisitions and releases.
func WithObserver(obs Observer) Option {
	return func(o *options) {
		o.observer = obs
	}
}

// Lock is a handle on a named lock shared by all processes on the machine.
// All methods are safe for concurrent use.
type Lock struct {
	name   string
	path   string
	handle string
	host   string
	opts   options
	logger zerolog.Logger

	mu        sync.Mutex // guards everything below
	file      *os.File
	disposed  bool
	held      bool
	heldSince time.Time
}

// New opens the named lock, creating its lock file if needed.
// It does not acquire the lock.
func New(name string, opts ...Option) (*Lock, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}

	o := buildOptions(opts)
	path := PathFor(o.dir, name)
	f, err := openLockFile(path)
	if err != nil {
		return nil, err
	}

	host, _ := os.Hostname()
	l := &Lock{
		name:   name,
		path:   path,
		handle: uuid.NewString(),
		host:   host,
		opts:   o,
		logger: o.logger.With().Str("lock", name).Logger(),
		file:   f,
	}
	l.logger.Debug().Str("path", path).Str("handle", l.handle).Msg("lock handle opened")
	return l, nil
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return nlerrors.Wrap(nlerrors.ErrInvalidArgument, "lock name cannot be empty or whitespace")
	}
	return nil
}

func openLockFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), constants.LockDirPerm); err != nil {
		return nil, fmt.Errorf("%w: create lock directory: %w", nlerrors.ErrLockFile, err)
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, constants.LockFilePerm) //#nosec G304 -- path is derived from a hash of the name
	if err != nil {
		return nil, fmt.Errorf("%w: open lock file: %w", nlerrors.ErrLockFile, err)
	}
	return f, nil
}

// Name returns the lock name.
func (l *Lock) Name() string {
	return l.name
}

// Path returns the lock file backing this handle.
func (l *Lock) Path() string {
	return l.path
}

// Held reports whether this handle currently holds the lock.
func (l *Lock) Held() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.held
}

// Acquire blocks until the lock is held.
//
// It returns nil on a clean acquisition and an *AbandonedError, which
// matches ErrAbandoned, when the previous holder never released. The lock is
// held in both cases. It fails with ErrLockDisposed after Close.
func (l *Lock) Acquire() error {
	return l.AcquireContext(context.Background())
}

// AcquireContext is Acquire with cancellation. On cancellation it returns
// ctx.Err() and the lock is not held.
func (l *Lock) AcquireContext(ctx context.Context) error {
	acq, err := l.Wait(ctx, Infinite)
	if err != nil {
		return err
	}
	return abandonedErr(l.name, acq)
}

// TryAcquire waits up to timeout for the lock. Use Infinite to wait forever
// and 0 for a single attempt.
//
// It returns (false, nil) when the timeout expires, (true, nil) on a clean
// acquisition and (true, *AbandonedError) when the previous holder never
// released.
func (l *Lock) TryAcquire(timeout time.Duration) (bool, error) {
	acq, err := l.Wait(context.Background(), timeout)
	if err != nil {
		return false, err
	}
	return acq.Outcome.Held(), abandonedErr(l.name, acq)
}

// Wait waits up to timeout for the lock and reports how it ended. Abandonment
// is an Outcome here, not an error. Errors mean the lock is not held:
// ErrInvalidArgument for a negative timeout other than Infinite,
// ErrLockDisposed after Close, ctx.Err() on cancellation, or ErrLockFile.
func (l *Lock) Wait(ctx context.Context, timeout time.Duration) (Acquisition, error) {
	if timeout < 0 && timeout != Infinite {
		return Acquisition{}, nlerrors.Wrapf(nlerrors.ErrInvalidArgument,
			"timeout must be non-negative or Infinite, got %s", timeout)
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, "namedlock.Wait", trace.WithAttributes(
		attribute.String("namedlock.name", l.name),
		attribute.Int64("namedlock.timeout_ms", timeoutMillis(timeout)),
	))
	defer span.End()

	acq, err := l.wait(ctx, timeout)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return acq, err
	}
	span.SetAttributes(attribute.String("namedlock.outcome", acq.Outcome.String()))

	l.logAcquisition(acq)
	if l.opts.observer != nil {
		l.opts.observer.ObserveAcquire(l.name, acq)
	}
	return acq, nil
}

func (l *Lock) wait(ctx context.Context, timeout time.Duration) (Acquisition, error) {
	start := time.Now()
	var deadline time.Time
	if timeout != Infinite {
		deadline = start.Add(timeout)
	}

	backoff := min(constants.MinPollInterval, l.opts.pollInterval)
	for {
		if err := ctx.Err(); err != nil {
			return Acquisition{Waited: time.Since(start)}, err
		}

		acquired, previous, abandoned, err := l.attempt()
		if err != nil {
			return Acquisition{Waited: time.Since(start)}, err
		}
		if acquired {
			acq := Acquisition{Outcome: OutcomeAcquired, Waited: time.Since(start)}
			if abandoned {
				acq.Outcome = OutcomeAbandoned
				acq.Previous = previous
			}
			return acq, nil
		}

		pause := backoff
		if !deadline.IsZero() {
			remaining := time.Until(deadline)
			if remaining <= 0 {
				return Acquisition{Outcome: OutcomeTimedOut, Waited: time.Since(start)}, nil
			}
			pause = min(pause, remaining)
		}

		if err := sleep(ctx, pause); err != nil {
			return Acquisition{Waited: time.Since(start)}, err
		}
		backoff = min(backoff*2, l.opts.pollInterval)
	}
}

// attempt makes one non-blocking acquisition attempt. A holder on this same
// handle counts as contention.
func (l *Lock) attempt() (acquired bool, previous *Owner, abandoned bool, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.disposed {
		return false, nil, false, nlerrors.ErrLockDisposed
	}
	if l.held {
		return false, nil, false, nil
	}

	fd := l.file.Fd()
	if err := flock.Exclusive(fd); err != nil {
		if flock.IsContended(err) {
			return false, nil, false, nil
		}
		return false, nil, false, fmt.Errorf("%w: lock %q: %w", nlerrors.ErrLockFile, l.name, err)
	}

	previous, abandoned = readOwner(l.file)
	record := Owner{
		PID:        os.Getpid(),
		Host:       l.host,
		Handle:     l.handle,
		Name:       l.name,
		AcquiredAt: l.opts.clock.Now(),
	}
	if err := writeOwner(l.file, record); err != nil {
		_ = flock.Unlock(fd)
		return false, nil, false, fmt.Errorf("%w: write owner record for %q: %w", nlerrors.ErrLockFile, l.name, err)
	}

	l.held = true
	l.heldSince = time.Now()
	return true, previous, abandoned, nil
}

func (l *Lock) logAcquisition(acq Acquisition) {
	switch acq.Outcome {
	case OutcomeAbandoned:
		event := l.logger.Warn().Dur("waited", acq.Waited)
		if acq.Previous != nil {
			event = event.
				Int("previous_pid", acq.Previous.PID).
				Str("previous_host", acq.Previous.Host).
				Str("previous_handle", acq.Previous.Handle).
				Time("previous_acquired_at", acq.Previous.AcquiredAt)
		}
		event.Msg("lock acquired after previous holder abandoned it")
	case OutcomeAcquired:
		l.logger.Debug().Dur("waited", acq.Waited).Msg("lock acquired")
	case OutcomeTimedOut:
		l.logger.Debug().Dur("waited", acq.Waited).Msg("lock wait timed out")
	}
}

// Release gives up ownership so that other waiters may acquire.
// It fails with ErrLockDisposed after Close and with ErrNotOwner when this
// handle does not hold the lock.
func (l *Lock) Release() error {
	_, span := otel.Tracer(tracerName).Start(context.Background(), "namedlock.Release",
		trace.WithAttributes(attribute.String("namedlock.name", l.name)))
	defer span.End()

	heldFor, err := l.release()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	l.logger.Debug().Dur("held", heldFor).Msg("lock released")
	if l.opts.observer != nil {
		l.opts.observer.ObserveRelease(l.name, heldFor)
	}
	return nil
}

func (l *Lock) release() (time.Duration, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.disposed {
		return 0, nlerrors.ErrLockDisposed
	}
	if !l.held {
		return 0, nlerrors.Wrapf(nlerrors.ErrNotOwner, "release %q", l.name)
	}

	if err := l.file.Truncate(0); err != nil {
		l.logger.Warn().Err(err).Msg("failed to clear owner record, next holder will report the lock as abandoned")
	}
	if err := flock.Unlock(l.file.Fd()); err != nil {
		return 0, fmt.Errorf("%w: unlock %q: %w", nlerrors.ErrLockFile, l.name, err)
	}

	l.held = false
	return time.Since(l.heldSince), nil
}

// Close disposes of the handle. It is idempotent and always returns nil.
//
// Close does not release ownership: the OS drops the file lock with the
// descriptor, but the owner record stays, so the next holder reports the
// lock as abandoned. Call Release first.
func (l *Lock) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.disposed {
		return nil
	}
	l.disposed = true

	if l.held {
		l.logger.Warn().Msg("lock handle closed while held, next holder will report the lock as abandoned")
		l.held = false
	}
	if err := l.file.Close(); err != nil {
		l.logger.Warn().Err(err).Msg("failed to close lock file")
	}
	l.logger.Debug().Msg("lock handle closed")
	return nil
}

// timeoutMillis reports Infinite as -1 so it stays distinct from a single attempt.
func timeoutMillis(timeout time.Duration) int64 {
	if timeout == Infinite {
		return -1
	}
	return timeout.Milliseconds()
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Package errors provides centralized error handling for namedlock.
//
// This package defines sentinel errors used for programmatic error categorization
// throughout the application. All error types can be checked using errors.Is().
//
// IMPORTANT: This package MUST NOT import any other internal packages.
// Only standard library imports are allowed.
package errors

import "errors"

// Sentinel errors for error categorization.
// These allow callers to check error types with errors.Is().
// All errors use lowercase descriptions per Go conventions.
var (
	// ErrInvalidArgument indicates that an invalid argument was provided,
	// such as a blank lock name or a negative timeout.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrLockDisposed indicates an operation on a lock handle that was already closed.
	ErrLockDisposed = errors.New("lock handle is disposed")

	// ErrNotOwner indicates a release attempted by a handle that does not hold the lock.
	ErrNotOwner = errors.New("lock is not held by this handle")

	// ErrAbandoned indicates that ownership was granted after the previous holder
	// went away without releasing. The lock IS held when this error is returned.
	ErrAbandoned = errors.New("lock was abandoned by its previous holder")

	// ErrLockTimeout indicates a lock could not be acquired within the timeout period.
	ErrLockTimeout = errors.New("lock acquisition timeout")

	// ErrLockFile indicates the lock file could not be opened, locked or written.
	ErrLockFile = errors.New("lock file operation failed")

	// ErrConfigNil indicates that a nil config was passed to validation.
	ErrConfigNil = errors.New("config is nil")

	// ErrConfigInvalidLock indicates an invalid lock configuration value.
	ErrConfigInvalidLock = errors.New("invalid lock configuration")

	// ErrConfigInvalidDemo indicates an invalid demo configuration value.
	ErrConfigInvalidDemo = errors.New("invalid demo configuration")

	// ErrInvalidOutputFormat indicates an invalid output format was specified.
	ErrInvalidOutputFormat = errors.New("invalid output format")

	// ErrDemoCorrupted indicates the demo file was not left as one worker's complete payload.
	ErrDemoCorrupted = errors.New("demo file corrupted")

	// ErrWorkerFailed indicates one or more demo worker processes exited with an error.
	ErrWorkerFailed = errors.New("worker process failed")

	// ErrOperationCanceled indicates the user canceled an operation.
	ErrOperationCanceled = errors.New("operation canceled by user")
)

// ExitCode2Error wraps an error to indicate exit code 2 should be used.
type ExitCode2Error struct {
	Err error
}

// NewExitCode2Error wraps an error to indicate exit code 2.
func NewExitCode2Error(err error) *ExitCode2Error {
	return &ExitCode2Error{Err: err}
}

// Error implements the error interface.
func (e *ExitCode2Error) Error() string {
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ExitCode2Error) Unwrap() error {
	return e.Err
}

// IsExitCode2Error checks if an error should result in exit code 2.
func IsExitCode2Error(err error) bool {
	var e *ExitCode2Error
	return errors.As(err, &e)
}

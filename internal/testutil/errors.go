// Package testutil provides helpers shared by namedlock tests.
//
// It should only be imported by test files (*_test.go).
package testutil

import "errors"

// Mock errors for simulating failures in tests.
var (
	// ErrMockWriteFailed simulates a failed write to the shared file.
	ErrMockWriteFailed = errors.New("write failed")

	// ErrMockWorkerCrashed simulates a worker process exiting with an error.
	ErrMockWorkerCrashed = errors.New("worker crashed")
)

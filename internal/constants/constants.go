// Package constants provides centralized constant values used throughout namedlock.
// This package is the single source of truth for all shared constants and MUST NOT
// import any other internal packages.
package constants

import "time"

// Directory names and paths used by namedlock for organizing data.
const (
	// AppHome is the hidden directory name where namedlock stores its config and logs.
	// This directory is created in the user's home directory.
	AppHome = ".namedlock"

	// LogsDir is the directory name where log files are stored.
	LogsDir = "logs"

	// LockDirName is the directory created under os.TempDir() that holds lock files
	// when no lock directory is configured.
	LockDirName = "namedlock"

	// LockFileExt is the extension of every lock file.
	LockFileExt = ".lock"
)

// Lock file naming.
const (
	// LockHashLength is the number of hex digits of the name's SHA-256 kept in the
	// lock file name. Sixteen digits keep collisions out of reach for any realistic
	// number of lock names on one machine.
	LockHashLength = 16

	// LockSlugMaxLength bounds the human-readable prefix of a lock file name.
	LockSlugMaxLength = 32
)

// Polling configuration for lock acquisition.
const (
	// DefaultPollInterval is the longest pause between two acquisition attempts.
	DefaultPollInterval = 10 * time.Millisecond

	// MinPollInterval is the first pause after a contended attempt. Pauses double
	// up to the configured poll interval.
	MinPollInterval = time.Millisecond

	// MaxPollInterval bounds the configurable poll interval.
	MaxPollInterval = time.Second
)

// File permissions.
const (
	// LockDirPerm is the permission used when creating the lock directory.
	LockDirPerm = 0o750

	// LockFilePerm is the permission used when creating a lock file.
	LockFilePerm = 0o600
)

// Demo defaults.
const (
	// DefaultDemoLockName is the lock name shared by demo workers.
	DefaultDemoLockName = "writeLock"

	// DefaultDemoWorkers is the number of worker processes the demo launches.
	DefaultDemoWorkers = 100

	// MaxDemoWorkers bounds the number of worker processes.
	MaxDemoWorkers = 1000

	// DefaultDemoTimeout is how long a locked worker waits for the lock.
	DefaultDemoTimeout = 10 * time.Second

	// DefaultDemoLines is the number of lines each worker writes.
	DefaultDemoLines = 2000

	// MaxDemoLines bounds the number of lines per worker.
	MaxDemoLines = 1_000_000

	// DemoFileName is the shared file written by demo workers when none is configured.
	DemoFileName = "namedlock-demo.txt"

	// DemoChunkLines is the number of lines a worker writes per write call.
	DemoChunkLines = 16
)

// Metrics configuration.
const (
	// MetricsNamespace prefixes every exported metric.
	MetricsNamespace = "namedlock"

	// WorkerTextfilePattern is the file name pattern for per-worker metric files.
	WorkerTextfilePattern = "namedlock-worker-%d.prom"
)

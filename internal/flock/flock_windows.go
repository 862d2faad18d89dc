//go:build windows

package flock

import (
	"errors"

	"golang.org/x/sys/windows"
)

// Every lock covers the first byte of the lock file. Holders read and write
// the owner record through the handle that owns the range; other handles get
// ERROR_LOCK_VIOLATION on that byte until it is unlocked.
const (
	lockReserved  = 0
	lockBytesLow  = 1
	lockBytesHigh = 0
)

// Exclusive locks the first byte of the file without waiting.
// Contention is reported as an error that satisfies IsContended.
func Exclusive(fd uintptr) error {
	return windows.LockFileEx(
		windows.Handle(fd),
		windows.LOCKFILE_EXCLUSIVE_LOCK|windows.LOCKFILE_FAIL_IMMEDIATELY,
		lockReserved,
		lockBytesLow,
		lockBytesHigh,
		&windows.Overlapped{},
	)
}

// Unlock releases the range locked by Exclusive.
func Unlock(fd uintptr) error {
	return windows.UnlockFileEx(
		windows.Handle(fd),
		lockReserved,
		lockBytesLow,
		lockBytesHigh,
		&windows.Overlapped{},
	)
}

// IsContended reports whether err means the lock is held through another handle.
func IsContended(err error) bool {
	return errors.Is(err, windows.ERROR_LOCK_VIOLATION)
}

//go:build unix

package flock

import (
	"errors"

	"golang.org/x/sys/unix"
)

// Exclusive acquires an exclusive non-blocking lock on the file descriptor.
// Returns an error if the lock cannot be acquired immediately.
func Exclusive(fd uintptr) error {
	return retryInterrupted(func() error {
		return unix.Flock(int(fd), unix.LOCK_EX|unix.LOCK_NB)
	})
}

// Unlock releases the lock on the file descriptor.
func Unlock(fd uintptr) error {
	return retryInterrupted(func() error {
		return unix.Flock(int(fd), unix.LOCK_UN)
	})
}

// IsContended reports whether err means the lock is held through another descriptor.
// Older systems distinguish EWOULDBLOCK from EAGAIN, so both are accepted.
func IsContended(err error) bool {
	return errors.Is(err, unix.EWOULDBLOCK) || errors.Is(err, unix.EAGAIN)
}

func retryInterrupted(fn func() error) error {
	for {
		err := fn()
		if !errors.Is(err, unix.EINTR) {
			return err
		}
	}
}

//go:build unix

package namedlock

import (
	"errors"

	"golang.org/x/sys/unix"
)

// processRunning checks if a process exists using signal 0.
// EPERM means it exists but belongs to another user.
func processRunning(pid int) bool {
	if pid <= 0 {
		return false
	}
	err := unix.Kill(pid, 0)
	return err == nil || errors.Is(err, unix.EPERM)
}

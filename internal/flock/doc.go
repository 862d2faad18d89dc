// Package flock provides cross-platform advisory file locking.
//
// Locks are exclusive and never block: a contended attempt fails at once and
// IsContended reports whether the failure was contention or a real error.
// The lock belongs to the open file description, so two descriptors opened
// separately on the same path exclude each other even inside one process,
// and the OS drops the lock when the descriptor is closed or the process dies.
//
// Usage:
//
//	file, _ := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o600)
//	if err := flock.Exclusive(file.Fd()); err != nil {
//	    if flock.IsContended(err) {
//	        // held elsewhere, try again later
//	    }
//	}
//	defer flock.Unlock(file.Fd())
package flock

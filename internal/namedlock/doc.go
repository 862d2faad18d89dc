// Package namedlock provides a named mutual-exclusion lock shared by every
// process on a machine.
//
// A Lock is a handle on a lock file derived from the name. Handles with the
// same name, in one process or many, exclude each other; the OS drops a
// holder's lock when its descriptor is closed or the process dies.
//
// While held, the lock file carries an owner record (pid, host, handle id,
// acquisition time). Release clears it. A new holder that finds a record left
// behind knows the previous holder never released, and reports the
// acquisition as abandoned: ownership is granted, but the protected resource
// may need repair.
//
// Usage:
//
//	l, err := namedlock.New("writeLock")
//	if err != nil {
//	    return err
//	}
//	defer l.Close()
//
//	ok, err := l.TryAcquire(10 * time.Second)
//	if errors.Is(err, nlerrors.ErrAbandoned) {
//	    // held, but check the shared file first
//	} else if err != nil || !ok {
//	    return err
//	}
//	defer l.Release()
//
// A handle is a non-reentrant mutex: a second acquisition through the same
// handle waits for the first to be released, whichever goroutine makes it.
// Waiters are not served in any particular order.
package namedlock

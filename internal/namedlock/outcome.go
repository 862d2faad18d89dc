package namedlock

import (
	"fmt"
	"time"

	nlerrors "github.com/mrz1836/namedlock/internal/errors"
)

// Outcome is the result of an acquisition attempt.
type Outcome int

const (
	// OutcomeTimedOut means the lock was not obtained before the timeout.
	OutcomeTimedOut Outcome = iota
	// OutcomeAcquired means the lock was obtained and the previous holder released cleanly.
	OutcomeAcquired
	// OutcomeAbandoned means the lock was obtained, but the previous holder never released it.
	OutcomeAbandoned
)

// String returns the lowercase name of the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeTimedOut:
		return "timed_out"
	case OutcomeAcquired:
		return "acquired"
	case OutcomeAbandoned:
		return "abandoned"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Held reports whether the outcome grants ownership.
func (o Outcome) Held() bool {
	return o == OutcomeAcquired || o == OutcomeAbandoned
}

// Acquisition describes one completed Wait.
type Acquisition struct {
	// Outcome tells whether the lock is now held, and how.
	Outcome Outcome
	// Previous is the record left by the holder that abandoned the lock.
	// Set only for OutcomeAbandoned, and nil when that record was unreadable.
	Previous *Owner
	// Waited is the time spent waiting.
	Waited time.Duration
}

// AbandonedError reports that ownership was granted after the previous holder
// went away without releasing. The lock is held when this error is returned.
type AbandonedError struct {
	// Name is the lock name.
	Name string
	// Previous is the last record of the holder that abandoned the lock, if readable.
	Previous *Owner
}

// Error implements the error interface.
func (e *AbandonedError) Error() string {
	if e.Previous == nil {
		return fmt.Sprintf("lock %q: %s", e.Name, nlerrors.ErrAbandoned)
	}
	return fmt.Sprintf("lock %q: %s (pid %d on %q, held since %s)",
		e.Name, nlerrors.ErrAbandoned, e.Previous.PID, e.Previous.Host,
		e.Previous.AcquiredAt.Format(time.RFC3339))
}

// Unwrap lets errors.Is match ErrAbandoned.
func (e *AbandonedError) Unwrap() error {
	return nlerrors.ErrAbandoned
}

// abandonedErr converts an abandoned acquisition to an *AbandonedError.
func abandonedErr(name string, acq Acquisition) error {
	if acq.Outcome != OutcomeAbandoned {
		return nil
	}
	return &AbandonedError{Name: name, Previous: acq.Previous}
}

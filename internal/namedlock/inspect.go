package namedlock

import (
	"errors"
	"fmt"
	"os"

	"github.com/mrz1836/namedlock/internal/flock"
	nlerrors "github.com/mrz1836/namedlock/internal/errors"
)

// State is a point-in-time view of a named lock.
type State struct {
	Name string `json:"name"`
	Path string `json:"path"`
	// Held is true when some handle holds the lock.
	Held bool `json:"held"`
	// Stale is true when nobody holds the lock but the last holder never
	// released it. The next acquisition will report it as abandoned.
	Stale bool `json:"stale"`
	// Owner is the current or last holder's record, if readable.
	Owner *Owner `json:"owner,omitempty"`
}

// Inspect reports the state of a named lock without acquiring it.
// A lock that was never created is reported as free.
//
// The probe takes the file lock for an instant, so a concurrent acquisition
// attempt may see contention and retry. The record of a free lock is read
// while the probe holds it. The record of a held lock is read after the
// probe fails and may be missing if the holder is still writing it.
func Inspect(name string, opts ...Option) (State, error) {
	if err := validateName(name); err != nil {
		return State{}, err
	}

	o := buildOptions(opts)
	state := State{Name: name, Path: PathFor(o.dir, name)}

	f, err := os.OpenFile(state.Path, os.O_RDONLY, 0) //#nosec G304 -- path is derived from a hash of the name
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return state, nil
		}
		return state, fmt.Errorf("%w: open lock file: %w", nlerrors.ErrLockFile, err)
	}
	defer func() { _ = f.Close() }()

	if err := flock.Exclusive(f.Fd()); err != nil {
		if !flock.IsContended(err) {
			return state, fmt.Errorf("%w: probe %q: %w", nlerrors.ErrLockFile, name, err)
		}
		state.Held = true
		state.Owner, _ = readOwner(f)
		return state, nil
	}
	defer func() { _ = flock.Unlock(f.Fd()) }()

	owner, present := readOwner(f)
	state.Owner = owner
	state.Stale = present
	return state, nil
}

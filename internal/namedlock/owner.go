package namedlock

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"time"
)

// maxRecordSize bounds how much of a lock file is read as an owner record.
const maxRecordSize = 4096

// Owner is the record a holder writes into the lock file.
type Owner struct {
	PID        int       `json:"pid"`
	Host       string    `json:"host,omitempty"`
	Handle     string    `json:"handle"`
	Name       string    `json:"name"`
	AcquiredAt time.Time `json:"acquired_at"`
}

// Running reports whether the recorded process is still alive.
// Records from another host are never reported as running.
func (o Owner) Running() bool {
	if o.Host != "" {
		if host, err := os.Hostname(); err == nil && host != o.Host {
			return false
		}
	}
	return processRunning(o.PID)
}

// readOwner reads the record from the start of f.
// present is false for an empty file; owner is nil when a record is present
// but cannot be decoded (a holder died mid-write).
func readOwner(f *os.File) (owner *Owner, present bool) {
	data, err := io.ReadAll(io.NewSectionReader(f, 0, maxRecordSize))
	if err != nil {
		return nil, false
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, false
	}

	var record Owner
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, true
	}
	return &record, true
}

// writeOwner replaces the content of f with the record.
func writeOwner(f *os.File, owner Owner) error {
	data, err := json.Marshal(owner)
	if err != nil {
		return err
	}
	if err := f.Truncate(0); err != nil {
		return err
	}
	_, err = f.WriteAt(append(data, '\n'), 0)
	return err
}

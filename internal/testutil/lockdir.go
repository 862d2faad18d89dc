package testutil

import (
	"path/filepath"
	"testing"
)

// LockDir returns a fresh lock directory that is removed when t ends.
// Tests that share a directory share every lock name in it.
func LockDir(t testing.TB) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "locks")
}

package namedlock

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOwner_ReadWrite(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "owner.lock"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	owner, present := readOwner(f)
	assert.Nil(t, owner)
	assert.False(t, present, "an empty file has no record")

	at := time.Date(2026, 5, 6, 7, 8, 9, 0, time.UTC)
	long := Owner{PID: 1, Host: "a-very-long-host-name.example.internal", Handle: "first", Name: "x", AcquiredAt: at}
	require.NoError(t, writeOwner(f, long))

	short := Owner{PID: 2, Handle: "h", Name: "x", AcquiredAt: at}
	require.NoError(t, writeOwner(f, short))

	owner, present = readOwner(f)
	assert.True(t, present)
	require.NotNil(t, owner, "a shorter record must fully replace a longer one")
	assert.Equal(t, 2, owner.PID)
	assert.Empty(t, owner.Host)
	assert.True(t, at.Equal(owner.AcquiredAt))

	require.NoError(t, f.Truncate(0))
	_, present = readOwner(f)
	assert.False(t, present)
}

func TestOwner_ReadGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "owner.lock")
	require.NoError(t, os.WriteFile(path, []byte("not json\n"), 0o600))
	f, err := os.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	owner, present := readOwner(f)
	assert.True(t, present)
	assert.Nil(t, owner)
}

func TestOwner_Running(t *testing.T) {
	host, err := os.Hostname()
	require.NoError(t, err)

	assert.True(t, Owner{PID: os.Getpid(), Host: host}.Running())
	assert.True(t, Owner{PID: os.Getpid()}.Running(), "no host means this host")
	assert.False(t, Owner{PID: 0}.Running())
	assert.False(t, Owner{PID: -1}.Running())
	assert.False(t, Owner{PID: os.Getpid(), Host: host + "-elsewhere"}.Running())
}

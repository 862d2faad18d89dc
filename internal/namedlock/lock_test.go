package namedlock

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	nlerrors "github.com/mrz1836/namedlock/internal/errors"
	"github.com/mrz1836/namedlock/internal/testutil"
)

func newTestLock(t *testing.T, dir, name string, opts ...Option) *Lock {
	t.Helper()
	opts = append([]Option{WithDir(dir), WithPollInterval(time.Millisecond)}, opts...)
	l, err := New(name, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })
	return l
}

func TestNew_RejectsBlankNames(t *testing.T) {
	dir := testutil.LockDir(t)

	for _, name := range []string{"", " ", "\t\n"} {
		l, err := New(name, WithDir(dir))
		require.ErrorIs(t, err, nlerrors.ErrInvalidArgument, "name %q", name)
		assert.Nil(t, l)
	}
	assert.NoDirExists(t, dir)
}

func TestNew_CreatesLockFile(t *testing.T) {
	dir := testutil.LockDir(t)
	l := newTestLock(t, dir, "writeLock")

	assert.Equal(t, "writeLock", l.Name())
	assert.Equal(t, PathFor(dir, "writeLock"), l.Path())
	assert.FileExists(t, l.Path())
	assert.False(t, l.Held())
}

func TestLock_AcquireRelease(t *testing.T) {
	dir := testutil.LockDir(t)
	a := newTestLock(t, dir, "writeLock")
	b := newTestLock(t, dir, "writeLock")

	require.NoError(t, a.Acquire())
	assert.True(t, a.Held())

	ok, err := b.TryAcquire(0)
	require.NoError(t, err)
	assert.False(t, ok, "second handle must not get a held lock")

	require.NoError(t, a.Release())
	assert.False(t, a.Held())

	ok, err = b.TryAcquire(0)
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, b.Release())
}

func TestLock_DistinctNamesDoNotContend(t *testing.T) {
	dir := testutil.LockDir(t)
	a := newTestLock(t, dir, "alpha")
	b := newTestLock(t, dir, "beta")

	require.NoError(t, a.Acquire())
	ok, err := b.TryAcquire(0)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLock_TryAcquireWaitsForRelease(t *testing.T) {
	dir := testutil.LockDir(t)
	holder := newTestLock(t, dir, "writeLock")
	waiter := newTestLock(t, dir, "writeLock")

	require.NoError(t, holder.Acquire())
	released := make(chan error, 1)
	go func() {
		time.Sleep(200 * time.Millisecond)
		released <- holder.Release()
	}()

	ok, err := waiter.TryAcquire(50 * time.Millisecond)
	require.NoError(t, err)
	assert.False(t, ok, "holder keeps the lock for 200ms")

	ok, err = waiter.TryAcquire(2 * time.Second)
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, <-released)
}

func TestLock_TimedOutWaitReportsElapsed(t *testing.T) {
	dir := testutil.LockDir(t)
	holder := newTestLock(t, dir, "writeLock")
	waiter := newTestLock(t, dir, "writeLock")
	require.NoError(t, holder.Acquire())

	acq, err := waiter.Wait(context.Background(), 30*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, OutcomeTimedOut, acq.Outcome)
	assert.Nil(t, acq.Previous)
	assert.GreaterOrEqual(t, acq.Waited, 30*time.Millisecond)
	assert.False(t, waiter.Held())
}

func TestLock_NegativeTimeout(t *testing.T) {
	dir := testutil.LockDir(t)
	l := newTestLock(t, dir, "writeLock")

	for _, timeout := range []time.Duration{-2, -time.Millisecond, -time.Hour} {
		ok, err := l.TryAcquire(timeout)
		require.ErrorIs(t, err, nlerrors.ErrInvalidArgument)
		assert.False(t, ok)
	}

	t.Run("while held", func(t *testing.T) {
		require.NoError(t, l.Acquire())
		_, err := l.TryAcquire(-5 * time.Millisecond)
		require.ErrorIs(t, err, nlerrors.ErrInvalidArgument)
		assert.True(t, l.Held(), "a rejected call must not change ownership")
		require.NoError(t, l.Release())
	})

	t.Run("after close", func(t *testing.T) {
		require.NoError(t, l.Close())
		_, err := l.TryAcquire(-5 * time.Millisecond)
		require.ErrorIs(t, err, nlerrors.ErrInvalidArgument)
	})
}

func TestLock_ReleaseWithoutOwnership(t *testing.T) {
	dir := testutil.LockDir(t)
	holder := newTestLock(t, dir, "writeLock")
	other := newTestLock(t, dir, "writeLock")

	require.ErrorIs(t, holder.Release(), nlerrors.ErrNotOwner, "never acquired")

	require.NoError(t, holder.Acquire())
	require.ErrorIs(t, other.Release(), nlerrors.ErrNotOwner, "held by another handle")
	assert.True(t, holder.Held())

	require.NoError(t, holder.Release())
	require.ErrorIs(t, holder.Release(), nlerrors.ErrNotOwner, "released twice")
}

func TestLock_CloseIsIdempotent(t *testing.T) {
	dir := testutil.LockDir(t)
	l := newTestLock(t, dir, "writeLock")

	require.NoError(t, l.Close())
	require.NoError(t, l.Close())
}

func TestLock_DisposedOperations(t *testing.T) {
	dir := testutil.LockDir(t)
	l := newTestLock(t, dir, "writeLock")
	require.NoError(t, l.Close())

	require.ErrorIs(t, l.Acquire(), nlerrors.ErrLockDisposed)
	_, err := l.TryAcquire(0)
	require.ErrorIs(t, err, nlerrors.ErrLockDisposed)
	_, err = l.Wait(context.Background(), Infinite)
	require.ErrorIs(t, err, nlerrors.ErrLockDisposed)
	require.ErrorIs(t, l.Release(), nlerrors.ErrLockDisposed)
	assert.False(t, l.Held())
}

func TestLock_CloseWhileHeldIsAbandonment(t *testing.T) {
	dir := testutil.LockDir(t)
	first := newTestLock(t, dir, "writeLock")
	second := newTestLock(t, dir, "writeLock")

	require.NoError(t, first.Acquire())
	require.NoError(t, first.Close())

	done := make(chan error, 1)
	go func() { done <- second.Acquire() }()

	var err error
	select {
	case err = <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("acquire of an abandoned lock did not return")
	}

	require.ErrorIs(t, err, nlerrors.ErrAbandoned)
	var abandoned *AbandonedError
	require.ErrorAs(t, err, &abandoned)
	assert.Equal(t, "writeLock", abandoned.Name)
	require.NotNil(t, abandoned.Previous)
	assert.Equal(t, os.Getpid(), abandoned.Previous.PID)
	assert.Equal(t, first.handle, abandoned.Previous.Handle)
	assert.True(t, second.Held(), "abandonment still grants ownership")

	require.NoError(t, second.Release())

	third := newTestLock(t, dir, "writeLock")
	require.NoError(t, third.Acquire(), "a clean release clears the abandonment")
	require.NoError(t, third.Release())
}

func TestLock_UnreadableRecordIsAbandonment(t *testing.T) {
	dir := testutil.LockDir(t)
	l := newTestLock(t, dir, "writeLock")
	require.NoError(t, os.WriteFile(l.Path(), []byte("{\"pid\": 12"), 0o600))

	acq, err := l.Wait(context.Background(), time.Second)
	require.NoError(t, err)
	assert.Equal(t, OutcomeAbandoned, acq.Outcome)
	assert.Nil(t, acq.Previous)
	require.NoError(t, l.Release())
}

func TestLock_IsNotReentrant(t *testing.T) {
	dir := testutil.LockDir(t)
	l := newTestLock(t, dir, "writeLock")
	require.NoError(t, l.Acquire())

	ok, err := l.TryAcquire(20 * time.Millisecond)
	require.NoError(t, err)
	assert.False(t, ok, "a held handle does not re-enter")

	done := make(chan error, 1)
	go func() { done <- l.Acquire() }()

	select {
	case err := <-done:
		t.Fatalf("second acquire returned while held: %v", err)
	case <-time.After(50 * time.Millisecond):
	}

	// Ownership belongs to the handle, so another goroutine may release it.
	require.NoError(t, l.Release())
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("waiting acquire did not return after release")
	}
	assert.True(t, l.Held())
}

func TestLock_CloseWakesWaiter(t *testing.T) {
	dir := testutil.LockDir(t)
	holder := newTestLock(t, dir, "writeLock")
	waiter := newTestLock(t, dir, "writeLock")
	require.NoError(t, holder.Acquire())

	done := make(chan error, 1)
	go func() { done <- waiter.Acquire() }()
	time.Sleep(20 * time.Millisecond)
	require.NoError(t, waiter.Close())

	select {
	case err := <-done:
		require.ErrorIs(t, err, nlerrors.ErrLockDisposed)
	case <-time.After(5 * time.Second):
		t.Fatal("close did not wake the waiter")
	}
	assert.True(t, holder.Held())
}

func TestLock_AcquireContextCanceled(t *testing.T) {
	dir := testutil.LockDir(t)
	holder := newTestLock(t, dir, "writeLock")
	waiter := newTestLock(t, dir, "writeLock")
	require.NoError(t, holder.Acquire())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := waiter.AcquireContext(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, waiter.Held())

	canceled, cancelNow := context.WithCancel(context.Background())
	cancelNow()
	require.ErrorIs(t, waiter.AcquireContext(canceled), context.Canceled)
}

func TestLock_ZeroTimeoutOnFreeLock(t *testing.T) {
	dir := testutil.LockDir(t)
	l := newTestLock(t, dir, "writeLock")

	ok, err := l.TryAcquire(0)
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, l.Release())
}

// TestLock_MutualExclusion runs many handles against one name and checks
// that no two are ever inside the critical section together.
func TestLock_MutualExclusion(t *testing.T) {
	const (
		handles    = 8
		iterations = 50
	)

	dir := testutil.LockDir(t)
	shared, err := os.CreateTemp(t.TempDir(), "shared-*.txt")
	require.NoError(t, err)
	t.Cleanup(func() { _ = shared.Close() })

	var inside, overlaps atomic.Int32
	var wg sync.WaitGroup
	errs := make(chan error, handles)

	for h := range handles {
		l := newTestLock(t, dir, "writeLock")
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range iterations {
				if err := l.Acquire(); err != nil {
					errs <- err
					return
				}
				if inside.Add(1) != 1 {
					overlaps.Add(1)
				}
				// Two writes per line: interleaving would split a line.
				_, _ = fmt.Fprintf(shared, "h%d-i%d ", h, i)
				_, _ = fmt.Fprintf(shared, "h%d-i%d\n", h, i)
				inside.Add(-1)
				if err := l.Release(); err != nil {
					errs <- err
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	assert.Zero(t, overlaps.Load())

	_, err = shared.Seek(0, 0)
	require.NoError(t, err)
	lines := 0
	scanner := bufio.NewScanner(shared)
	for scanner.Scan() {
		parts := strings.Fields(scanner.Text())
		require.Len(t, parts, 2, "line %d: %q", lines, scanner.Text())
		assert.Equal(t, parts[0], parts[1])
		lines++
	}
	require.NoError(t, scanner.Err())
	assert.Equal(t, handles*iterations, lines)
}

type recordingObserver struct {
	mu       sync.Mutex
	acquires []Acquisition
	releases []time.Duration
}

func (r *recordingObserver) ObserveAcquire(_ string, acq Acquisition) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.acquires = append(r.acquires, acq)
}

func (r *recordingObserver) ObserveRelease(_ string, held time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.releases = append(r.releases, held)
}

func TestLock_Observer(t *testing.T) {
	dir := testutil.LockDir(t)
	obs := &recordingObserver{}
	l := newTestLock(t, dir, "writeLock", WithObserver(obs))
	other := newTestLock(t, dir, "writeLock", WithObserver(obs))

	require.NoError(t, l.Acquire())
	ok, err := other.TryAcquire(0)
	require.NoError(t, err)
	require.False(t, ok)
	require.NoError(t, l.Release())
	require.ErrorIs(t, l.Release(), nlerrors.ErrNotOwner)

	obs.mu.Lock()
	defer obs.mu.Unlock()
	require.Len(t, obs.acquires, 2)
	assert.Equal(t, OutcomeAcquired, obs.acquires[0].Outcome)
	assert.Equal(t, OutcomeTimedOut, obs.acquires[1].Outcome)
	assert.Len(t, obs.releases, 1, "failed releases are not observed")
}

func TestOutcome(t *testing.T) {
	tests := []struct {
		outcome Outcome
		str     string
		held    bool
	}{
		{OutcomeTimedOut, "timed_out", false},
		{OutcomeAcquired, "acquired", true},
		{OutcomeAbandoned, "abandoned", true},
		{Outcome(9), "outcome(9)", false},
	}

	for _, tt := range tests {
		t.Run(tt.str, func(t *testing.T) {
			assert.Equal(t, tt.str, tt.outcome.String())
			assert.Equal(t, tt.held, tt.outcome.Held())
		})
	}
}

func TestAbandonedError(t *testing.T) {
	at := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	err := abandonedErr("writeLock", Acquisition{
		Outcome:  OutcomeAbandoned,
		Previous: &Owner{PID: 4242, Host: "build-1", AcquiredAt: at},
	})

	require.ErrorIs(t, err, nlerrors.ErrAbandoned)
	assert.Contains(t, err.Error(), "pid 4242")
	assert.Contains(t, err.Error(), "build-1")
	assert.Contains(t, err.Error(), "2026-03-04T05:06:07Z")

	unknown := &AbandonedError{Name: "writeLock"}
	assert.Equal(t, `lock "writeLock": lock was abandoned by its previous holder`, unknown.Error())

	assert.NoError(t, abandonedErr("writeLock", Acquisition{Outcome: OutcomeAcquired}))
	assert.NoError(t, abandonedErr("writeLock", Acquisition{Outcome: OutcomeTimedOut}))
	assert.False(t, errors.Is(unknown, nlerrors.ErrLockTimeout))
}

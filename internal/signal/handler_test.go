package signal

import (
	"context"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_SignalCancelsContext(t *testing.T) {
	h := NewHandler(context.Background())
	defer h.Stop()

	assert.Nil(t, h.Received())
	require.NoError(t, h.Context().Err())

	h.handle(os.Interrupt)

	require.ErrorIs(t, h.Context().Err(), context.Canceled)
	assert.Equal(t, os.Interrupt, h.Received())
}

func TestHandler_KeepsFirstSignal(t *testing.T) {
	h := NewHandler(context.Background())
	defer h.Stop()

	h.handle(syscall.SIGTERM)
	h.handle(os.Interrupt)

	assert.Equal(t, syscall.SIGTERM, h.Received())
}

func TestHandler_ParentCancellation(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	h := NewHandler(parent)
	defer h.Stop()

	cancel()

	select {
	case <-h.Context().Done():
	case <-time.After(time.Second):
		t.Fatal("parent cancellation did not propagate")
	}
	assert.Nil(t, h.Received(), "cancellation is not a signal")
}

func TestHandler_StopIsIdempotent(t *testing.T) {
	h := NewHandler(context.Background())

	h.Stop()
	h.Stop()

	require.Error(t, h.Context().Err())
	assert.Nil(t, h.Received())
}

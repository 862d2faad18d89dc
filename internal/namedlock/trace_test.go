package namedlock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace/noop"

	nlerrors "github.com/mrz1836/namedlock/internal/errors"
	"github.com/mrz1836/namedlock/internal/testutil"
)

func attrValue(attrs []attribute.KeyValue, key string) (attribute.Value, bool) {
	for _, kv := range attrs {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestLock_Spans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	otel.SetTracerProvider(provider)
	t.Cleanup(func() {
		otel.SetTracerProvider(noop.NewTracerProvider())
		_ = provider.Shutdown(context.Background())
	})

	l := newTestLock(t, testutil.LockDir(t), "writeLock")
	ok, err := l.TryAcquire(time.Second)
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, l.Release())
	require.ErrorIs(t, l.Release(), nlerrors.ErrNotOwner)

	spans := recorder.Ended()
	require.Len(t, spans, 3)

	wait := spans[0]
	assert.Equal(t, "namedlock.Wait", wait.Name())
	name, _ := attrValue(wait.Attributes(), "namedlock.name")
	assert.Equal(t, "writeLock", name.AsString())
	timeout, _ := attrValue(wait.Attributes(), "namedlock.timeout_ms")
	assert.Equal(t, int64(1000), timeout.AsInt64())
	outcome, ok := attrValue(wait.Attributes(), "namedlock.outcome")
	require.True(t, ok)
	assert.Equal(t, "acquired", outcome.AsString())

	assert.Equal(t, "namedlock.Release", spans[1].Name())
	assert.Equal(t, codes.Unset, spans[1].Status().Code)

	assert.Equal(t, "namedlock.Release", spans[2].Name())
	assert.Equal(t, codes.Error, spans[2].Status().Code)
}

func TestLock_SpanTimeoutAttribute(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	otel.SetTracerProvider(provider)
	t.Cleanup(func() {
		otel.SetTracerProvider(noop.NewTracerProvider())
		_ = provider.Shutdown(context.Background())
	})

	l := newTestLock(t, testutil.LockDir(t), "writeLock")
	require.NoError(t, l.Acquire())
	require.NoError(t, l.Release())
	ok, err := l.TryAcquire(0)
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, l.Release())

	var timeouts []int64
	for _, span := range recorder.Ended() {
		if span.Name() != "namedlock.Wait" {
			continue
		}
		v, ok := attrValue(span.Attributes(), "namedlock.timeout_ms")
		require.True(t, ok)
		timeouts = append(timeouts, v.AsInt64())
	}
	assert.Equal(t, []int64{-1, 0}, timeouts, "infinite and single-attempt waits are distinguishable")
}

func TestTimeoutMillis(t *testing.T) {
	t.Parallel()

	assert.Equal(t, int64(-1), timeoutMillis(Infinite))
	assert.Equal(t, int64(0), timeoutMillis(0))
	assert.Equal(t, int64(0), timeoutMillis(time.Microsecond))
	assert.Equal(t, int64(1500), timeoutMillis(1500*time.Millisecond))
}

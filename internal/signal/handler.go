// Package signal turns SIGINT and SIGTERM into context cancellation so that
// commands holding a lock release it before exiting.
//
// Import rules:
//   - CAN import: std lib only
//   - MUST NOT import: internal packages
package signal

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// Handler cancels its context on the first SIGINT or SIGTERM.
//
// Usage:
//
//	h := signal.NewHandler(ctx)
//	defer h.Stop()
//
//	err := lock.AcquireContext(h.Context())
//	if h.Received() != nil {
//	    // interrupted while waiting
//	}
type Handler struct {
	ctx      context.Context //nolint:containedctx // the handler owns the context lifecycle
	cancel   context.CancelFunc
	sigChan  chan os.Signal
	done     chan struct{}
	stopOnce sync.Once

	mu       sync.Mutex
	received os.Signal
}

// NewHandler starts listening for SIGINT and SIGTERM.
func NewHandler(parent context.Context) *Handler {
	ctx, cancel := context.WithCancel(parent)
	h := &Handler{
		ctx:    ctx,
		cancel: cancel,
		// Buffered so signal.Notify never drops the first signal.
		sigChan: make(chan os.Signal, 1),
		done:    make(chan struct{}),
	}

	signal.Notify(h.sigChan, os.Interrupt, syscall.SIGTERM)
	go h.listen()

	return h
}

// Context returns the context canceled on the first signal or on Stop.
func (h *Handler) Context() context.Context {
	return h.ctx
}

// Received returns the first signal received, or nil.
func (h *Handler) Received() os.Signal {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.received
}

// Stop stops listening and cancels the context. It is safe to call twice.
func (h *Handler) Stop() {
	h.stopOnce.Do(func() {
		signal.Stop(h.sigChan)
		close(h.done)
		h.cancel()
	})
}

// handle records sig if it is the first one and cancels the context.
func (h *Handler) handle(sig os.Signal) {
	h.mu.Lock()
	if h.received == nil {
		h.received = sig
	}
	h.mu.Unlock()
	h.cancel()
}

func (h *Handler) listen() {
	for {
		select {
		case <-h.ctx.Done():
			return
		case <-h.done:
			return
		case sig := <-h.sigChan:
			h.handle(sig)
		}
	}
}

// Package cancel provides a cooperative cancellation token polled at stage
// boundaries throughout strategy and optimize. The original engine installs
// an OS signal handler (utils/SignalHandler.cpp) that flips a process-wide
// flag; here the caller owns a Token explicitly and decides what triggers it
// (a context.Context, an OS signal, a deadline, a test).
package cancel

import (
	"context"
	"sync/atomic"
)

// Token is a one-shot cancellation flag, safe for concurrent use.
type Token struct {
	flag atomic.Bool
}

// New returns a Token that has not been cancelled.
func New() *Token {
	return &Token{}
}

// Cancel marks the token as cancelled. Idempotent.
func (t *Token) Cancel() {
	t.flag.Store(true)
}

// Cancelled reports whether Cancel has been called.
func (t *Token) Cancelled() bool {
	if t == nil {
		return false
	}
	return t.flag.Load()
}

// FromContext returns a Token that becomes cancelled when ctx is done. The
// returned Token is live immediately; a background goroutine watches ctx
// and flips it once, then exits.
func FromContext(ctx context.Context) *Token {
	t := New()
	go func() {
		<-ctx.Done()
		t.Cancel()
	}()
	return t
}

package cancel

import (
	"context"
	"testing"
	"time"
)

func TestTokenStartsUncancelled(t *testing.T) {
	tok := New()
	if tok.Cancelled() {
		t.Error("a fresh token should not be cancelled")
	}
}

func TestTokenCancelIsIdempotent(t *testing.T) {
	tok := New()
	tok.Cancel()
	tok.Cancel()
	if !tok.Cancelled() {
		t.Error("expected the token to report cancelled after Cancel")
	}
}

func TestNilTokenIsNeverCancelled(t *testing.T) {
	var tok *Token
	if tok.Cancelled() {
		t.Error("a nil token should behave as never-cancelled")
	}
}

func TestFromContextCancelsOnContextDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	tok := FromContext(ctx)
	if tok.Cancelled() {
		t.Fatal("token should not be cancelled before context is done")
	}
	cancel()

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if tok.Cancelled() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Error("token was not cancelled within 1s of context cancellation")
}

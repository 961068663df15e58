// ABOUTME: Tests for the retry policy: delay math, retryability gating, and the retry loop itself.
// ABOUTME: Uses tiny delays so the loop tests finish in milliseconds.
package genapi

import (
	"context"
	"errors"
	"testing"
	"time"
)

// fakeRetryable is a test error with controllable retryability and hint.
type fakeRetryable struct {
	retryable bool
	after     time.Duration
}

func (e *fakeRetryable) Error() string             { return "fake error" }
func (e *fakeRetryable) IsRetryable() bool         { return e.retryable }
func (e *fakeRetryable) RetryAfter() time.Duration { return e.after }

func fastPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:        3,
		BaseDelay:         time.Millisecond,
		MaxDelay:          5 * time.Millisecond,
		BackoffMultiplier: 2.0,
	}
}

func TestCalculateDelayGrows(t *testing.T) {
	p := RetryPolicy{BaseDelay: 100 * time.Millisecond, MaxDelay: time.Minute, BackoffMultiplier: 2.0}
	if d := p.CalculateDelay(0); d != 100*time.Millisecond {
		t.Errorf("attempt 0: got %v", d)
	}
	if d := p.CalculateDelay(2); d != 400*time.Millisecond {
		t.Errorf("attempt 2: got %v", d)
	}
}

func TestCalculateDelayCapped(t *testing.T) {
	p := RetryPolicy{BaseDelay: time.Second, MaxDelay: 2 * time.Second, BackoffMultiplier: 10.0}
	if d := p.CalculateDelay(5); d != 2*time.Second {
		t.Errorf("expected cap at MaxDelay, got %v", d)
	}
}

func TestCalculateDelayJitterBounded(t *testing.T) {
	p := RetryPolicy{BaseDelay: 100 * time.Millisecond, MaxDelay: time.Minute, BackoffMultiplier: 2.0, Jitter: true}
	for i := 0; i < 50; i++ {
		d := p.CalculateDelay(1)
		if d < 0 || d > 200*time.Millisecond {
			t.Fatalf("jittered delay %v outside [0, 200ms]", d)
		}
	}
}

func TestShouldRetryGates(t *testing.T) {
	p := fastPolicy()
	if p.ShouldRetry(nil, 0) {
		t.Error("nil error must not retry")
	}
	if p.ShouldRetry(errors.New("plain"), 0) {
		t.Error("errors without IsRetryable must not retry")
	}
	if !p.ShouldRetry(&fakeRetryable{retryable: true}, 0) {
		t.Error("retryable error under limit must retry")
	}
	if p.ShouldRetry(&fakeRetryable{retryable: true}, p.MaxRetries) {
		t.Error("attempt at MaxRetries must not retry")
	}
	if p.ShouldRetry(&fakeRetryable{retryable: false}, 0) {
		t.Error("non-retryable error must not retry")
	}
}

func TestRetrySucceedsAfterFailures(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), fastPolicy(), func() error {
		calls++
		if calls < 3 {
			return &fakeRetryable{retryable: true}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestRetryStopsOnNonRetryable(t *testing.T) {
	calls := 0
	wantErr := errors.New("fatal")
	err := Retry(context.Background(), fastPolicy(), func() error {
		calls++
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Errorf("expected original error, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected single call, got %d", calls)
	}
}

func TestRetryExhaustsAttempts(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), fastPolicy(), func() error {
		calls++
		return &fakeRetryable{retryable: true}
	})
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	// Initial call plus MaxRetries retries.
	if calls != 4 {
		t.Errorf("expected 4 calls, got %d", calls)
	}
}

func TestRetryHonorsContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Retry(ctx, fastPolicy(), func() error {
		return &fakeRetryable{retryable: true}
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestRetryUsesRetryAfterFloor(t *testing.T) {
	p := fastPolicy()
	var seenDelay time.Duration
	p.OnRetry = func(err error, attempt int, delay time.Duration) {
		if attempt == 0 {
			seenDelay = delay
		}
	}
	calls := 0
	_ = Retry(context.Background(), p, func() error {
		calls++
		if calls == 1 {
			return &fakeRetryable{retryable: true, after: 20 * time.Millisecond}
		}
		return nil
	})
	if seenDelay < 20*time.Millisecond {
		t.Errorf("expected Retry-After floor of 20ms, got %v", seenDelay)
	}
}

// ABOUTME: Backoff loop for calls to the hosted generation API.
// ABOUTME: Errors opt in to retries via IsRetryable; a RetryAfter hint raises the wait floor.
package genapi

import (
	"context"
	"math/rand/v2"
	"time"
)

// retryableError is implemented by errors that may succeed on a later
// attempt (429s, 5xx responses, transport failures).
type retryableError interface {
	IsRetryable() bool
}

// delayHint is implemented by errors carrying a server-requested wait,
// typically from a Retry-After header.
type delayHint interface {
	RetryAfter() time.Duration
}

// RetryPolicy configures the backoff loop.
type RetryPolicy struct {
	// MaxRetries counts retry attempts after the initial call.
	MaxRetries int

	// BaseDelay is the wait before the first retry.
	BaseDelay time.Duration

	// MaxDelay caps the wait between any two attempts.
	MaxDelay time.Duration

	// BackoffMultiplier scales the wait after each failed attempt.
	BackoffMultiplier float64

	// Jitter randomizes each wait over [0, delay] so parallel clients
	// spread out.
	Jitter bool

	// OnRetry, when set, observes each retry before its wait starts.
	OnRetry func(err error, attempt int, delay time.Duration)
}

// DefaultRetryPolicy is what Client uses unless SetRetryPolicy overrides it:
// 3 retries, 500ms base, 30s cap, doubling, jittered.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:        3,
		BaseDelay:         500 * time.Millisecond,
		MaxDelay:          30 * time.Second,
		BackoffMultiplier: 2.0,
		Jitter:            true,
	}
}

// CalculateDelay returns the wait before retry number attempt (0-based),
// capped at MaxDelay and jittered over [0, delay] when Jitter is on.
func (p RetryPolicy) CalculateDelay(attempt int) time.Duration {
	delay := float64(p.BaseDelay)
	for i := 0; i < attempt && delay < float64(p.MaxDelay); i++ {
		delay *= p.BackoffMultiplier
	}
	if delay > float64(p.MaxDelay) {
		delay = float64(p.MaxDelay)
	}
	d := time.Duration(delay)
	if p.Jitter {
		d = time.Duration(rand.Int64N(int64(d) + 1))
	}
	return d
}

// ShouldRetry reports whether attempt number attempt should be retried
// after err. Errors that do not implement retryableError never retry.
func (p RetryPolicy) ShouldRetry(err error, attempt int) bool {
	if err == nil || attempt >= p.MaxRetries {
		return false
	}
	r, ok := err.(retryableError)
	return ok && r.IsRetryable()
}

// Retry runs fn until it succeeds, returns a non-retryable error, exhausts
// the policy, or ctx is cancelled. When the failing error carries a
// RetryAfter hint longer than the computed backoff, the hint wins.
func Retry(ctx context.Context, policy RetryPolicy, fn func() error) error {
	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := fn()
		if err == nil {
			return nil
		}
		if !policy.ShouldRetry(err, attempt) {
			return err
		}

		delay := policy.CalculateDelay(attempt)
		if h, ok := err.(delayHint); ok && h.RetryAfter() > delay {
			delay = h.RetryAfter()
		}
		if policy.OnRetry != nil {
			policy.OnRetry(err, attempt, delay)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
}

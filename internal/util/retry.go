package util

import (
	"context"
	"errors"
	"time"
)

// Backoff describes an exponential backoff schedule for retried operations.
// The delay before attempt n+1 is Base doubled n-1 times, bounded by Cap.
// Sleep may be replaced in tests to record delays instead of waiting.
type Backoff struct {
	Base  time.Duration
	Cap   time.Duration
	Sleep func(time.Duration)
}

// DefaultBackoff is the schedule used for calls to the external model API:
// 2s, 4s, 8s, 16s, ... capped at 30s.
func DefaultBackoff() Backoff {
	return Backoff{
		Base: 2 * time.Second,
		Cap:  30 * time.Second,
	}
}

// Delay returns the pause to take after the given failed attempt (1-based).
func (b Backoff) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := b.Base
	for i := 1; i < attempt; i++ {
		d *= 2
		if b.Cap > 0 && d >= b.Cap {
			return b.Cap
		}
	}
	if b.Cap > 0 && d > b.Cap {
		return b.Cap
	}
	return d
}

func (b Backoff) sleep(d time.Duration) {
	if b.Sleep != nil {
		b.Sleep(d)
		return
	}
	time.Sleep(d)
}

// Retry calls fn up to maxTries times until it returns nil error.
// If maxTries <= 0, it defaults to 1. Returns the last error if all attempts fail.
func Retry[T any](maxTries int, fn func() (T, error)) (T, error) {
	if maxTries <= 0 {
		maxTries = 1
	}
	var lastErr error
	var zero T
	for i := 0; i < maxTries; i++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err
	}
	return zero, lastErr
}

// RetryWithContext calls fn up to maxTries times until it returns a result and
// nil error, or until ctx is done. Context cancellation is returned immediately
// and never retried.
func RetryWithContext[T any](ctx context.Context, maxTries int, fn func(context.Context) (T, error)) (T, error) {
	if maxTries <= 0 {
		maxTries = 1
	}
	var lastErr error
	var zero T
	for i := 0; i < maxTries; i++ {
		if ctx.Err() != nil {
			return zero, ctx.Err()
		}
		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return zero, err
		}
		lastErr = err
	}
	return zero, lastErr
}

// RetryWithBackoff behaves like RetryWithContext but pauses between attempts
// according to the backoff schedule. All attempts run with identical inputs;
// nothing is mutated between retries. Unlike RetryWithContext, per-attempt
// timeouts are retried like any other failure; only cancellation of the
// parent ctx aborts the loop.
func RetryWithBackoff[T any](ctx context.Context, maxTries int, backoff Backoff, fn func(context.Context) (T, error)) (T, error) {
	if maxTries <= 0 {
		maxTries = 1
	}
	var lastErr error
	var zero T
	for attempt := 1; attempt <= maxTries; attempt++ {
		if ctx.Err() != nil {
			return zero, ctx.Err()
		}
		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		if ctx.Err() != nil {
			return zero, ctx.Err()
		}
		lastErr = err
		if attempt < maxTries {
			backoff.sleep(backoff.Delay(attempt))
		}
	}
	return zero, lastErr
}

// RetryErrWithBackoff is the error-only form of RetryWithBackoff.
func RetryErrWithBackoff(ctx context.Context, maxTries int, backoff Backoff, fn func(context.Context) error) error {
	if maxTries <= 0 {
		maxTries = 1
	}
	var lastErr error
	for attempt := 1; attempt <= maxTries; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		lastErr = err
		if attempt < maxTries {
			backoff.sleep(backoff.Delay(attempt))
		}
	}
	return lastErr
}

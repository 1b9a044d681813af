package ai

import (
	"context"
	"time"

	"github.com/thomas-vilte/prtitle/internal/logger"
)

// BackoffFunc returns the delay after the given failed attempt (1-based).
type BackoffFunc func(attempt int) time.Duration

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// ExponentialBackoff waits base, 2*base, 4*base, ...
func ExponentialBackoff(base time.Duration) BackoffFunc {
	return func(attempt int) time.Duration {
		return base << (attempt - 1)
	}
}

// LinearBackoff waits base, 2*base, 3*base, ...
func LinearBackoff(base time.Duration) BackoffFunc {
	return func(attempt int) time.Duration {
		return base * time.Duration(attempt)
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// RetryPolicy configures retryWithBackoff. MaxRetries of 0 means a single attempt.
type RetryPolicy struct {
	MaxRetries int
	Backoff    BackoffFunc
	Sleep      SleepFunc
	// IsRetryable nil retries every error.
	IsRetryable func(error) bool
}

// retryWithBackoff runs fn until it succeeds, fails with a non-retryable
// error, or exhausts the policy. It returns the number of attempts made and
// the last error unchanged so callers can wrap it in their own terms.
func retryWithBackoff[T any](ctx context.Context, p RetryPolicy, operation string, fn func(ctx context.Context) (T, error)) (T, int, error) {
	sleep := p.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	var (
		result  T
		lastErr error
		attempt int
	)
	for attempt = 1; attempt <= p.MaxRetries+1; attempt++ {
		result, lastErr = fn(ctx)
		if lastErr == nil {
			return result, attempt, nil
		}

		if p.IsRetryable != nil && !p.IsRetryable(lastErr) {
			return result, attempt, lastErr
		}
		if attempt > p.MaxRetries {
			break
		}

		backoff := p.Backoff(attempt)
		logger.Warn(ctx, "retrying after failure",
			"operation", operation,
			"attempt", attempt,
			"max_retries", p.MaxRetries,
			"backoff", backoff,
			"error", lastErr)

		if err := sleep(ctx, backoff); err != nil {
			return result, attempt, err
		}
	}

	return result, attempt, lastErr
}

package pipeline

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"github.com/dgallion1/docoutline/internal/pathstore"
)

const (
	// MaxRetries is the number of attempts made for a retryable store call.
	MaxRetries = 3
	maxBackoff = 30 * time.Second
)

// IsRetryable checks if a store error is worth retrying.
func IsRetryable(err error) bool {
	var retryErr *pathstore.RetryableError
	return errors.As(err, &retryErr)
}

// Backoff returns a duration for attempt n (0-indexed): exponential from
// one second, capped, plus up to 50% jitter.
func Backoff(attempt int) time.Duration {
	base := time.Duration(1<<uint(attempt)) * time.Second
	if base > maxBackoff || base <= 0 {
		base = maxBackoff
	}
	return base + time.Duration(rand.Int64N(int64(base)/2))
}

// withRetry calls fn up to MaxRetries times while it fails with a
// retryable error, sleeping backoff(attempt) between calls. onRetry is
// called before each sleep.
func withRetry(ctx context.Context, backoff func(int) time.Duration, onRetry func(attempt int, err error), fn func() error) error {
	var err error
	for attempt := range MaxRetries {
		if err = fn(); err == nil || !IsRetryable(err) {
			return err
		}
		if attempt == MaxRetries-1 {
			break
		}
		onRetry(attempt, err)
		select {
		case <-time.After(backoff(attempt)):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

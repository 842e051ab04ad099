package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dgallion1/docoutline/internal/pathstore"
)

func noBackoff(int) time.Duration { return 0 }

func TestIsRetryable(t *testing.T) {
	wrapped := errors.Join(errors.New("put"), &pathstore.RetryableError{StatusCode: 429})
	if !IsRetryable(wrapped) {
		t.Error("expected wrapped RetryableError to be retryable")
	}
	if IsRetryable(errors.New("plain")) {
		t.Error("expected plain error not to be retryable")
	}
}

func TestBackoffBounds(t *testing.T) {
	for attempt := range 8 {
		d := Backoff(attempt)
		base := time.Duration(1<<uint(attempt)) * time.Second
		if base > maxBackoff {
			base = maxBackoff
		}
		if d < base || d >= base+base/2 {
			t.Errorf("attempt %d: expected backoff in [%v, %v), got %v", attempt, base, base+base/2, d)
		}
	}
}

func TestWithRetry_GivesUpAfterMaxRetries(t *testing.T) {
	calls, retries := 0, 0
	err := withRetry(context.Background(), noBackoff,
		func(int, error) { retries++ },
		func() error {
			calls++
			return &pathstore.RetryableError{StatusCode: 503}
		},
	)
	if !IsRetryable(err) {
		t.Errorf("expected last retryable error, got %v", err)
	}
	if calls != MaxRetries {
		t.Errorf("expected %d calls, got %d", MaxRetries, calls)
	}
	if retries != MaxRetries-1 {
		t.Errorf("expected %d retry callbacks, got %d", MaxRetries-1, retries)
	}
}

func TestWithRetry_PermanentErrorStops(t *testing.T) {
	calls := 0
	permanent := errors.New("forbidden")
	err := withRetry(context.Background(), noBackoff, func(int, error) {}, func() error {
		calls++
		return permanent
	})
	if !errors.Is(err, permanent) {
		t.Errorf("expected permanent error, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestWithRetry_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := withRetry(ctx, func(int) time.Duration { return time.Hour },
		func(int, error) { cancel() },
		func() error {
			calls++
			return &pathstore.RetryableError{StatusCode: 500}
		},
	)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call before cancellation, got %d", calls)
	}
}

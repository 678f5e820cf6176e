package api

import (
	"context"
	"errors"
	"time"
)

// DefaultMaxRetries bounds retries for idempotent requests
const DefaultMaxRetries = 2

func retryWithBackoff(ctx context.Context, maxRetries int, base time.Duration, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		var se *StatusError
		if !errors.As(lastErr, &se) || !se.Retryable() {
			return lastErr
		}

		if attempt < maxRetries {
			backoff := base * time.Duration(1<<uint(attempt))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}
	}
	return lastErr
}

package utils

import (
	"context"
	"time"
)

// RetryConfig holds the parameters for the retry strategy.
type RetryConfig struct {
	MaxAttempts int
	Delay       time.Duration
	Logger      *Logger
}

// Do runs fn until it succeeds or MaxAttempts is reached, sleeping a fixed
// Delay between attempts. The last error is returned as-is.
func (r *RetryConfig) Do(ctx context.Context, operationName string, fn func() error) error {
	_, err := Retry(ctx, r, operationName, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}

// Retry is Do for operations that produce a value.
func Retry[T any](ctx context.Context, r *RetryConfig, operationName string, fn func() (T, error)) (T, error) {
	attempts := r.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var (
		result  T
		lastErr error
	)
	for attempt := 1; attempt <= attempts; attempt++ {
		result, lastErr = fn()
		if lastErr == nil {
			return result, nil
		}
		if attempt == attempts {
			break
		}

		r.Logger.Warn("[retry] %s failed (attempt %d/%d): %v, retrying in %v",
			operationName, attempt, attempts, lastErr, r.Delay)
		if err := Sleep(ctx, r.Delay); err != nil {
			return result, lastErr
		}
	}
	return result, lastErr
}

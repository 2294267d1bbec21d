package utils

import (
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RetryConfig holds the parameters for the retry strategy.
type RetryConfig struct {
	MaxAttempts uint64
	BaseDelay   time.Duration
	Logger      *Logger
}

// Do executes fn with exponential back-off retry logic.
func (r *RetryConfig) Do(operationName string, fn func() error) error {
	maxAttempts := r.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	strategy := backoff.NewExponentialBackOff()
	strategy.InitialInterval = r.BaseDelay

	attempt := 0
	operation := func() error {
		attempt++
		err := fn()
		if err != nil && uint64(attempt) < maxAttempts {
			r.Logger.Warn("[retry] %s failed (attempt %d/%d): %v — retrying",
				operationName, attempt, maxAttempts, err)
		}
		return err
	}

	if err := backoff.Retry(operation, backoff.WithMaxRetries(strategy, maxAttempts-1)); err != nil {
		return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxAttempts, err)
	}
	return nil
}

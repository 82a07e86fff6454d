package resilience

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// RetryConfig configures the retry policy.
type RetryConfig struct {
	// MaxRetries is the number of retries after the initial attempt, so the
	// operation is invoked at most MaxRetries+1 times. Zero disables
	// retrying.
	MaxRetries int

	// BaseDelay is the backoff delay before the first retry; it doubles on
	// each subsequent retry. See BackoffConfig.
	// Default: 100ms
	BaseDelay time.Duration

	// JitterMax bounds the random jitter added to each backoff delay.
	// Zero disables jitter.
	JitterMax time.Duration

	// RetryIf determines if an error should trigger a retry.
	// Default: everything except ErrCircuitOpen. Retrying against an open
	// circuit is wasted work and would defeat the breaker.
	RetryIf func(err error) bool

	// OnRetry is called before each retry wait, with the 1-based number of
	// the attempt that just failed, its error, and the upcoming delay.
	OnRetry func(attempt int, err error, delay time.Duration)
}

// Retry implements retry with exponential backoff and jitter.
type Retry struct {
	config  RetryConfig
	backoff *Backoff
}

// NewRetry creates a new retry handler.
func NewRetry(config RetryConfig) *Retry {
	// Apply defaults
	if config.MaxRetries < 0 {
		config.MaxRetries = 0
	}
	if config.RetryIf == nil {
		config.RetryIf = func(err error) bool {
			return !errors.Is(err, ErrCircuitOpen)
		}
	}

	return &Retry{
		config: config,
		backoff: NewBackoff(BackoffConfig{
			BaseDelay: config.BaseDelay,
			JitterMax: config.JitterMax,
		}),
	}
}

// Execute runs the operation with retry logic.
//
// Attempts are strictly sequential. A non-retryable error propagates
// unchanged; once retries are exhausted, the last error is returned wrapped
// in ErrRetriesExhausted. The backoff wait is interruptible: if the context
// is cancelled while waiting, the operation is not invoked again.
func (r *Retry) Execute(ctx context.Context, op func(context.Context) error) error {
	for attempt := 0; ; attempt++ {
		err := op(ctx)
		if err == nil {
			return nil
		}

		if !r.config.RetryIf(err) {
			return err
		}

		if attempt >= r.config.MaxRetries {
			return fmt.Errorf("%w after %d attempts: %w", ErrRetriesExhausted, attempt+1, err)
		}

		delay := r.backoff.Compute(attempt)

		if r.config.OnRetry != nil {
			r.config.OnRetry(attempt+1, err, delay)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
}

// Config returns the retry configuration.
func (r *Retry) Config() RetryConfig {
	return r.config
}

package resilience

import (
	"math"
	"math/rand/v2"
	"time"
)

// BackoffConfig configures exponential backoff with jitter.
type BackoffConfig struct {
	// BaseDelay is the delay before the first retry.
	// Default: 100ms
	BaseDelay time.Duration

	// JitterMax bounds the random jitter added to each delay. The jitter is
	// drawn uniformly from [0, JitterMax). Zero disables jitter.
	JitterMax time.Duration
}

// Backoff computes wait durations between retry attempts.
type Backoff struct {
	config BackoffConfig
}

// NewBackoff creates a new backoff calculator.
func NewBackoff(config BackoffConfig) *Backoff {
	// Apply defaults
	if config.BaseDelay <= 0 {
		config.BaseDelay = 100 * time.Millisecond
	}
	if config.JitterMax < 0 {
		config.JitterMax = 0
	}

	return &Backoff{config: config}
}

// Compute returns the wait duration before retry number attempt (0-based).
// The result is BaseDelay doubled attempt times, plus jitter, so it is never
// below BaseDelay * 2^attempt. Once doubling overflows time.Duration the
// delay saturates at the maximum duration instead of wrapping negative.
func (b *Backoff) Compute(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}

	scaled := float64(b.config.BaseDelay) * math.Pow(2, float64(attempt))
	if scaled >= math.MaxInt64 {
		return math.MaxInt64
	}
	delay := time.Duration(scaled)

	if b.config.JitterMax > 0 {
		// #nosec G404 -- jitter is non-cryptographic timing variance.
		jitter := time.Duration(rand.Int64N(int64(b.config.JitterMax)))
		if delay > math.MaxInt64-jitter {
			return math.MaxInt64
		}
		delay += jitter
	}

	return delay
}

// Config returns the backoff configuration.
func (b *Backoff) Config() BackoffConfig {
	return b.config
}

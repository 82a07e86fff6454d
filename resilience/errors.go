package resilience

import "errors"

// Sentinel errors for resilience operations.
var (
	// ErrCircuitOpen is returned when the circuit breaker rejects a call
	// without invoking the action.
	ErrCircuitOpen = errors.New("resilience: circuit breaker is open")

	// ErrRetriesExhausted is returned when every retry attempt has failed.
	// The error from the final attempt is wrapped and reachable with
	// errors.Is / errors.As.
	ErrRetriesExhausted = errors.New("resilience: retries exhausted")

	// ErrFallbackFailed is returned when the fallback handler itself fails.
	// It wraps the handler's error and is the only failure the pipeline
	// never absorbs.
	ErrFallbackFailed = errors.New("resilience: fallback handler failed")
)

// Package resilience wraps a fallible action with a layered failure-handling
// strategy: retry with backoff, circuit breaking, and fallback.
//
// # Policies
//
// The package provides three composable policies:
//
//   - Circuit Breaker: tracks the failure ratio over a rolling window and
//     stops calling a persistently failing action for a cooldown period,
//     then probes recovery with a single trial call.
//
//   - Retry: re-invokes a failed action with exponential backoff and
//     randomized jitter, up to a bounded attempt count.
//
//   - Fallback: invokes a substitute action when everything else has failed,
//     turning the failure into a success.
//
// # Pipeline
//
// Pipeline composes the three into one callable with a fixed order: fallback
// outermost, retry in the middle, circuit breaker innermost.
//
//	pipeline := resilience.NewPipeline(resilience.PipelineConfig{
//	    Retry: resilience.RetryConfig{
//	        MaxRetries: 3,
//	        BaseDelay:  100 * time.Millisecond,
//	        JitterMax:  300 * time.Millisecond,
//	    },
//	    CircuitBreaker: resilience.CircuitBreakerConfig{
//	        FailureThreshold:  0.25,
//	        SamplingDuration:  30 * time.Second,
//	        BreakDuration:     10 * time.Second,
//	        MinimumThroughput: 64,
//	    },
//	    Fallback: resilience.FallbackConfig{
//	        Handler: func(ctx context.Context) error {
//	            return serveCached(ctx)
//	        },
//	    },
//	})
//
//	err := pipeline.Execute(ctx, func(ctx context.Context) error {
//	    return callPrimary(ctx)
//	})
//
// The order matters. With the breaker innermost, every retry attempt is
// individually counted by and subject to the breaker, and a retry loop can
// never hammer an open circuit: retries classify ErrCircuitOpen as
// non-retryable by default. With fallback outermost, the substitute action
// only engages once retries are exhausted or the circuit is open, never on
// the first transient failure.
//
// # Observer hooks
//
// Each policy exposes optional hooks (OnRetry, OnBreak, OnReset, OnHalfOpen,
// OnFallback) for diagnostics. Hooks are side-effect-only: they carry no
// return value and cannot alter control flow. The observe package wires them
// to structured logs and OpenTelemetry metrics.
//
// # Errors
//
// Failures keep their kind as they propagate: the action's own error, the
// breaker's ErrCircuitOpen, retry's ErrRetriesExhausted (wrapping the last
// attempt's error), and ErrFallbackFailed (wrapping the handler's error),
// which is the only failure the pipeline never absorbs. Classify with
// errors.Is.
//
// All state is in-memory and scoped to one policy instance; nothing is
// persisted across process restarts.
package resilience

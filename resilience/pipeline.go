package resilience

import "context"

// PipelineConfig configures a policy pipeline.
type PipelineConfig struct {
	Retry          RetryConfig
	CircuitBreaker CircuitBreakerConfig
	Fallback       FallbackConfig
}

// Pipeline composes fallback, retry, and circuit breaking into a single
// execution path.
//
// The order is fixed: fallback wraps retry wraps the circuit breaker. The
// breaker sits innermost so every retry attempt is individually counted and
// short-circuited; retry sits inside fallback so the substitute action only
// engages once retries are exhausted or the circuit is open. The ordering is
// a contract of the pipeline, not a configuration choice.
type Pipeline struct {
	fallback *Fallback
	retry    *Retry
	breaker  *CircuitBreaker
}

// NewPipeline creates a pipeline from the given configuration.
func NewPipeline(config PipelineConfig) *Pipeline {
	return &Pipeline{
		fallback: NewFallback(config.Fallback),
		retry:    NewRetry(config.Retry),
		breaker:  NewCircuitBreaker(config.CircuitBreaker),
	}
}

// Execute runs the operation through the pipeline.
//
// The pipeline holds no per-call state and is safe for concurrent use;
// concurrent calls share the single circuit breaker, and each call's retry
// waits suspend only that call.
func (p *Pipeline) Execute(ctx context.Context, op func(context.Context) error) error {
	// Build the execution chain from the inside out.
	guarded := func(ctx context.Context) error {
		return p.breaker.Execute(ctx, op)
	}

	retried := func(ctx context.Context) error {
		return p.retry.Execute(ctx, guarded)
	}

	return p.fallback.Execute(ctx, retried)
}

// Breaker returns the pipeline's circuit breaker, shared across all Execute
// calls. Useful for surfacing its state to health checks and metrics.
func (p *Pipeline) Breaker() *CircuitBreaker {
	return p.breaker
}

package health

import (
	"context"
	"fmt"

	"github.com/bulwark-go/bulwark/resilience"
)

// BreakerChecker reports the health of a circuit breaker. A closed circuit
// is healthy, a half-open circuit is degraded while the probe is in flight,
// and an open circuit is unhealthy.
type BreakerChecker struct {
	name    string
	breaker *resilience.CircuitBreaker
}

// NewBreakerChecker creates a checker for the given circuit breaker.
func NewBreakerChecker(name string, breaker *resilience.CircuitBreaker) *BreakerChecker {
	return &BreakerChecker{name: name, breaker: breaker}
}

// NewPipelineChecker creates a checker for the pipeline's circuit breaker.
func NewPipelineChecker(name string, p *resilience.Pipeline) *BreakerChecker {
	return NewBreakerChecker(name, p.Breaker())
}

// Name returns the name of this checker.
func (b *BreakerChecker) Name() string {
	return b.name
}

// Check reports the breaker's current state and rolling-window counters.
func (b *BreakerChecker) Check(ctx context.Context) Result {
	stats := b.breaker.Stats()

	details := map[string]any{
		"state":    stats.State.String(),
		"calls":    stats.Calls,
		"failures": stats.Failures,
	}
	if stats.Calls > 0 {
		details["failure_ratio"] = float64(stats.Failures) / float64(stats.Calls)
	}

	switch stats.State {
	case resilience.StateClosed:
		return Healthy("circuit closed").WithDetails(details)
	case resilience.StateHalfOpen:
		return Degraded("circuit half-open, probing").WithDetails(details)
	default:
		return Unhealthy(
			fmt.Sprintf("circuit open: %d failures in %d calls", stats.Failures, stats.Calls),
			resilience.ErrCircuitOpen,
		).WithDetails(details)
	}
}

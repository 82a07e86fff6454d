package resilience

import (
	"context"
	"sync"
	"time"
)

// State represents the circuit breaker state.
type State int

const (
	// StateClosed means the circuit is operating normally.
	StateClosed State = iota
	// StateOpen means the circuit is rejecting all requests.
	StateOpen
	// StateHalfOpen means the circuit is probing whether the action recovered.
	StateHalfOpen
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// CircuitBreakerConfig configures the circuit breaker.
type CircuitBreakerConfig struct {
	// FailureThreshold is the failure ratio (0.0-1.0) at or above which the
	// circuit opens.
	// Default: 0.25
	FailureThreshold float64

	// SamplingDuration is the length of the rolling window over which call
	// outcomes are aggregated.
	// Default: 30 seconds
	SamplingDuration time.Duration

	// BreakDuration is how long the circuit stays open before the next call
	// is allowed through as a probe.
	// Default: 10 seconds
	BreakDuration time.Duration

	// MinimumThroughput is the number of calls that must land inside the
	// sampling window before the circuit may open. Below it the circuit
	// never opens regardless of the failure ratio.
	// Default: 64
	MinimumThroughput int

	// IsFailure determines if an error should count as a failure.
	// Default: all non-nil errors are failures.
	IsFailure func(err error) bool

	// OnBreak is called when the circuit opens, with the error that tripped
	// it and the configured break duration.
	//
	// All three hooks run while the breaker's internal lock is held: they
	// must not call State, Stats, or Execute on the breaker, or they will
	// deadlock.
	OnBreak func(err error, d time.Duration)

	// OnReset is called when a successful probe closes the circuit.
	OnReset func()

	// OnHalfOpen is called when the circuit admits a probe.
	OnHalfOpen func()
}

// CircuitBreaker implements the circuit breaker pattern over a rolling
// failure-rate window.
//
// The breaker owns the only mutable state in the pipeline: the current
// State, the rolling window, and the half-open probe slot. All three are
// read-checked-written as one unit under a single mutex, so concurrent
// callers can never both claim the probe slot or race a state transition.
type CircuitBreaker struct {
	config CircuitBreakerConfig

	mu       sync.Mutex
	state    State
	window   *slidingWindow
	openedAt time.Time
	probing  bool
}

// Stats is a snapshot of the breaker's state and rolling window.
type Stats struct {
	State    State
	Calls    int64
	Failures int64
}

// NewCircuitBreaker creates a new circuit breaker.
func NewCircuitBreaker(config CircuitBreakerConfig) *CircuitBreaker {
	// Apply defaults
	if config.FailureThreshold <= 0 || config.FailureThreshold > 1 {
		config.FailureThreshold = 0.25
	}
	if config.SamplingDuration <= 0 {
		config.SamplingDuration = 30 * time.Second
	}
	if config.BreakDuration <= 0 {
		config.BreakDuration = 10 * time.Second
	}
	if config.MinimumThroughput <= 0 {
		config.MinimumThroughput = 64
	}
	if config.IsFailure == nil {
		config.IsFailure = func(err error) bool { return err != nil }
	}

	return &CircuitBreaker{
		config: config,
		state:  StateClosed,
		window: newSlidingWindow(config.SamplingDuration),
	}
}

// Execute runs the operation through the circuit breaker.
//
// While the circuit is open, Execute returns ErrCircuitOpen without invoking
// the operation. Once BreakDuration has elapsed, exactly one caller is
// admitted as a half-open probe; everyone else keeps getting ErrCircuitOpen
// until the probe completes.
func (cb *CircuitBreaker) Execute(ctx context.Context, op func(context.Context) error) error {
	probe, err := cb.beforeCall(time.Now())
	if err != nil {
		return err
	}

	err = op(ctx)
	cb.afterCall(time.Now(), probe, err)
	return err
}

// State returns the current circuit state.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// Stats returns a snapshot of the breaker's state and rolling window.
func (cb *CircuitBreaker) Stats() Stats {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	calls, failures := cb.window.counts(time.Now())
	return Stats{State: cb.state, Calls: calls, Failures: failures}
}

// beforeCall decides whether the call may proceed and whether it is the
// half-open probe. The probe slot is claimed here, under the mutex, so two
// callers can never both see it free.
func (cb *CircuitBreaker) beforeCall(now time.Time) (probe bool, err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateOpen:
		if now.Sub(cb.openedAt) < cb.config.BreakDuration {
			return false, ErrCircuitOpen
		}
		cb.state = StateHalfOpen
		cb.probing = true
		if cb.config.OnHalfOpen != nil {
			cb.config.OnHalfOpen()
		}
		return true, nil

	case StateHalfOpen:
		if cb.probing {
			return false, ErrCircuitOpen
		}
		cb.probing = true
		return true, nil

	default:
		return false, nil
	}
}

// afterCall records the outcome of an admitted call and applies any state
// transition it causes.
func (cb *CircuitBreaker) afterCall(now time.Time, probe bool, err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	failure := cb.config.IsFailure(err)

	if probe {
		cb.probing = false
		if failure {
			cb.trip(now, err)
			return
		}
		cb.state = StateClosed
		cb.window.reset()
		if cb.config.OnReset != nil {
			cb.config.OnReset()
		}
		return
	}

	// Calls admitted while closed only count if the circuit is still closed.
	// An outcome straggling in after another caller tripped the circuit is
	// dropped; the window restarts on recovery anyway.
	if cb.state != StateClosed {
		return
	}

	cb.window.record(now, failure)
	if !failure {
		return
	}

	calls, failures := cb.window.counts(now)
	if calls < int64(cb.config.MinimumThroughput) {
		return
	}
	if float64(failures)/float64(calls) >= cb.config.FailureThreshold {
		cb.trip(now, err)
	}
}

func (cb *CircuitBreaker) trip(now time.Time, err error) {
	cb.state = StateOpen
	cb.openedAt = now
	if cb.config.OnBreak != nil {
		cb.config.OnBreak(err, cb.config.BreakDuration)
	}
}

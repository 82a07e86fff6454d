package observe

import (
	"context"
	"time"

	"github.com/bulwark-go/bulwark/resilience"
)

// Middleware wires resilience pipelines to tracing, metrics, and logging.
//
// Contract:
//   - Concurrency: installed hooks and wrapped functions are thread-safe.
//   - Errors: hooks are best-effort and never panic; errors from the wrapped
//     pipeline are recorded and propagated unchanged.
type Middleware struct {
	tracer  Tracer
	metrics Metrics
	logger  Logger
}

// NewMiddleware creates a new Middleware with the given telemetry components.
func NewMiddleware(tracer Tracer, metrics Metrics, logger Logger) *Middleware {
	return &Middleware{
		tracer:  tracer,
		metrics: metrics,
		logger:  logger,
	}
}

// MiddlewareFromObserver creates a Middleware from an Observer.
// This is a convenience function for common use cases.
func MiddlewareFromObserver(obs Observer) (*Middleware, error) {
	metrics, err := newMetrics(obs.Meter())
	if err != nil {
		return nil, err
	}

	return NewMiddleware(newTracer(obs.Tracer()), metrics, obs.Logger()), nil
}

// Instrument fills the configuration's observer hooks so every retry, break,
// reset, half-open probe, and fallback is logged and counted. Hooks already
// present in the configuration are preserved and called first. Call it
// before resilience.NewPipeline; the pipeline copies its configuration at
// construction.
func (m *Middleware) Instrument(meta PipelineMeta, config *resilience.PipelineConfig) {
	// Hooks carry no context; pipeline identity comes from meta.
	ctx := context.Background()
	logger := m.logger.WithPipeline(meta)

	prevRetry := config.Retry.OnRetry
	config.Retry.OnRetry = func(attempt int, err error, delay time.Duration) {
		if prevRetry != nil {
			prevRetry(attempt, err, delay)
		}
		m.metrics.RecordRetry(ctx, meta)
		logger.Warn(ctx, "retrying action",
			Field{Key: "attempt", Value: attempt},
			Field{Key: "error", Value: err.Error()},
			Field{Key: "delay_ms", Value: float64(delay.Milliseconds())},
		)
	}

	prevBreak := config.CircuitBreaker.OnBreak
	config.CircuitBreaker.OnBreak = func(err error, d time.Duration) {
		if prevBreak != nil {
			prevBreak(err, d)
		}
		m.metrics.RecordTransition(ctx, meta, resilience.StateOpen.String())
		logger.Error(ctx, "circuit opened",
			Field{Key: "error", Value: err.Error()},
			Field{Key: "break_ms", Value: float64(d.Milliseconds())},
		)
	}

	prevReset := config.CircuitBreaker.OnReset
	config.CircuitBreaker.OnReset = func() {
		if prevReset != nil {
			prevReset()
		}
		m.metrics.RecordTransition(ctx, meta, resilience.StateClosed.String())
		logger.Info(ctx, "circuit reset")
	}

	prevHalfOpen := config.CircuitBreaker.OnHalfOpen
	config.CircuitBreaker.OnHalfOpen = func() {
		if prevHalfOpen != nil {
			prevHalfOpen()
		}
		m.metrics.RecordTransition(ctx, meta, resilience.StateHalfOpen.String())
		logger.Info(ctx, "circuit half-open, probing")
	}

	prevFallback := config.Fallback.OnFallback
	config.Fallback.OnFallback = func(err error) {
		if prevFallback != nil {
			prevFallback(err)
		}
		m.metrics.RecordFallback(ctx, meta)
		logger.Warn(ctx, "falling back",
			Field{Key: "error", Value: err.Error()},
		)
	}
}

// Wrap returns a function that runs op through the pipeline inside a span,
// recording execution duration, outcome metrics, and a log line per call.
func (m *Middleware) Wrap(meta PipelineMeta, p *resilience.Pipeline, op func(context.Context) error) func(context.Context) error {
	return func(ctx context.Context) error {
		ctx, span := m.tracer.StartSpan(ctx, meta)
		start := time.Now()

		err := p.Execute(ctx, op)

		duration := time.Since(start)
		m.tracer.EndSpan(span, err)
		m.metrics.RecordExecution(ctx, meta, duration, err)

		logger := m.logger.WithPipeline(meta)
		fields := []Field{
			{Key: "duration_ms", Value: float64(duration.Milliseconds())},
		}
		if err != nil {
			fields = append(fields, Field{Key: "error", Value: err.Error()})
			logger.Error(ctx, "pipeline execution failed", fields...)
		} else {
			logger.Info(ctx, "pipeline execution completed", fields...)
		}

		return err
	}
}

package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records execution metrics for resilience pipelines.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordExecution records one top-level pipeline execution with its
	// duration and final outcome.
	RecordExecution(ctx context.Context, meta PipelineMeta, duration time.Duration, err error)

	// RecordRetry records one retry attempt.
	RecordRetry(ctx context.Context, meta PipelineMeta)

	// RecordTransition records a circuit breaker state transition.
	RecordTransition(ctx context.Context, meta PipelineMeta, to string)

	// RecordFallback records one fallback substitution.
	RecordFallback(ctx context.Context, meta PipelineMeta)
}

// metricsImpl is the concrete implementation of Metrics.
type metricsImpl struct {
	meter           metric.Meter
	totalCount      metric.Int64Counter
	errorCount      metric.Int64Counter
	durationHist    metric.Float64Histogram
	retryCount      metric.Int64Counter
	transitionCount metric.Int64Counter
	fallbackCount   metric.Int64Counter
}

// newMetrics creates a new Metrics instance with the given meter.
func newMetrics(meter metric.Meter) (*metricsImpl, error) {
	totalCount, err := meter.Int64Counter(
		"pipeline.exec.total",
		metric.WithDescription("Total number of pipeline executions"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	errorCount, err := meter.Int64Counter(
		"pipeline.exec.errors",
		metric.WithDescription("Total number of pipeline executions that failed after fallback"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	durationHist, err := meter.Float64Histogram(
		"pipeline.exec.duration_ms",
		metric.WithDescription("Pipeline execution duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	retryCount, err := meter.Int64Counter(
		"pipeline.retry.total",
		metric.WithDescription("Total number of retry attempts"),
		metric.WithUnit("{retry}"),
	)
	if err != nil {
		return nil, err
	}

	transitionCount, err := meter.Int64Counter(
		"pipeline.breaker.transitions",
		metric.WithDescription("Total number of circuit breaker state transitions"),
		metric.WithUnit("{transition}"),
	)
	if err != nil {
		return nil, err
	}

	fallbackCount, err := meter.Int64Counter(
		"pipeline.fallback.total",
		metric.WithDescription("Total number of fallback substitutions"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		meter:           meter,
		totalCount:      totalCount,
		errorCount:      errorCount,
		durationHist:    durationHist,
		retryCount:      retryCount,
		transitionCount: transitionCount,
		fallbackCount:   fallbackCount,
	}, nil
}

func (m *metricsImpl) attrs(meta PipelineMeta) metric.MeasurementOption {
	kv := []attribute.KeyValue{
		attribute.String("pipeline.name", meta.Name),
	}
	if meta.Action != "" {
		kv = append(kv, attribute.String("pipeline.action", meta.Action))
	}
	return metric.WithAttributes(kv...)
}

// RecordExecution records metrics for one pipeline execution.
func (m *metricsImpl) RecordExecution(ctx context.Context, meta PipelineMeta, duration time.Duration, err error) {
	opt := m.attrs(meta)

	m.totalCount.Add(ctx, 1, opt)
	if err != nil {
		m.errorCount.Add(ctx, 1, opt)
	}
	m.durationHist.Record(ctx, float64(duration.Milliseconds()), opt)
}

// RecordRetry records one retry attempt.
func (m *metricsImpl) RecordRetry(ctx context.Context, meta PipelineMeta) {
	m.retryCount.Add(ctx, 1, m.attrs(meta))
}

// RecordTransition records a breaker state transition, labelled with the
// state being entered.
func (m *metricsImpl) RecordTransition(ctx context.Context, meta PipelineMeta, to string) {
	kv := []attribute.KeyValue{
		attribute.String("pipeline.name", meta.Name),
		attribute.String("state", to),
	}
	m.transitionCount.Add(ctx, 1, metric.WithAttributes(kv...))
}

// RecordFallback records one fallback substitution.
func (m *metricsImpl) RecordFallback(ctx context.Context, meta PipelineMeta) {
	m.fallbackCount.Add(ctx, 1, m.attrs(meta))
}

// noopMetrics is a metrics implementation that does nothing.
type noopMetrics struct{}

func (m *noopMetrics) RecordExecution(ctx context.Context, meta PipelineMeta, duration time.Duration, err error) {
}
func (m *noopMetrics) RecordRetry(ctx context.Context, meta PipelineMeta)                 {}
func (m *noopMetrics) RecordTransition(ctx context.Context, meta PipelineMeta, to string) {}
func (m *noopMetrics) RecordFallback(ctx context.Context, meta PipelineMeta)              {}

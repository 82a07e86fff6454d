package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// PipelineMeta contains metadata about a resilience pipeline for telemetry
// purposes.
type PipelineMeta struct {
	Name   string // Pipeline name (required)
	Action string // Name of the protected action (optional)
}

// Validate checks that the metadata carries the required fields.
func (m PipelineMeta) Validate() error {
	if m.Name == "" {
		return ErrMissingPipelineName
	}
	return nil
}

// SpanName returns the deterministic span name for this pipeline.
// Format: pipeline.exec.<name>.<action> or pipeline.exec.<name>
func (m PipelineMeta) SpanName() string {
	if m.Action != "" {
		return "pipeline.exec." + m.Name + "." + m.Action
	}
	return "pipeline.exec." + m.Name
}

// Tracer wraps OpenTelemetry tracing with pipeline-specific span management.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: EndSpan must be best-effort and must not panic.
type Tracer interface {
	// StartSpan starts a new span for pipeline execution.
	StartSpan(ctx context.Context, meta PipelineMeta) (context.Context, trace.Span)

	// EndSpan ends the span, recording any error.
	EndSpan(span trace.Span, err error)
}

// tracerImpl is the concrete implementation of Tracer.
type tracerImpl struct {
	tracer trace.Tracer
}

// newTracer creates a new Tracer wrapping the given OpenTelemetry tracer.
func newTracer(t trace.Tracer) Tracer {
	return &tracerImpl{tracer: t}
}

// StartSpan starts a new span with pipeline metadata as attributes.
func (t *tracerImpl) StartSpan(ctx context.Context, meta PipelineMeta) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{
		attribute.String("pipeline.name", meta.Name),
	}
	if meta.Action != "" {
		attrs = append(attrs, attribute.String("pipeline.action", meta.Action))
	}

	return t.tracer.Start(ctx, meta.SpanName(), trace.WithAttributes(attrs...))
}

// EndSpan ends the span, recording error status if err is non-nil.
func (t *tracerImpl) EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.Bool("pipeline.error", true))
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

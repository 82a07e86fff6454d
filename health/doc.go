// Package health exposes the state of resilience pipelines as health checks.
//
// The package implements a small health checking framework: Checker is any
// component that can report its status, Aggregator combines multiple checkers
// into a composite check, and HTTP handlers expose the results as liveness
// and readiness probes.
//
// # Core Concepts
//
// A Checker reports a Status of Healthy, Degraded, or Unhealthy. The
// BreakerChecker maps circuit breaker states onto these: a closed circuit is
// healthy, a half-open circuit is degraded while the probe is in flight, and
// an open circuit is unhealthy.
//
// # Basic Usage
//
//	pipeline := resilience.NewPipeline(config)
//	check := health.NewPipelineChecker("payment", pipeline)
//
//	result := check.Check(ctx)
//	if result.Status == health.StatusUnhealthy {
//	    log.Printf("payment circuit open: %s", result.Message)
//	}
//
// # Aggregating Health Checks
//
// Use Aggregator to combine checks across pipelines:
//
//	agg := health.NewAggregator()
//	agg.Register("payment", health.NewPipelineChecker("payment", paymentPipe))
//	agg.Register("inventory", health.NewPipelineChecker("inventory", invPipe))
//
//	results := agg.CheckAll(ctx)
//	overall := agg.OverallStatus(results)
//
// # HTTP Endpoints
//
// The package provides HTTP handlers for common health check patterns:
//
//	// Liveness probe (for Kubernetes)
//	http.Handle("/healthz", health.LivenessHandler())
//
//	// Readiness probe backed by breaker state
//	http.Handle("/readyz", health.ReadinessHandler(aggregator))
//
//	// Detailed health status
//	http.Handle("/health", health.DetailedHandler(aggregator))
package health

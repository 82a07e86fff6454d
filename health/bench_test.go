package health

import (
	"context"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/bulwark-go/bulwark/resilience"
)

// BenchmarkBreakerChecker_Check measures the cost of snapshotting a closed
// circuit into a health result.
func BenchmarkBreakerChecker_Check(b *testing.B) {
	checker := NewBreakerChecker("payment", resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{}))
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = checker.Check(ctx)
	}
}

// BenchmarkAggregator_CheckAll measures aggregation across several breakers.
func BenchmarkAggregator_CheckAll(b *testing.B) {
	for _, size := range []int{1, 5, 20} {
		b.Run(fmt.Sprintf("breakers=%d", size), func(b *testing.B) {
			agg := NewAggregator()
			for i := 0; i < size; i++ {
				name := fmt.Sprintf("service%d", i)
				agg.Register(name, NewBreakerChecker(name, resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{})))
			}
			ctx := context.Background()

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_ = agg.CheckAll(ctx)
			}
		})
	}
}

// BenchmarkAggregator_CheckAll_Bounded measures the same aggregation with a
// concurrency limit of one.
func BenchmarkAggregator_CheckAll_Bounded(b *testing.B) {
	agg := NewAggregator(AggregatorConfig{MaxConcurrent: 1})
	for i := 0; i < 5; i++ {
		name := fmt.Sprintf("service%d", i)
		agg.Register(name, NewBreakerChecker(name, resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{})))
	}
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = agg.CheckAll(ctx)
	}
}

// BenchmarkDetailedHandler_ServeHTTP measures the JSON health endpoint with
// breaker-backed checks behind it.
func BenchmarkDetailedHandler_ServeHTTP(b *testing.B) {
	agg := NewAggregator()
	for i := 0; i < 3; i++ {
		name := fmt.Sprintf("service%d", i)
		agg.Register(name, NewBreakerChecker(name, resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{})))
	}

	handler := DetailedHandler(agg)
	req := httptest.NewRequest("GET", "/health", nil)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
	}
}

// BenchmarkReadinessHandler_ServeHTTP measures the readiness endpoint.
func BenchmarkReadinessHandler_ServeHTTP(b *testing.B) {
	agg := NewAggregator()
	agg.Register("payment", NewBreakerChecker("payment", resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{})))

	handler := ReadinessHandler(agg)
	req := httptest.NewRequest("GET", "/readyz", nil)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
	}
}

// BenchmarkConcurrent_Aggregator measures concurrent CheckAll callers, the
// shape a scrape endpoint sees under load.
func BenchmarkConcurrent_Aggregator(b *testing.B) {
	agg := NewAggregator()
	for i := 0; i < 5; i++ {
		name := fmt.Sprintf("service%d", i)
		agg.Register(name, NewBreakerChecker(name, resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{})))
	}
	ctx := context.Background()

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_ = agg.CheckAll(ctx)
		}
	})
}

package health

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bulwark-go/bulwark/resilience"
)

func TestNewAggregator(t *testing.T) {
	agg := NewAggregator()

	if agg.config.Timeout != 10*time.Second {
		t.Errorf("Default timeout = %v, want 10s", agg.config.Timeout)
	}
	if agg.config.MaxConcurrent != 0 {
		t.Errorf("Default MaxConcurrent = %d, want 0 (unlimited)", agg.config.MaxConcurrent)
	}
}

func TestNewAggregator_WithConfig(t *testing.T) {
	agg := NewAggregator(AggregatorConfig{
		Timeout:       5 * time.Second,
		MaxConcurrent: 2,
	})

	if agg.config.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", agg.config.Timeout)
	}
	if agg.config.MaxConcurrent != 2 {
		t.Errorf("MaxConcurrent = %d, want 2", agg.config.MaxConcurrent)
	}
}

func TestAggregator_Register(t *testing.T) {
	agg := NewAggregator()
	agg.Register("payment", NewBreakerChecker("payment", newTestBreaker()))

	names := agg.CheckerNames()
	if len(names) != 1 {
		t.Fatalf("Expected 1 checker, got %d", len(names))
	}
	if names[0] != "payment" {
		t.Errorf("Checker name = %v, want 'payment'", names[0])
	}
}

func TestAggregator_Unregister(t *testing.T) {
	agg := NewAggregator()
	agg.Register("payment", NewBreakerChecker("payment", newTestBreaker()))
	agg.Unregister("payment")

	names := agg.CheckerNames()
	if len(names) != 0 {
		t.Errorf("Expected 0 checkers, got %d", len(names))
	}
}

func TestAggregator_Check(t *testing.T) {
	agg := NewAggregator()
	agg.Register("payment", NewBreakerChecker("payment", newTestBreaker()))

	result, err := agg.Check(context.Background(), "payment")
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}

	if result.Status != StatusHealthy {
		t.Errorf("Result.Status = %v, want StatusHealthy", result.Status)
	}
	if result.Details["state"] != "closed" {
		t.Errorf("Details[state] = %v, want 'closed'", result.Details["state"])
	}
}

func TestAggregator_CheckNotFound(t *testing.T) {
	agg := NewAggregator()

	_, err := agg.Check(context.Background(), "nonexistent")
	if !errors.Is(err, ErrCheckerNotFound) {
		t.Errorf("Check() error = %v, want ErrCheckerNotFound", err)
	}
}

func TestAggregator_CheckTimeout(t *testing.T) {
	agg := NewAggregator(AggregatorConfig{
		Timeout: 50 * time.Millisecond,
	})
	agg.Register("stuck", NewCheckerFunc("stuck", func(ctx context.Context) Result {
		time.Sleep(200 * time.Millisecond)
		return Healthy("circuit closed")
	}))

	result, err := agg.Check(context.Background(), "stuck")
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if result.Status != StatusUnhealthy {
		t.Errorf("Result.Status = %v, want StatusUnhealthy", result.Status)
	}
	if !errors.Is(result.Error, ErrCheckTimeout) {
		t.Errorf("Result.Error = %v, want ErrCheckTimeout", result.Error)
	}
}

func TestAggregator_CheckAll(t *testing.T) {
	closed := newTestBreaker()
	open := newTestBreaker()
	tripTestBreaker(t, open)

	agg := NewAggregator()
	agg.Register("inventory", NewBreakerChecker("inventory", closed))
	agg.Register("payment", NewBreakerChecker("payment", open))

	results := agg.CheckAll(context.Background())

	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}

	if results["inventory"].Status != StatusHealthy {
		t.Errorf("inventory status = %v, want StatusHealthy", results["inventory"].Status)
	}
	if results["payment"].Status != StatusUnhealthy {
		t.Errorf("payment status = %v, want StatusUnhealthy", results["payment"].Status)
	}
	if !errors.Is(results["payment"].Error, resilience.ErrCircuitOpen) {
		t.Errorf("payment error = %v, want ErrCircuitOpen", results["payment"].Error)
	}
}

func TestAggregator_CheckAllEmpty(t *testing.T) {
	agg := NewAggregator()

	results := agg.CheckAll(context.Background())

	if len(results) != 0 {
		t.Errorf("Expected 0 results, got %d", len(results))
	}
}

func TestAggregator_CheckAllBoundedConcurrency(t *testing.T) {
	agg := NewAggregator(AggregatorConfig{
		MaxConcurrent: 1,
	})

	var inFlight, peak atomic.Int64
	check := func(ctx context.Context) Result {
		n := inFlight.Add(1)
		defer inFlight.Add(-1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		return Healthy("circuit closed")
	}
	agg.Register("first", NewCheckerFunc("first", check))
	agg.Register("second", NewCheckerFunc("second", check))
	agg.Register("third", NewCheckerFunc("third", check))

	results := agg.CheckAll(context.Background())

	if len(results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(results))
	}
	if got := peak.Load(); got != 1 {
		t.Errorf("peak concurrency = %d, want 1", got)
	}
}

func TestAggregator_CheckAllTimeout(t *testing.T) {
	agg := NewAggregator(AggregatorConfig{
		Timeout: 50 * time.Millisecond,
	})

	agg.Register("stuck", NewCheckerFunc("stuck", func(ctx context.Context) Result {
		time.Sleep(200 * time.Millisecond)
		return Healthy("circuit closed")
	}))

	results := agg.CheckAll(context.Background())

	if results["stuck"].Status != StatusUnhealthy {
		t.Errorf("stuck status = %v, want StatusUnhealthy", results["stuck"].Status)
	}
	if !errors.Is(results["stuck"].Error, ErrCheckTimeout) {
		t.Errorf("stuck error = %v, want ErrCheckTimeout", results["stuck"].Error)
	}
}

func TestAggregator_OverallStatus(t *testing.T) {
	agg := NewAggregator()

	tests := []struct {
		name    string
		results map[string]Result
		want    Status
	}{
		{
			name:    "empty",
			results: map[string]Result{},
			want:    StatusHealthy,
		},
		{
			name: "all circuits closed",
			results: map[string]Result{
				"payment":   Healthy("circuit closed"),
				"inventory": Healthy("circuit closed"),
			},
			want: StatusHealthy,
		},
		{
			name: "one circuit probing",
			results: map[string]Result{
				"payment":   Healthy("circuit closed"),
				"inventory": Degraded("circuit half-open, probing"),
			},
			want: StatusDegraded,
		},
		{
			name: "one circuit open",
			results: map[string]Result{
				"payment":   Healthy("circuit closed"),
				"inventory": Unhealthy("circuit open", resilience.ErrCircuitOpen),
			},
			want: StatusUnhealthy,
		},
		{
			name: "open overrides probing",
			results: map[string]Result{
				"payment":   Degraded("circuit half-open, probing"),
				"inventory": Unhealthy("circuit open", resilience.ErrCircuitOpen),
			},
			want: StatusUnhealthy,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := agg.OverallStatus(tt.results)
			if got != tt.want {
				t.Errorf("OverallStatus() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAggregator_Checker(t *testing.T) {
	agg := NewAggregator()
	agg.Register("payment", NewBreakerChecker("payment", newTestBreaker()))

	checker := agg.Checker()

	if checker.Name() != "aggregate" {
		t.Errorf("Name() = %v, want 'aggregate'", checker.Name())
	}

	result := checker.Check(context.Background())
	if result.Status != StatusHealthy {
		t.Errorf("Status = %v, want StatusHealthy", result.Status)
	}
	if result.Details == nil {
		t.Error("Details should not be nil")
	}
}

func TestAggregator_CheckerWithOpenCircuit(t *testing.T) {
	cb := newTestBreaker()
	tripTestBreaker(t, cb)

	agg := NewAggregator()
	agg.Register("payment", NewBreakerChecker("payment", cb))

	result := agg.Checker().Check(context.Background())

	if result.Status != StatusUnhealthy {
		t.Errorf("Status = %v, want StatusUnhealthy", result.Status)
	}
	if result.Message != "some checks failed" {
		t.Errorf("Message = %v, want 'some checks failed'", result.Message)
	}
}

func TestAggregator_RegisterDuplicate(t *testing.T) {
	closed := newTestBreaker()
	open := newTestBreaker()
	tripTestBreaker(t, open)

	agg := NewAggregator()
	agg.Register("payment", NewBreakerChecker("payment", open))
	agg.Register("payment", NewBreakerChecker("payment", closed)) // Should replace

	names := agg.CheckerNames()
	if len(names) != 1 {
		t.Errorf("Expected 1 checker after duplicate, got %d", len(names))
	}

	result, _ := agg.Check(context.Background(), "payment")
	if result.Status != StatusHealthy {
		t.Errorf("Status = %v, want StatusHealthy (replacement)", result.Status)
	}
}

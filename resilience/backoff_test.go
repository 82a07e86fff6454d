package resilience

import (
	"math"
	"testing"
	"time"
)

func TestNewBackoff_Defaults(t *testing.T) {
	b := NewBackoff(BackoffConfig{})

	if b.config.BaseDelay != 100*time.Millisecond {
		t.Errorf("BaseDelay = %v, want 100ms", b.config.BaseDelay)
	}
	if b.config.JitterMax != 0 {
		t.Errorf("JitterMax = %v, want 0", b.config.JitterMax)
	}
}

func TestBackoff_NoJitter(t *testing.T) {
	b := NewBackoff(BackoffConfig{BaseDelay: 100 * time.Millisecond})

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{0, 100 * time.Millisecond},
		{1, 200 * time.Millisecond},
		{2, 400 * time.Millisecond},
		{3, 800 * time.Millisecond},
	}

	for _, tt := range tests {
		if got := b.Compute(tt.attempt); got != tt.want {
			t.Errorf("Compute(%d) = %v, want %v", tt.attempt, got, tt.want)
		}
	}
}

func TestBackoff_JitterBounds(t *testing.T) {
	base := 50 * time.Millisecond
	jitterMax := 30 * time.Millisecond
	b := NewBackoff(BackoffConfig{BaseDelay: base, JitterMax: jitterMax})

	for attempt := 0; attempt < 5; attempt++ {
		floor := base << uint(attempt)
		for i := 0; i < 100; i++ {
			got := b.Compute(attempt)
			if got < floor {
				t.Fatalf("Compute(%d) = %v, below floor %v", attempt, got, floor)
			}
			if got >= floor+jitterMax {
				t.Fatalf("Compute(%d) = %v, at or above ceiling %v", attempt, got, floor+jitterMax)
			}
		}
	}
}

func TestBackoff_SaturatesOnOverflow(t *testing.T) {
	b := NewBackoff(BackoffConfig{BaseDelay: 100 * time.Millisecond})

	// 100ms * 2^40 already exceeds the maximum duration.
	for _, attempt := range []int{40, 63, 100} {
		got := b.Compute(attempt)
		if got < 0 {
			t.Errorf("Compute(%d) = %v, overflowed negative", attempt, got)
		}
		if got != math.MaxInt64 {
			t.Errorf("Compute(%d) = %v, want saturated max duration", attempt, got)
		}
	}
}

func TestBackoff_SaturatesWithJitter(t *testing.T) {
	b := NewBackoff(BackoffConfig{
		BaseDelay: 100 * time.Millisecond,
		JitterMax: 30 * time.Millisecond,
	})

	if got := b.Compute(100); got != math.MaxInt64 {
		t.Errorf("Compute(100) = %v, want saturated max duration", got)
	}
}

func TestBackoff_NegativeAttempt(t *testing.T) {
	b := NewBackoff(BackoffConfig{BaseDelay: 100 * time.Millisecond})

	if got := b.Compute(-1); got != 100*time.Millisecond {
		t.Errorf("Compute(-1) = %v, want 100ms", got)
	}
}

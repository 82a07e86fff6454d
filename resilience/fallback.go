package resilience

import (
	"context"
	"errors"
	"fmt"
)

// FallbackConfig configures the fallback policy.
type FallbackConfig struct {
	// Handler is the substitute action invoked when the wrapped operation
	// ultimately fails. Required; if nil, failures propagate unchanged.
	Handler func(ctx context.Context) error

	// OnFallback is called with the inner error before the handler runs.
	// It is not called when Handler is nil, since no substitution happens.
	OnFallback func(err error)
}

// Fallback substitutes a handler for failures propagating out of the inner
// policies.
type Fallback struct {
	config FallbackConfig
}

// NewFallback creates a new fallback handler.
func NewFallback(config FallbackConfig) *Fallback {
	return &Fallback{config: config}
}

// Execute runs the operation, invoking the fallback handler on failure.
//
// Any inner failure, including ErrCircuitOpen and ErrRetriesExhausted, is
// absorbed when the handler succeeds. A handler failure is returned wrapped
// in ErrFallbackFailed; nothing absorbs it.
func (f *Fallback) Execute(ctx context.Context, op func(context.Context) error) error {
	err := op(ctx)
	if err == nil {
		return nil
	}

	// A caller that has gone away gets its context error back; running the
	// substitute action for it would be an orphaned side effect.
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	// No handler, no substitution; the hook must not report one.
	if f.config.Handler == nil {
		return err
	}

	if f.config.OnFallback != nil {
		f.config.OnFallback(err)
	}

	if ferr := f.config.Handler(ctx); ferr != nil {
		return fmt.Errorf("%w: %w", ErrFallbackFailed, ferr)
	}

	return nil
}

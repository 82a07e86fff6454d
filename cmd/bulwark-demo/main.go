// Command bulwark-demo drives a resilience pipeline against a simulated
// flaky backend and exposes its telemetry.
//
// Concurrent workers call one shared pipeline; the protected action fails
// randomly at a configurable rate, so retries, circuit breaking, and
// fallback substitution all fire during a normal run. Prometheus metrics
// are served on /metrics and breaker-backed health probes on /healthz,
// /readyz, and /health.
package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/bulwark-go/bulwark/health"
	"github.com/bulwark-go/bulwark/observe"
	"github.com/bulwark-go/bulwark/resilience"
)

var errBackendDown = errors.New("simulated backend unavailable")

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "bulwark-demo:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	obs, err := observe.NewObserver(ctx, observe.Config{
		ServiceName: "bulwark-demo",
		Version:     "0.1.0",
		Tracing: observe.TracingConfig{
			Enabled:   cfg.TracingExporter != "none",
			Exporter:  cfg.TracingExporter,
			SamplePct: cfg.SamplePct,
		},
		Metrics: observe.MetricsConfig{
			Enabled:  true,
			Exporter: cfg.MetricsExporter,
		},
		Logging: observe.LoggingConfig{
			Enabled: true,
			Level:   cfg.LogLevel,
		},
	})
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = obs.Shutdown(shutdownCtx)
	}()

	mw, err := observe.MiddlewareFromObserver(obs)
	if err != nil {
		return err
	}

	meta := observe.PipelineMeta{Name: "demo", Action: "call-backend"}
	pipeConfig := resilience.PipelineConfig{
		Retry: resilience.RetryConfig{
			MaxRetries: cfg.MaxRetries,
			BaseDelay:  cfg.BaseDelay,
			JitterMax:  cfg.JitterMax,
		},
		CircuitBreaker: resilience.CircuitBreakerConfig{
			FailureThreshold:  cfg.FailureThreshold,
			SamplingDuration:  cfg.SamplingDuration,
			BreakDuration:     cfg.BreakDuration,
			MinimumThroughput: cfg.MinimumThroughput,
		},
		Fallback: resilience.FallbackConfig{
			Handler: func(ctx context.Context) error {
				// Serve the canned response when the backend is gone.
				return nil
			},
		},
	}
	mw.Instrument(meta, &pipeConfig)
	pipeline := resilience.NewPipeline(pipeConfig)

	call := mw.Wrap(meta, pipeline, func(ctx context.Context) error {
		if rand.Float64() < cfg.FailurePct {
			return errBackendDown
		}
		return nil
	})

	agg := health.NewAggregator()
	agg.Register("demo", health.NewPipelineChecker("demo", pipeline))

	mux := http.NewServeMux()
	health.RegisterHandlers(mux, agg)
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger := obs.Logger()
	logger.Info(ctx, "starting demo",
		observe.Field{Key: "addr", Value: cfg.ListenAddr},
		observe.Field{Key: "workers", Value: cfg.Workers},
		observe.Field{Key: "failure_pct", Value: cfg.FailurePct},
	)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	for i := 0; i < cfg.Workers; i++ {
		g.Go(func() error {
			return worker(ctx, call, cfg.CallInterval)
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	logger.Info(context.Background(), "demo stopped")
	return nil
}

// worker calls the pipeline once per tick until the context is cancelled.
// Pipeline errors are already logged and counted by the middleware, so the
// loop keeps going regardless of outcome.
func worker(ctx context.Context, call func(context.Context) error, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			_ = call(ctx)
		}
	}
}

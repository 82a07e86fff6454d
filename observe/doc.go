// Package observe provides telemetry for resilience pipelines.
//
// The resilience package communicates diagnostics exclusively through its
// observer hooks; this package is the standard way to wire those hooks to
// structured logs and OpenTelemetry metrics, and to wrap pipeline execution
// in trace spans.
//
// # Usage
//
//	obs, err := observe.NewObserver(ctx, observe.Config{
//	    ServiceName: "checkout",
//	    Metrics:     observe.MetricsConfig{Enabled: true, Exporter: "prometheus"},
//	    Logging:     observe.LoggingConfig{Enabled: true, Level: "info"},
//	})
//	if err != nil {
//	    return err
//	}
//	defer obs.Shutdown(ctx)
//
//	mw, err := observe.MiddlewareFromObserver(obs)
//	if err != nil {
//	    return err
//	}
//
//	meta := observe.PipelineMeta{Name: "payment", Action: "charge"}
//	config := resilience.PipelineConfig{ /* thresholds, delays, fallback */ }
//	mw.Instrument(meta, &config)
//
//	pipeline := resilience.NewPipeline(config)
//	run := mw.Wrap(meta, pipeline, callPaymentProvider)
//	err = run(ctx)
//
// Instrument fills the configuration's hook fields so every retry, break,
// reset, half-open probe, and fallback is logged and counted; hooks already
// present in the configuration are preserved and called first. Wrap adds a
// span plus an execution log line and duration histogram around each call.
//
// Hooks installed by this package are side-effect-only and never panic; a
// telemetry problem can never alter pipeline control flow.
package observe

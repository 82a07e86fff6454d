package main

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds demo configuration, loaded from BULWARK_* environment
// variables.
type Config struct {
	ListenAddr string `envconfig:"LISTEN_ADDR" default:":8080"`

	// Workload shape.
	Workers      int           `envconfig:"WORKERS" default:"4"`
	CallInterval time.Duration `envconfig:"CALL_INTERVAL" default:"100ms"`
	FailurePct   float64       `envconfig:"FAILURE_PCT" default:"0.35"`

	// Retry policy.
	MaxRetries int           `envconfig:"MAX_RETRIES" default:"3"`
	BaseDelay  time.Duration `envconfig:"BASE_DELAY" default:"50ms"`
	JitterMax  time.Duration `envconfig:"JITTER_MAX" default:"25ms"`

	// Circuit breaker policy.
	FailureThreshold  float64       `envconfig:"FAILURE_THRESHOLD" default:"0.5"`
	SamplingDuration  time.Duration `envconfig:"SAMPLING_DURATION" default:"10s"`
	BreakDuration     time.Duration `envconfig:"BREAK_DURATION" default:"5s"`
	MinimumThroughput int           `envconfig:"MIN_THROUGHPUT" default:"10"`

	// Telemetry.
	LogLevel        string  `envconfig:"LOG_LEVEL" default:"info"`
	MetricsExporter string  `envconfig:"METRICS_EXPORTER" default:"prometheus"`
	TracingExporter string  `envconfig:"TRACING_EXPORTER" default:"none"`
	SamplePct       float64 `envconfig:"SAMPLE_PCT" default:"1.0"`
}

func loadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process("bulwark", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

package observe

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
)

func TestLogger_IncludesPipelineFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", &buf)

	meta := PipelineMeta{Name: "payment", Action: "charge"}
	pipeLogger := logger.WithPipeline(meta)
	pipeLogger.Info(context.Background(), "test message")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse log output as JSON: %v\nOutput: %s", err, buf.String())
	}

	if v, ok := entry["pipeline.name"].(string); !ok || v != "payment" {
		t.Errorf("pipeline.name = %v, want payment", entry["pipeline.name"])
	}
	if v, ok := entry["pipeline.action"].(string); !ok || v != "charge" {
		t.Errorf("pipeline.action = %v, want charge", entry["pipeline.action"])
	}
	if v, ok := entry["msg"].(string); !ok || v != "test message" {
		t.Errorf("msg = %v, want 'test message'", entry["msg"])
	}
}

func TestLogger_IncludesFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", &buf)

	logger.Info(context.Background(), "with fields",
		Field{Key: "attempt", Value: 2},
		Field{Key: "delay_ms", Value: 150.0},
	)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse log output as JSON: %v", err)
	}

	if v, ok := entry["attempt"].(float64); !ok || v != 2 {
		t.Errorf("attempt = %v, want 2", entry["attempt"])
	}
	if v, ok := entry["delay_ms"].(float64); !ok || v != 150.0 {
		t.Errorf("delay_ms = %v, want 150", entry["delay_ms"])
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("warn", &buf)

	logger.Debug(context.Background(), "dropped")
	logger.Info(context.Background(), "dropped too")
	if buf.Len() != 0 {
		t.Errorf("below-level output was written: %s", buf.String())
	}

	logger.Warn(context.Background(), "kept")
	if buf.Len() == 0 {
		t.Error("warn output was not written")
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
	}{
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"error", LevelError},
		{"nonsense", LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLogLevel(tt.in); got != tt.want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

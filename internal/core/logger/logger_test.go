package logger

import (
	"bytes"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"INFO", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"invalid", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New("info", &buf)

	log.Debugw("hidden detail")
	log.Infow("chunk translated", "first", 1, "last", 10)
	log.Sync()

	out := buf.String()
	if strings.Contains(out, "hidden detail") {
		t.Errorf("debug line written at info level: %q", out)
	}
	if !strings.Contains(out, "INFO") || !strings.Contains(out, "chunk translated") {
		t.Errorf("info line missing: %q", out)
	}
	if !strings.Contains(out, `"first": 1`) {
		t.Errorf("fields missing: %q", out)
	}
}

func TestWithRun(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log, id := WithRun(zap.New(core).Sugar())
	if len(id) != 8 {
		t.Errorf("run id = %q, want 8 characters", id)
	}

	log.Info("started")
	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	if got := entries[0].ContextMap()["run"]; got != id {
		t.Errorf("run field = %v, want %q", got, id)
	}

	if _, other := WithRun(log); other == id {
		t.Error("run ids should differ between runs")
	}
}

// Package logger builds the zap logger used for diagnostics.
package logger

import (
	"io"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ParseLevel maps a level name to a zap level. Unknown names mean info.
func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// New returns a console logger writing to w at the given level.
func New(level string, w io.Writer) *zap.SugaredLogger {
	enc := zap.NewDevelopmentEncoderConfig()
	enc.TimeKey = "T"
	enc.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
	enc.EncodeLevel = zapcore.CapitalLevelEncoder
	enc.CallerKey = ""
	enc.StacktraceKey = ""

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(enc),
		zapcore.Lock(zapcore.AddSync(w)),
		zap.NewAtomicLevelAt(ParseLevel(level)),
	)
	return zap.New(core).Sugar()
}

// NewRunID returns a short identifier that tags every log line of one run.
func NewRunID() string {
	return uuid.NewString()[:8]
}

// WithRun tags log with a fresh run ID and returns both.
func WithRun(log *zap.SugaredLogger) (*zap.SugaredLogger, string) {
	id := NewRunID()
	return log.With("run", id), id
}

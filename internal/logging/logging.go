// Package logging provides the single process-wide structured logger used
// by every cmd/* binary. Diagnostics go to stderr only — stdout carries
// exactly one JSON object (or, for UserPromptSubmit, one plain-text
// snapshot) and must never be interleaved with log lines (spec.md §5).
package logging

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	once   sync.Once
	logger *zap.Logger
)

// Init builds the process-wide logger. jsonFormat selects JSON encoding
// (LOG_JSON / HOOK_LOG_JSON) over the human-readable console encoder.
// Safe to call more than once; only the first call takes effect, matching
// the "explicit initialization... must not rely on construction ordering"
// note in spec.md §9.
func Init(jsonFormat bool, debug bool) {
	once.Do(func() {
		level := zapcore.InfoLevel
		if debug {
			level = zapcore.DebugLevel
		}
		encCfg := zap.NewProductionEncoderConfig()
		encCfg.TimeKey = "ts"
		encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

		var encoder zapcore.Encoder
		if jsonFormat {
			encoder = zapcore.NewJSONEncoder(encCfg)
		} else {
			encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
			encoder = zapcore.NewConsoleEncoder(encCfg)
		}

		core := zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), level)
		logger = zap.New(core)
	})
}

// L returns the process-wide logger, initializing a sane default (console,
// info level) if Init was never called.
func L() *zap.Logger {
	if logger == nil {
		Init(false, false)
	}
	return logger
}

// Sync flushes any buffered log entries. Callers should defer it in main;
// errors are deliberately ignored (stderr being a tty commonly fails sync).
func Sync() {
	if logger != nil {
		_ = logger.Sync()
	}
}

// JSONRequested reports whether LOG_JSON or HOOK_LOG_JSON is set truthy.
func JSONRequested() bool {
	for _, k := range []string{"LOG_JSON", "HOOK_LOG_JSON"} {
		if v := os.Getenv(k); v == "1" || v == "true" {
			return true
		}
	}
	return false
}

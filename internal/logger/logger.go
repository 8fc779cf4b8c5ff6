// Package logger wraps zap construction so every binary configures
// structured logging the same way.
package logger

import (
	"fmt"

	"go.uber.org/zap"
)

// Logger carries the shared *zap.Logger for the process.
type Logger struct {
	// Log is the underlying zap logger. Callers must run Init before use.
	Log *zap.Logger
}

// New returns an uninitialized Logger with a no-op zap logger so that
// calling code can defer Sync unconditionally.
func New() *Logger {
	return &Logger{Log: zap.NewNop()}
}

// Init builds a production zap logger at the given level ("Debug", "Info",
// "Warn", "Error") and replaces the no-op logger.
func (l *Logger) Init(level string) error {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return fmt.Errorf("parse log level %q: %w", level, err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = lvl
	log, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	l.Log = log
	return nil
}

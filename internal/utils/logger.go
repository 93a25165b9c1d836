package utils

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a thin leveled logger backed by zap.
type Logger struct {
	s *zap.SugaredLogger
}

// NewLogger creates a logger writing to stderr at the given level
// ("debug", "info", "warn", "error").
func NewLogger(level string) *Logger {
	logger, err := NewLoggerTo(level, "stderr")
	if err != nil {
		return NewNopLogger()
	}
	return logger
}

// NewLoggerTo creates a logger writing to the given paths. The TUI uses this
// to keep log output off the alternate screen; an unwritable path is an
// error, not a silent downgrade.
func NewLoggerTo(level string, paths ...string) (*Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(parseLevel(level))
	cfg.OutputPaths = paths
	cfg.ErrorOutputPaths = paths
	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to open log output: %w", err)
	}
	return &Logger{s: logger.Sugar()}, nil
}

// NewNopLogger returns a logger that discards everything.
func NewNopLogger() *Logger {
	return &Logger{s: zap.NewNop().Sugar()}
}

func parseLevel(level string) zapcore.Level {
	switch level {
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

func (l *Logger) Debugf(format string, args ...any) { l.s.Debugf(format, args...) }
func (l *Logger) Infof(format string, args ...any)  { l.s.Infof(format, args...) }
func (l *Logger) Warnf(format string, args ...any)  { l.s.Warnf(format, args...) }
func (l *Logger) Errorf(format string, args ...any) { l.s.Errorf(format, args...) }

// Sync flushes buffered entries. Call before exit.
func (l *Logger) Sync() {
	_ = l.s.Sync()
}

// Package dlog provides the structured logger used by the host-facing
// CLI; no registry in the module takes or calls a logger. It is
// never called from inside a system's EmitTasks or a builder's mutating
// path: the tick-hot path carries no global mutable state and no
// logging. A small interface backed by zap, plus a no-op implementation
// for tests.
package dlog

import "go.uber.org/zap"

// Logger is the logging contract used across this module.
type Logger interface {
	With(fields ...zap.Field) Logger
	Debug(msg string, fields ...zap.Field)
	Info(msg string, fields ...zap.Field)
	Warn(msg string, fields ...zap.Field)
	Error(msg string, fields ...zap.Field)
	Sync() error
}

type zapLogger struct {
	l *zap.Logger
}

// New returns a production zap-backed logger.
func New() (Logger, error) {
	l, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	return &zapLogger{l: l}, nil
}

func (z *zapLogger) With(fields ...zap.Field) Logger {
	return &zapLogger{l: z.l.With(fields...)}
}

func (z *zapLogger) Debug(msg string, fields ...zap.Field) { z.l.Debug(msg, fields...) }
func (z *zapLogger) Info(msg string, fields ...zap.Field)  { z.l.Info(msg, fields...) }
func (z *zapLogger) Warn(msg string, fields ...zap.Field)  { z.l.Warn(msg, fields...) }
func (z *zapLogger) Error(msg string, fields ...zap.Field) { z.l.Error(msg, fields...) }
func (z *zapLogger) Sync() error                           { return z.l.Sync() }

type noOpLogger struct{}

// NewNoOp returns a logger that discards everything, used in tests and
// anywhere the tick-hot path might otherwise be tempted to log.
func NewNoOp() Logger { return noOpLogger{} }

func (noOpLogger) With(fields ...zap.Field) Logger         { return noOpLogger{} }
func (noOpLogger) Debug(msg string, fields ...zap.Field)    {}
func (noOpLogger) Info(msg string, fields ...zap.Field)     {}
func (noOpLogger) Warn(msg string, fields ...zap.Field)     {}
func (noOpLogger) Error(msg string, fields ...zap.Field)    {}
func (noOpLogger) Sync() error                              { return nil }

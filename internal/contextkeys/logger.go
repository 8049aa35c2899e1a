package contextkeys

import (
	"context"

	"catalog-service/internal/core/port"
)

type loggerKeyType struct{}

var loggerKey = loggerKeyType{}

// ContextWithLogger помещает логгер запроса в контекст
func ContextWithLogger(ctx context.Context, logger port.LoggerPort) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// LoggerFromContext логгер из контекста или no-op, если его нет
func LoggerFromContext(ctx context.Context) port.LoggerPort {
	if logger, ok := ctx.Value(loggerKey).(port.LoggerPort); ok && logger != nil {
		return logger
	}
	return NoopLogger()
}

// NoopLogger логгер, который ничего не пишет. Удобен в тестах.
func NoopLogger() port.LoggerPort {
	return noopLogger{}
}

type noopLogger struct{}

func (noopLogger) Info(string, port.Fields)         {}
func (noopLogger) Warn(string, port.Fields)         {}
func (noopLogger) Error(string, error, port.Fields) {}
func (noopLogger) Debug(string, port.Fields)        {}
func (n noopLogger) WithFields(port.Fields) port.LoggerPort {
	return n
}

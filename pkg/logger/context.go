package logger

import (
	"context"
	"log/slog"
)

type fieldsKey struct{}

// With returns a context carrying fields, appended to any the context already holds.
// Loggers obtained through From or Attach include them.
func With(ctx context.Context, fields ...any) context.Context {
	prev := Fields(ctx)
	merged := make([]any, 0, len(prev)+len(fields))
	merged = append(merged, prev...)
	merged = append(merged, fields...)
	return context.WithValue(ctx, fieldsKey{}, merged)
}

// Fields returns the key/value pairs stored by With.
func Fields(ctx context.Context) []any {
	if ctx == nil {
		return nil
	}
	fields, _ := ctx.Value(fieldsKey{}).([]any)
	return fields
}

// From returns the default logger with the context fields attached.
func From(ctx context.Context) *slog.Logger {
	return Attach(ctx, LoggerWrapper())
}

// Attach returns l with the context fields attached.
func Attach(ctx context.Context, l *slog.Logger) *slog.Logger {
	if l == nil {
		l = LoggerWrapper()
	}
	if fields := Fields(ctx); len(fields) > 0 {
		return l.With(fields...)
	}
	return l
}

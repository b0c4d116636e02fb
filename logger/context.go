package logger

import (
	"context"
	"os"
)

type ctxKey struct{}

var ctxFallbackLogger ILogger = NewConsoleLogger(os.Stdout)

// SetCtxFallbackLogger replaces the logger FromCtx falls back to when the
// context carries none. The process entrypoint calls this once so
// context-free call sites still log through the configured logger.
func SetCtxFallbackLogger(l ILogger) {
	ctxFallbackLogger = l
}

// NewContextWithLogger returns a context carrying l. A context that
// already carries a logger is returned unchanged, so the logger attached
// closest to the request boundary wins.
func NewContextWithLogger(ctx context.Context, l ILogger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if _, ok := ctx.Value(ctxKey{}).(ILogger); ok {
		return ctx
	}
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromCtx returns the logger carried by ctx, or the fallback logger if ctx
// carries none.
//
//nolint:ireturn // ILogger is the package's exported surface
func FromCtx(ctx context.Context) ILogger {
	if l, ok := ctx.Value(ctxKey{}).(ILogger); ok {
		return l
	}
	return ctxFallbackLogger
}

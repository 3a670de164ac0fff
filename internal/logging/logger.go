// Package logging defines the structured logger the server components depend
// on, decoupled from the concrete backend.
package logging

import "context"

// Logger logs leveled, context-aware messages. The variadic args are
// alternating key/value pairs:
//
//	log.Info(ctx, "http request", "method", r.Method, "status", status)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger carrying the given key/value pairs on
	// every record.
	With(args ...any) Logger
}

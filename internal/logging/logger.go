// Package logging defines the structured-logging interface used by the
// bookapi server and tools. The production implementation wraps log/slog.
package logging

import "context"

// Logger is a context-aware, structured logger. Implementations add the
// request ID stored in ctx (see WithRequestID) to every record.
//
// The variadic args are key/value pairs:
//
//	log.Info(ctx, "account registered", "username", name, "id", id)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given pairs.
	With(args ...any) Logger
}

type requestIDKey struct{}

// RequestIDAttr is the key the request ID is logged under.
const RequestIDAttr = "request_id"

// WithRequestID returns a copy of ctx carrying id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the request ID stored in ctx, or "".
func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func withRequestID(ctx context.Context, args []any) []any {
	if id := RequestID(ctx); id != "" {
		return append(args, RequestIDAttr, id)
	}
	return args
}

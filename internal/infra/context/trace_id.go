package context

import (
	"context"
)

const contextKeyTraceID = contextKey("traceID")

// TraceIDFromContext extracts the request trace ID from the context.
// An empty trace ID counts as absent.
func TraceIDFromContext(ctx context.Context) (string, bool) {
	traceID, _ := ctx.Value(contextKeyTraceID).(string)

	return traceID, traceID != ""
}

// WithTraceID creates a new context with the given trace ID value.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, contextKeyTraceID, traceID)
}

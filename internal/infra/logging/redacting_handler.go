package logging

import (
	"context"
	"log/slog"
	"strings"
)

// RedactedValue replaces the value of every sensitive attribute.
const RedactedValue = "[REDACTED]"

//nolint:gochecknoglobals
var sensitiveKeys = map[string]struct{}{
	"password":      {},
	"password_hash": {},
	"passwordhash":  {},
	"token":         {},
	"authorization": {},
	"secret":        {},
	"secret_key":    {},
	"secretkey":     {},
}

// IsSensitiveKey reports whether attributes named key are redacted.
func IsSensitiveKey(key string) bool {
	_, ok := sensitiveKeys[strings.ToLower(key)]

	return ok
}

// RedactingHandler wraps another slog.Handler and replaces the values of
// credential-bearing attributes, including those nested in groups.
type RedactingHandler struct {
	h slog.Handler
}

var _ slog.Handler = (*RedactingHandler)(nil)

// NewRedactingHandler creates a new RedactingHandler wrapping the given handler.
func NewRedactingHandler(h slog.Handler) *RedactingHandler {
	return &RedactingHandler{h: h}
}

// Handle implements slog.Handler.
func (h *RedactingHandler) Handle(ctx context.Context, r slog.Record) error {
	redacted := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)

	r.Attrs(func(a slog.Attr) bool {
		redacted.AddAttrs(redactAttr(a))

		return true
	})

	//nolint:wrapcheck
	return h.h.Handle(ctx, redacted)
}

// WithAttrs implements slog.Handler.WithAttrs.
func (h *RedactingHandler) WithAttrs(attrs []slog.Attr) Handler {
	out := make([]slog.Attr, 0, len(attrs))
	for _, a := range attrs {
		out = append(out, redactAttr(a))
	}

	return NewRedactingHandler(h.h.WithAttrs(out))
}

// WithGroup implements slog.Handler.WithGroup.
func (h *RedactingHandler) WithGroup(name string) Handler {
	return NewRedactingHandler(h.h.WithGroup(name))
}

// Enabled implements slog.Handler.Enabled.
func (h *RedactingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.h.Enabled(ctx, level)
}

func redactAttr(a slog.Attr) slog.Attr {
	if IsSensitiveKey(a.Key) {
		return slog.String(a.Key, RedactedValue)
	}

	a.Value = a.Value.Resolve()

	if a.Value.Kind() != slog.KindGroup {
		return a
	}

	group := a.Value.Group()
	out := make([]slog.Attr, 0, len(group))

	for _, ga := range group {
		out = append(out, redactAttr(ga))
	}

	return slog.Attr{Key: a.Key, Value: slog.GroupValue(out...)}
}

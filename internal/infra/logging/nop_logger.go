package logging

import (
	"context"
	"log/slog"
)

type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (h nopHandler) WithAttrs([]slog.Attr) Handler           { return h }
func (h nopHandler) WithGroup(string) Handler                { return h }

// NewNopLogger creates a logger that discards all output without formatting it.
func NewNopLogger() Logger {
	return slog.New(nopHandler{})
}

package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/pressly/goose/v3"

	"github.com/mkrupp/foro/internal/infra/logging"
)

// GooseLogger forwards goose output to a slog logger.
type GooseLogger struct {
	log logging.Logger
}

var _ goose.Logger = (*GooseLogger)(nil)

// NewGooseLogger creates a goose.Logger writing through log.
func NewGooseLogger(log logging.Logger) *GooseLogger {
	return &GooseLogger{log: log}
}

// Printf implements goose.Logger.
func (l *GooseLogger) Printf(format string, v ...any) {
	l.log.DebugContext(context.Background(), strings.TrimSpace(fmt.Sprintf(format, v...)))
}

// Fatalf implements goose.Logger. It logs and panics instead of exiting the process.
func (l *GooseLogger) Fatalf(format string, v ...any) {
	msg := strings.TrimSpace(fmt.Sprintf(format, v...))
	l.log.ErrorContext(context.Background(), msg)

	panic(msg)
}

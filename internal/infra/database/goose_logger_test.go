package database_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mkrupp/foro/internal/infra/database"
	"github.com/mkrupp/foro/internal/infra/logging"
)

func nopLogger() logging.Logger {
	return logging.NewNopLogger()
}

func TestGooseLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	//nolint:exhaustruct
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	gl := database.NewGooseLogger(log)

	gl.Printf("goose: applied %d migrations\n", 2)
	assert.Contains(t, buf.String(), "goose: applied 2 migrations")

	assert.PanicsWithValue(t, "goose: bad", func() {
		gl.Fatalf("goose: %s", "bad")
	})
}

package database_test

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkrupp/foro/internal/infra/database"
)

func openMemory(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := database.Open(context.Background(), database.Config{
		Driver:      database.DriverSQLite,
		DSN:         ":memory:",
		BusyTimeout: time.Second,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return db
}

func TestOpen_MigratesSchema(t *testing.T) {
	t.Parallel()

	db := openMemory(t)

	var tables []string
	require.NoError(t, db.Select(&tables,
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name IN ('users', 'topics') ORDER BY name"))
	assert.Equal(t, []string{"topics", "users"}, tables)

	var foreignKeys int
	require.NoError(t, db.Get(&foreignKeys, "PRAGMA foreign_keys"))
	assert.Equal(t, 1, foreignKeys)
}

func TestOpen_MigrateIsIdempotent(t *testing.T) {
	t.Parallel()

	db := openMemory(t)

	require.NoError(t, database.Migrate(context.Background(), db, nopLogger()))
}

func TestOpen_CreatesFileDatabaseDir(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "storage", "foro.db")

	//nolint:exhaustruct
	db, err := database.Open(context.Background(), database.Config{
		Driver:      database.DriverSQLite,
		DSN:         path,
		BusyTimeout: time.Second,
	})
	require.NoError(t, err)
	require.NoError(t, db.Close())

	assert.FileExists(t, path)
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	t.Parallel()

	//nolint:exhaustruct
	_, err := database.Open(context.Background(), database.Config{Driver: "oracle", DSN: "x"})
	require.ErrorIs(t, err, database.ErrUnsupportedDriver)
}

func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()

	db := openMemory(t)

	insert := "INSERT INTO users (email, username, password_hash, created_at) VALUES (?, ?, ?, ?)"

	_, err := db.Exec(insert, "a@example.com", "ana", []byte("x"), 1)
	require.NoError(t, err)

	_, err = db.Exec(insert, "a@example.com", "other", []byte("x"), 1)
	require.Error(t, err)
	assert.True(t, database.IsUniqueViolation(err))
	assert.True(t, database.IsUniqueViolation(fmt.Errorf("insert user: %w", err)))

	_, err = db.Exec(
		"INSERT INTO topics (message, created_at, status, author_id, course) VALUES (?, ?, ?, ?, ?)",
		"message body", 1, "ABIERTO", 999, "go",
	)
	require.Error(t, err, "foreign key must be enforced")
	assert.False(t, database.IsUniqueViolation(err))

	assert.True(t, database.IsUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, database.IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, database.IsUniqueViolation(errors.New("boom")))
	assert.False(t, database.IsUniqueViolation(nil))
}

// Package database opens the shared SQL connection pool and keeps its schema
// current with embedded goose migrations.
package database

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/mkrupp/foro/internal/infra/logging"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"

	pgUniqueViolation = "23505"
)

// ErrUnsupportedDriver is returned for drivers other than DriverSQLite and DriverPostgres.
var ErrUnsupportedDriver = errors.New("unsupported database driver")

//go:embed migrations
var migrations embed.FS

//nolint:gochecknoinits
func init() {
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

// Config holds the database connection parameters.
type Config struct {
	// Driver selects the backend: "sqlite" or "pgx"
	Driver string `env:"DRIVER" default:"sqlite"`
	// DSN is the data source name, a file path or ":memory:" for SQLite
	DSN string `env:"DSN" default:"var/storage/foro.db"`

	// BusyTimeout is how long SQLite waits on a locked database
	BusyTimeout time.Duration `env:"BUSY_TIMEOUT" default:"5s"`

	MaxOpenConns    int           `env:"MAX_OPEN_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `env:"CONN_MAX_LIFETIME" default:"5m"`
}

// Open connects to the configured database, verifies the connection and
// applies all pending migrations.
// SQLite runs on a single connection, which serializes writes and lets
// ":memory:" databases be shared by all callers of the pool.
func Open(ctx context.Context, cfg Config) (_ *sqlx.DB, err error) {
	log := logging.GetLogger("infra.database").With(logging.Group("db", "driver", cfg.Driver))

	defer func() {
		if err != nil {
			log.ErrorContext(ctx, "open database failed", "error", err)
		} else {
			log.DebugContext(ctx, "database opened")
		}
	}()

	var dsn string

	switch cfg.Driver {
	case DriverSQLite:
		if err := ensureSQLiteDir(cfg.DSN); err != nil {
			return nil, err
		}

		dsn = sqliteDSN(cfg)
	case DriverPostgres:
		dsn = cfg.DSN
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, cfg.Driver)
	}

	db, err := sqlx.Open(cfg.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if cfg.Driver == DriverSQLite {
		db.SetMaxOpenConns(1)
		db.SetConnMaxLifetime(0)
	} else {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("ping db: %w", err)
	}

	if err := Migrate(ctx, db, log); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Migrate applies the embedded migrations for the driver of db.
func Migrate(ctx context.Context, db *sqlx.DB, log logging.Logger) error {
	var (
		dialect goose.Dialect
		dir     string
	)

	switch db.DriverName() {
	case DriverSQLite:
		dialect, dir = goose.DialectSQLite3, "migrations/sqlite"
	case DriverPostgres:
		dialect, dir = goose.DialectPostgres, "migrations/postgres"
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedDriver, db.DriverName())
	}

	fsys, err := fs.Sub(migrations, dir)
	if err != nil {
		return fmt.Errorf("sub fs: %w", err)
	}

	provider, err := goose.NewProvider(dialect, db.DB, fsys, goose.WithLogger(NewGooseLogger(log)))
	if err != nil {
		return fmt.Errorf("new provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("up: %w", err)
	}

	for _, result := range results {
		log.InfoContext(ctx, "migration applied", logging.Group("migration",
			"version", result.Source.Version,
			"path", result.Source.Path,
			"duration", result.Duration,
		))
	}

	return nil
}

// IsUniqueViolation reports whether err was caused by a unique or primary key
// constraint of either backend.
func IsUniqueViolation(err error) bool {
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3.SQLITE_CONSTRAINT_UNIQUE:
			return true
		default:
			return false
		}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}

	return false
}

// ensureSQLiteDir creates the directory of a file database.
func ensureSQLiteDir(dsn string) error {
	path, _, _ := strings.Cut(dsn, "?")
	if path == "" || strings.HasPrefix(path, ":memory:") || strings.HasPrefix(path, "file:") {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create database dir: %w", err)
	}

	return nil
}

func sqliteDSN(cfg Config) string {
	params := url.Values{}
	params.Add("_pragma", "busy_timeout("+strconv.FormatInt(cfg.BusyTimeout.Milliseconds(), 10)+")")
	params.Add("_pragma", "foreign_keys(1)")

	sep := "?"
	if strings.Contains(cfg.DSN, "?") {
		sep = "&"
	}

	return cfg.DSN + sep + params.Encode()
}

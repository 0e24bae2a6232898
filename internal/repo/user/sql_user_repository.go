package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/mkrupp/foro/internal/domain"
	"github.com/mkrupp/foro/internal/infra/database"
	"github.com/mkrupp/foro/internal/infra/logging"
)

const userColumns = "id, email, username, password_hash, created_at"

type userRow struct {
	ID           int64  `db:"id"`
	Email        string `db:"email"`
	Username     string `db:"username"`
	PasswordHash []byte `db:"password_hash"`
	CreatedAt    int64  `db:"created_at"`
}

func (r userRow) toDomain() domain.User {
	return domain.User{
		ID:           r.ID,
		Email:        r.Email,
		Username:     r.Username,
		PasswordHash: r.PasswordHash,
		CreatedAt:    time.UnixMilli(r.CreatedAt).UTC(),
	}
}

// SQLUserRepository implements Repository on a shared sqlx pool.
// It works with every driver supported by the database package.
type SQLUserRepository struct {
	db  *sqlx.DB
	log logging.Logger
	now func() time.Time
}

var _ Repository = (*SQLUserRepository)(nil)

// SQLUserRepositoryFactory creates a factory function that returns a new SQLUserRepository.
// The factory function implements the RepositoryFactory type.
func SQLUserRepositoryFactory(db *sqlx.DB) RepositoryFactory {
	return func() (Repository, error) {
		return NewSQLUserRepository(db), nil
	}
}

// NewSQLUserRepository creates a new SQLUserRepository on the given pool.
// The schema is expected to be migrated by database.Open.
func NewSQLUserRepository(db *sqlx.DB) *SQLUserRepository {
	return &SQLUserRepository{
		db:  db,
		log: logging.GetLogger("repo.user.sql_user_repository"),
		now: time.Now,
	}
}

// CreateUser implements Repository.CreateUser.
func (r *SQLUserRepository) CreateUser(ctx context.Context, user domain.User) (_ domain.User, err error) {
	defer func() {
		if err != nil && !errors.Is(err, domain.ErrUserAlreadyExists) {
			r.log.ErrorContext(ctx, "create user failed", "error", err)
		}
	}()

	createdAt := r.now().UTC().Truncate(time.Millisecond)

	var id int64

	err = r.db.QueryRowxContext(ctx, r.db.Rebind(
		"INSERT INTO users (email, username, password_hash, created_at) VALUES (?, ?, ?, ?) RETURNING id",
	),
		user.Email,
		user.Username,
		user.PasswordHash,
		createdAt.UnixMilli(),
	).Scan(&id)
	if err != nil {
		if database.IsUniqueViolation(err) {
			err = errors.Join(domain.ErrUserAlreadyExists, err)
		}

		return domain.User{}, fmt.Errorf("insert user: %w", err)
	}

	user.ID = id
	user.CreatedAt = createdAt

	return user, nil
}

// GetUserByEmail implements Repository.GetUserByEmail.
func (r *SQLUserRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, bool, error) {
	return r.getUser(ctx, "email = ?", email)
}

// GetUserByID implements Repository.GetUserByID.
func (r *SQLUserRepository) GetUserByID(ctx context.Context, id int64) (*domain.User, bool, error) {
	return r.getUser(ctx, "id = ?", id)
}

func (r *SQLUserRepository) getUser(ctx context.Context, where string, arg any) (*domain.User, bool, error) {
	var row userRow

	err := r.db.GetContext(ctx, &row, r.db.Rebind("SELECT "+userColumns+" FROM users WHERE "+where), arg)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}

		return nil, false, fmt.Errorf("query user: %w", err)
	}

	user := row.toDomain()

	return &user, true, nil
}

// ListUsers implements Repository.ListUsers.
func (r *SQLUserRepository) ListUsers(ctx context.Context) ([]domain.User, error) {
	var rows []userRow

	if err := r.db.SelectContext(ctx, &rows, "SELECT "+userColumns+" FROM users ORDER BY id"); err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}

	users := make([]domain.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, row.toDomain())
	}

	return users, nil
}

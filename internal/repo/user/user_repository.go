package user

import (
	"context"

	"github.com/mkrupp/foro/internal/domain"
)

// Repository defines the interface for user data persistence.
type Repository interface {
	// CreateUser adds a new user to the repository and returns it with its assigned ID.
	// Returns ErrUserAlreadyExists if the email or username is already taken.
	CreateUser(ctx context.Context, user domain.User) (domain.User, error)

	// GetUserByEmail retrieves a user by their email.
	// Returns the user object and true if found, or nil and false if not found.
	// Returns an error only if the operation fails.
	GetUserByEmail(ctx context.Context, email string) (*domain.User, bool, error)

	// GetUserByID retrieves a user by their ID, with the same contract as GetUserByEmail.
	GetUserByID(ctx context.Context, id int64) (*domain.User, bool, error)

	// ListUsers returns all users ordered by ID.
	ListUsers(ctx context.Context) ([]domain.User, error)
}

// RepositoryFactory is a function that creates a new Repository instance.
// Returns an error if initialization fails.
type RepositoryFactory func() (Repository, error)

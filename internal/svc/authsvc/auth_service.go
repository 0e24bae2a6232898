package authsvc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mkrupp/foro/internal/domain"
	"github.com/mkrupp/foro/internal/infra/logging"
	"github.com/mkrupp/foro/internal/repo/user"
	"github.com/mkrupp/foro/internal/svc/authsvc/authclient"
)

// AuthConfig contains configuration parameters for the authentication service.
type AuthConfig struct {
	// SecretKey signs and verifies tokens; at least MinSecretKeyBytes long.
	// Changing it invalidates every issued token.
	SecretKey string `env:"SECRET_KEY"`

	// TokenTTL is the validity duration of auth tokens
	TokenTTL time.Duration `env:"TOKEN_TTL" default:"1h"`

	// BcryptCost is the work factor of password digests
	BcryptCost int `env:"BCRYPT_COST" default:"10"`

	// Issuer is written into and required from every token
	Issuer string `env:"ISSUER" default:"foro"`
}

// AuthService provides authentication and user management functionality.
// It handles user registration, login, and token authentication.
type AuthService struct {
	Config   AuthConfig
	UserRepo user.Repository
	Hasher   PasswordHasher
	Tokens   interface {
		TokenIssuer
		TokenValidator
	}
	Log logging.Logger

	// compared against when the email is unknown, so that both login
	// failures cost one bcrypt comparison
	dummyDigest []byte
}

var _ authclient.Authenticator = (*AuthService)(nil)

// NewAuthService creates a new AuthService with the given user repository factory and configuration.
// Returns an error if the secret key is unusable or the user repository cannot be created.
func NewAuthService(repoFactory user.RepositoryFactory, cfg AuthConfig) (*AuthService, error) {
	log := logging.GetLogger("svc.authsvc.auth_service")

	tokens, err := NewJWTTokenService([]byte(cfg.SecretKey), cfg.Issuer)
	if err != nil {
		return nil, fmt.Errorf("new token service: %w", err)
	}

	userRepo, err := repoFactory()
	if err != nil {
		return nil, fmt.Errorf("new user repo: %w", err)
	}

	svc := &AuthService{
		Config:      cfg,
		UserRepo:    userRepo,
		Hasher:      NewBcryptPasswordHasher(cfg.BcryptCost),
		Tokens:      tokens,
		Log:         log,
		dummyDigest: nil,
	}

	if err := svc.init(); err != nil {
		return nil, err
	}

	return svc, nil
}

func (s *AuthService) init() error {
	digest, err := s.Hasher.Hash("not a password of anyone")
	if err != nil {
		return fmt.Errorf("hash dummy password: %w", err)
	}

	s.dummyDigest = digest

	return nil
}

// Register validates the signup request, hashes the password and stores the new user.
// Returns an error matching domain.ErrValidation for malformed input and
// domain.ErrUserAlreadyExists if the email or username is taken.
func (s *AuthService) Register(ctx context.Context, req domain.SignupRequest) (_ domain.User, err error) {
	log := s.Log

	defer func() {
		if err != nil {
			log.ErrorContext(ctx, "register user failed", "error", err)
		} else {
			log.DebugContext(ctx, "user registered")
		}
	}()

	if err := req.Validate(); err != nil {
		return domain.User{}, err
	}

	passwordHash, err := s.Hasher.Hash(req.Password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	//nolint:exhaustruct
	created, err := s.UserRepo.CreateUser(ctx, domain.User{
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: passwordHash,
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}

	log = log.With(logging.Group("user", "id", created.ID))

	return created, nil
}

// Login verifies the credentials and issues a signed token for the user's email.
// An unknown email and a wrong password both return domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, req domain.LoginRequest) (_ domain.AuthTokenResponse, err error) {
	log := s.Log

	defer func() {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials), errors.Is(err, domain.ErrValidation):
			log.DebugContext(ctx, "login rejected", "error", err)
		case err != nil:
			log.ErrorContext(ctx, "login failed", "error", err)
		default:
			log.DebugContext(ctx, "login successful")
		}
	}()

	if err := req.Validate(); err != nil {
		return domain.AuthTokenResponse{}, err
	}

	// Authenticate user
	found, ok, err := s.UserRepo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return domain.AuthTokenResponse{}, fmt.Errorf("get user: %w", err)
	} else if !ok {
		_ = s.Hasher.Verify(req.Password, s.dummyDigest)

		return domain.AuthTokenResponse{}, domain.ErrInvalidCredentials
	}

	principal := PrincipalOf(*found)

	if !s.Hasher.Verify(req.Password, principal.PasswordDigest()) {
		return domain.AuthTokenResponse{}, domain.ErrInvalidCredentials
	}

	log = log.With(logging.Group("user", "id", found.ID))

	// Generate token
	token, expiresAt, err := s.Tokens.IssueToken(principal.Subject(), s.Config.TokenTTL)
	if err != nil {
		return domain.AuthTokenResponse{}, fmt.Errorf("issue token: %w", err)
	}

	log = log.With(logging.Group("token", "exp", expiresAt.UTC().Format(time.RFC3339)))

	return domain.AuthTokenResponse{
		Token:           token,
		ExpiresInMillis: s.Config.TokenTTL.Milliseconds(),
	}, nil
}

// Authenticate implements authclient.Authenticator. It validates the token and
// resolves its subject to the stored user.
// Invalid or expired tokens and subjects that no longer exist return an error
// matching domain.ErrUnauthenticated. Storage faults are returned as they are.
func (s *AuthService) Authenticate(ctx context.Context, token string) (_ domain.User, err error) {
	log := s.Log

	defer func() {
		if err != nil && !errors.Is(err, domain.ErrUnauthenticated) {
			log.ErrorContext(ctx, "authenticate failed", "error", err)
		} else if err != nil {
			log.DebugContext(ctx, "token rejected", "error", err)
		}
	}()

	subject, err := s.Tokens.ValidateToken(token)
	if err != nil {
		return domain.User{}, errors.Join(domain.ErrUnauthenticated, err)
	}

	found, ok, err := s.UserRepo.GetUserByEmail(ctx, subject)
	if err != nil {
		return domain.User{}, fmt.Errorf("get user: %w", err)
	} else if !ok {
		return domain.User{}, errors.Join(domain.ErrUnauthenticated, domain.ErrUserNotFound)
	}

	return *found, nil
}

// GetUser returns the user with the given ID or an error matching domain.ErrUserNotFound.
func (s *AuthService) GetUser(ctx context.Context, id int64) (domain.User, error) {
	found, ok, err := s.UserRepo.GetUserByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("get user: %w", err)
	} else if !ok {
		return domain.User{}, fmt.Errorf("user %d: %w", id, domain.ErrUserNotFound)
	}

	return *found, nil
}

// ListUsers returns all registered users.
func (s *AuthService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.UserRepo.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	return users, nil
}

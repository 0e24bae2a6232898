package domain

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

var (
	// ErrUserAlreadyExists is returned when trying to create a user with an existing email or username.
	ErrUserAlreadyExists = errors.New("user already exists")
	// ErrUserNotFound is returned when looking up a non-existent user.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidCredentials is returned when the email/password combination is incorrect.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// MaxPasswordBytes is the largest password bcrypt will accept.
const MaxPasswordBytes = 72

// User represents a registered identity.
type User struct {
	ID           int64     // Unique identifier
	Email        string    // Unique login key, case-sensitive as stored
	Username     string    // Unique display name
	PasswordHash []byte    // Hashed password
	CreatedAt    time.Time // Time of registration
}

// SignupRequest carries the credentials presented at registration.
type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"nombreUsuario"`
}

// Validate checks presence and bounds of all signup fields.
func (r SignupRequest) Validate() error {
	return validationError(validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, validation.Length(2, 100), is.Email),
		validation.Field(&r.Password,
			validation.Required,
			validation.Length(8, 100),
			validation.By(maxBytes(MaxPasswordBytes)),
		),
		validation.Field(&r.Username, validation.Required, validation.Length(2, 100)),
	))
}

// LoginRequest carries the credentials presented at login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks that both credentials are present.
func (r LoginRequest) Validate() error {
	return validationError(validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required),
		validation.Field(&r.Password, validation.Required),
	))
}

// UserResponse is the public representation of a user. It never includes the password hash.
type UserResponse struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Username string `json:"nombreUsuario"`
}

// NewUserResponse converts a User into its public representation.
func NewUserResponse(user User) UserResponse {
	return UserResponse{
		ID:       user.ID,
		Email:    user.Email,
		Username: user.Username,
	}
}

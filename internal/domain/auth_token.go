package domain

import "errors"

var (
	// ErrNoAuthToken is returned when an authentication token is required but not provided.
	ErrNoAuthToken = errors.New("no auth token")
	// ErrInvalidAuthToken is returned when a token is malformed or its signature does not verify.
	ErrInvalidAuthToken = errors.New("invalid auth token")
	// ErrExpiredAuthToken is returned when a token has a valid signature but is past its expiry.
	ErrExpiredAuthToken = errors.New("expired auth token")
	// ErrUnauthenticated is returned when a request carries no usable identity.
	ErrUnauthenticated = errors.New("unauthenticated")
)

// AuthTokenResponse represents a response containing an authentication token.
type AuthTokenResponse struct {
	Token           string `json:"token"`
	ExpiresInMillis int64  `json:"expiresInMillis"`
}

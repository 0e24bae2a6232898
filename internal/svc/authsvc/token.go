package authsvc

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mkrupp/foro/internal/domain"
)

// MinSecretKeyBytes is the shortest accepted HS256 secret.
const MinSecretKeyBytes = 32

// ErrSecretKeyTooShort is returned when the signing secret has fewer than MinSecretKeyBytes bytes.
var ErrSecretKeyTooShort = errors.New("secret key too short")

// TokenIssuer creates signed, time-bounded tokens for a subject.
type TokenIssuer interface {
	IssueToken(subject string, ttl time.Duration) (token string, expiresAt time.Time, err error)
}

// TokenValidator checks signature and expiry of a token and recovers its subject.
type TokenValidator interface {
	ValidateToken(token string) (subject string, err error)
}

// JWTTokenService implements TokenIssuer and TokenValidator with HS256 JWTs
// carrying sub, iat, exp and iss claims.
type JWTTokenService struct {
	secret []byte
	issuer string
	now    func() time.Time
}

var (
	_ TokenIssuer    = (*JWTTokenService)(nil)
	_ TokenValidator = (*JWTTokenService)(nil)
)

// NewJWTTokenService creates a token service signing with secret.
// Tokens are stamped with issuer and only tokens from the same issuer validate.
func NewJWTTokenService(secret []byte, issuer string) (*JWTTokenService, error) {
	if len(secret) < MinSecretKeyBytes {
		return nil, fmt.Errorf("%w: %d bytes, need %d", ErrSecretKeyTooShort, len(secret), MinSecretKeyBytes)
	}

	return &JWTTokenService{
		secret: secret,
		issuer: issuer,
		now:    time.Now,
	}, nil
}

// WithClock returns a copy of the service that reads the current time from now.
func (s *JWTTokenService) WithClock(now func() time.Time) *JWTTokenService {
	clone := *s
	clone.now = now

	return &clone
}

// IssueToken implements TokenIssuer.IssueToken.
// A non-positive ttl yields a token that is already expired.
func (s *JWTTokenService) IssueToken(subject string, ttl time.Duration) (string, time.Time, error) {
	now := s.now()
	issuedAt := jwt.NewNumericDate(now)
	expiresAt := jwt.NewNumericDate(now.Add(ttl))

	//nolint:exhaustruct
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    s.issuer,
		IssuedAt:  issuedAt,
		ExpiresAt: expiresAt,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}

	return token, expiresAt.Time, nil
}

// ValidateToken implements TokenValidator.ValidateToken.
// The signature is verified before any claim is looked at; a bad signature
// yields domain.ErrInvalidAuthToken whatever the token claims. A good
// signature past its expiry yields domain.ErrExpiredAuthToken.
func (s *JWTTokenService) ValidateToken(token string) (string, error) {
	var claims jwt.RegisteredClaims

	parsed, err := jwt.ParseWithClaims(token, &claims,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return "", errors.Join(domain.ErrInvalidAuthToken, err)
	} else if !parsed.Valid {
		return "", domain.ErrInvalidAuthToken
	}

	if claims.ExpiresAt == nil {
		return "", fmt.Errorf("%w: no expiry", domain.ErrInvalidAuthToken)
	}

	if !s.now().Before(claims.ExpiresAt.Time) {
		return "", domain.ErrExpiredAuthToken
	}

	if claims.Subject == "" {
		return "", fmt.Errorf("%w: no subject", domain.ErrInvalidAuthToken)
	}

	if claims.Issuer != s.issuer {
		return "", fmt.Errorf("%w: issuer %q", domain.ErrInvalidAuthToken, claims.Issuer)
	}

	return claims.Subject, nil
}

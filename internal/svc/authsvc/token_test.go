package authsvc_test

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkrupp/foro/internal/domain"
	"github.com/mkrupp/foro/internal/svc/authsvc"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTokenService(t *testing.T, now time.Time) *authsvc.JWTTokenService {
	t.Helper()

	tokens, err := authsvc.NewJWTTokenService([]byte(testSecret), "foro")
	require.NoError(t, err)

	return tokens.WithClock(func() time.Time { return now })
}

func TestJWTTokenService_RoundTrip(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	tokens := newTokenService(t, now)

	token, expiresAt, err := tokens.IssueToken("alice@example.com", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, now.Add(time.Hour), expiresAt)

	subject, err := tokens.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", subject)
}

func TestJWTTokenService_Expiry(t *testing.T) {
	t.Parallel()

	issued := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	token, _, err := newTokenService(t, issued).IssueToken("alice@example.com", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name    string
		now     time.Time
		wantErr error
	}{
		{name: "just issued", now: issued},
		{name: "one second before expiry", now: issued.Add(time.Hour - time.Second)},
		{name: "at expiry", now: issued.Add(time.Hour), wantErr: domain.ErrExpiredAuthToken},
		{name: "long after expiry", now: issued.Add(48 * time.Hour), wantErr: domain.ErrExpiredAuthToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := newTokenService(t, tt.now).ValidateToken(token)
			if tt.wantErr == nil {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, tt.wantErr)
				assert.NotErrorIs(t, err, domain.ErrInvalidAuthToken)
			}
		})
	}
}

func TestJWTTokenService_NonPositiveTTL(t *testing.T) {
	t.Parallel()

	tokens := newTokenService(t, time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))

	for _, ttl := range []time.Duration{0, -time.Minute} {
		token, _, err := tokens.IssueToken("alice@example.com", ttl)
		require.NoError(t, err)

		_, err = tokens.ValidateToken(token)
		require.ErrorIs(t, err, domain.ErrExpiredAuthToken)
	}
}

func TestJWTTokenService_Tampered(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	tokens := newTokenService(t, now)

	token, _, err := tokens.IssueToken("alice@example.com", -time.Hour)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)

	// same signature, payload claims another subject and a far expiry
	forgedPayload := base64.RawURLEncoding.EncodeToString(
		[]byte(`{"iss":"foro","sub":"mallory@example.com","exp":4102444800,"iat":1740830400}`))
	forged := parts[0] + "." + forgedPayload + "." + parts[2]

	_, err = tokens.ValidateToken(forged)
	require.ErrorIs(t, err, domain.ErrInvalidAuthToken)
	assert.NotErrorIs(t, err, domain.ErrExpiredAuthToken)
}

func TestJWTTokenService_Rejects(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	exp := jwt.NewNumericDate(now.Add(time.Hour))

	sign := func(method jwt.SigningMethod, key any, claims jwt.Claims) string {
		t.Helper()

		token, err := jwt.NewWithClaims(method, claims).SignedString(key)
		require.NoError(t, err)

		return token
	}

	otherSecret := []byte("ffffffffffffffffffffffffffffffff")

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not-a-token"},
		{name: "empty", token: ""},
		{
			name: "other secret",
			//nolint:exhaustruct
			token: sign(jwt.SigningMethodHS256, otherSecret, jwt.RegisteredClaims{Subject: "a", Issuer: "foro", ExpiresAt: exp}),
		},
		{
			name: "other algorithm",
			//nolint:exhaustruct
			token: sign(jwt.SigningMethodHS512, []byte(testSecret), jwt.RegisteredClaims{Subject: "a", Issuer: "foro", ExpiresAt: exp}),
		},
		{
			name: "unsigned",
			//nolint:exhaustruct
			token: sign(jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, jwt.RegisteredClaims{Subject: "a", Issuer: "foro", ExpiresAt: exp}),
		},
		{
			name: "other issuer",
			//nolint:exhaustruct
			token: sign(jwt.SigningMethodHS256, []byte(testSecret), jwt.RegisteredClaims{Subject: "a", Issuer: "elsewhere", ExpiresAt: exp}),
		},
		{
			name: "no expiry",
			//nolint:exhaustruct
			token: sign(jwt.SigningMethodHS256, []byte(testSecret), jwt.RegisteredClaims{Subject: "a", Issuer: "foro"}),
		},
		{
			name: "no subject",
			//nolint:exhaustruct
			token: sign(jwt.SigningMethodHS256, []byte(testSecret), jwt.RegisteredClaims{Issuer: "foro", ExpiresAt: exp}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := newTokenService(t, now).ValidateToken(tt.token)
			require.ErrorIs(t, err, domain.ErrInvalidAuthToken)
		})
	}
}

func TestJWTTokenService_SecretRotation(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	token, _, err := newTokenService(t, now).IssueToken("alice@example.com", time.Hour)
	require.NoError(t, err)

	rotated, err := authsvc.NewJWTTokenService([]byte("a-completely-different-secret-key"), "foro")
	require.NoError(t, err)

	_, err = rotated.WithClock(func() time.Time { return now }).ValidateToken(token)
	require.ErrorIs(t, err, domain.ErrInvalidAuthToken)
}

func TestNewJWTTokenService_ShortSecret(t *testing.T) {
	t.Parallel()

	_, err := authsvc.NewJWTTokenService([]byte("short"), "foro")
	require.ErrorIs(t, err, authsvc.ErrSecretKeyTooShort)
}

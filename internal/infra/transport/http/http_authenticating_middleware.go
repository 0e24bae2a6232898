package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/mkrupp/foro/internal/domain"
	context_ "github.com/mkrupp/foro/internal/infra/context"
	"github.com/mkrupp/foro/internal/infra/logging"
	"github.com/mkrupp/foro/internal/svc/authsvc/authclient"
)

const (
	// AuthorizationHeader is the request header carrying the bearer token.
	AuthorizationHeader = authclient.AuthorizationHeader

	bearerScheme = "bearer"
)

// AuthenticatingMiddleware creates middleware that resolves the bearer token of
// each request into an authenticated identity.
// Requests without a bearer token, or with a token the Authenticator rejects,
// are answered with 401. Storage faults during resolution are answered with 500.
// On success the identity is added to the request context.
func AuthenticatingMiddleware(
	next http.Handler,
	authenticator authclient.Authenticator,
	log logging.Logger,
) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := BearerToken(r)
		if !ok {
			log.WarnContext(r.Context(), "no bearer token provided")
			WriteError(w, errors.Join(domain.ErrUnauthenticated, domain.ErrNoAuthToken))

			return
		}

		user, err := authenticator.Authenticate(r.Context(), token)
		if err != nil {
			if errors.Is(err, domain.ErrUnauthenticated) {
				log.WarnContext(r.Context(), "authentication failed", "error", err)
			} else {
				log.ErrorContext(r.Context(), "authenticate failed", "error", err)
			}

			WriteError(w, err)

			return
		}

		next.ServeHTTP(w, r.WithContext(context_.WithIdentity(r.Context(), user)))
	})
}

// Authenticating adapts AuthenticatingMiddleware to the func(http.Handler) http.Handler
// form used by chi.Router.Use.
func Authenticating(authenticator authclient.Authenticator, log logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return AuthenticatingMiddleware(next, authenticator, log)
	}
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
// The scheme is matched case-insensitively.
func BearerToken(r *http.Request) (string, bool) {
	header := strings.TrimSpace(r.Header.Get(AuthorizationHeader))
	if header == "" {
		return "", false
	}

	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, bearerScheme) {
		return "", false
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}

	return token, true
}

package authclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/mkrupp/foro/internal/domain"
	context_ "github.com/mkrupp/foro/internal/infra/context"
	"github.com/mkrupp/foro/internal/infra/logging"
)

const (
	// TraceIDHeader carries the request trace ID between services.
	TraceIDHeader = "X-Request-ID"
	// AuthorizationHeader carries the bearer token.
	AuthorizationHeader = "Authorization"
)

// ErrUnexpectedStatus is returned when the remote service answers with neither 200 nor 401.
var ErrUnexpectedStatus = errors.New("unexpected status")

// HTTPClientConfig holds configuration for the HTTP auth client.
type HTTPClientConfig struct {
	// IdentityURL is the endpoint returning the caller's identity for a bearer token,
	// e.g. http://forum:8080/users/me. Empty disables the client.
	IdentityURL string `env:"IDENTITY_URL" default:""`
	// Timeout bounds each identity request
	Timeout time.Duration `env:"TIMEOUT" default:"5s"`
}

// HTTPClient implements Authenticator by asking a remote forum service who the
// bearer of a token is. It lets other services accept the forum's tokens
// without sharing its secret.
type HTTPClient struct {
	httpClient *http.Client
	log        logging.Logger
	cfg        HTTPClientConfig
}

var _ Authenticator = (*HTTPClient)(nil)

// Enabled reports whether an identity endpoint is configured.
func (cfg HTTPClientConfig) Enabled() bool {
	return cfg.IdentityURL != ""
}

// NewHTTPClient creates a new HTTPClient with the given configuration.
// If httpClient is nil, a client with the configured timeout is used.
func NewHTTPClient(
	cfg HTTPClientConfig,
	httpClient *http.Client,
) *HTTPClient {
	if httpClient == nil {
		//nolint:exhaustruct
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &HTTPClient{
		httpClient: httpClient,
		log:        logging.GetLogger("svc.authsvc.http_client"),
		cfg:        cfg,
	}
}

type identityResponse struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Username string `json:"nombreUsuario"`
}

// Authenticate implements Authenticator.Authenticate by requesting the configured
// identity endpoint with the token as bearer credential.
func (ht *HTTPClient) Authenticate(ctx context.Context, token string) (_ domain.User, err error) {
	defer func() {
		if err != nil && !errors.Is(err, domain.ErrUnauthenticated) {
			ht.log.ErrorContext(ctx, "remote authenticate failed", "error", err)
		}
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ht.cfg.IdentityURL, nil)
	if err != nil {
		return domain.User{}, fmt.Errorf("new request: %w", err)
	}

	req.Header.Set(AuthorizationHeader, "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	if traceID, ok := context_.TraceIDFromContext(ctx); ok {
		req.Header.Set(TraceIDHeader, traceID)
	}

	resp, err := ht.httpClient.Do(req)
	if err != nil {
		return domain.User{}, fmt.Errorf("get: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return domain.User{}, errors.Join(domain.ErrUnauthenticated, domain.ErrInvalidAuthToken)
	default:
		return domain.User{}, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	var identity identityResponse
	if err := json.NewDecoder(resp.Body).Decode(&identity); err != nil {
		return domain.User{}, fmt.Errorf("decode identity: %w", err)
	}

	//nolint:exhaustruct
	return domain.User{
		ID:       identity.ID,
		Email:    identity.Email,
		Username: identity.Username,
	}, nil
}

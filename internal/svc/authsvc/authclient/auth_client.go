package authclient

import (
	"context"

	"github.com/mkrupp/foro/internal/domain"
)

// Authenticator resolves a bearer token into the identity it was issued for.
type Authenticator interface {
	// Authenticate returns the user the token belongs to.
	// Rejected tokens yield an error matching domain.ErrUnauthenticated;
	// any other error is a fault of the resolving backend.
	Authenticate(ctx context.Context, token string) (domain.User, error)
}

// AuthenticatorFunc adapts a function to the Authenticator interface.
type AuthenticatorFunc func(ctx context.Context, token string) (domain.User, error)

// Authenticate implements Authenticator.
func (f AuthenticatorFunc) Authenticate(ctx context.Context, token string) (domain.User, error) {
	return f(ctx, token)
}

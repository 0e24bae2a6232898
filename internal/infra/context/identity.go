package context

import (
	"context"

	"github.com/mkrupp/foro/internal/domain"
)

const contextKeyIdentity = contextKey("identity")

// IdentityFromContext extracts the authenticated user from the context.
// Returns the user and true if present, or a zero user and false if not present.
func IdentityFromContext(ctx context.Context) (domain.User, bool) {
	user, ok := ctx.Value(contextKeyIdentity).(domain.User)

	return user, ok
}

// WithIdentity creates a new context carrying the authenticated user.
// Only the authenticating middleware sets this value.
func WithIdentity(ctx context.Context, user domain.User) context.Context {
	return context.WithValue(ctx, contextKeyIdentity, user)
}

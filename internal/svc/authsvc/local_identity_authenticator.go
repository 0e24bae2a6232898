package authsvc

import (
	"context"
	"errors"
	"fmt"

	"github.com/mkrupp/foro/internal/domain"
	"github.com/mkrupp/foro/internal/infra/logging"
	"github.com/mkrupp/foro/internal/repo/user"
	"github.com/mkrupp/foro/internal/svc/authsvc/authclient"
)

// ErrIdentityMismatch is returned when a remotely authenticated identity does not
// name the same user in local storage.
var ErrIdentityMismatch = errors.New("remote identity does not match local user")

// LocalIdentityAuthenticator accepts identities resolved by a remote Authenticator
// only if local storage holds the same user, matched by email and ID.
// The local record is returned, so resources are always bound to a local user.
type LocalIdentityAuthenticator struct {
	remote   authclient.Authenticator
	userRepo user.Repository
	log      logging.Logger
}

var _ authclient.Authenticator = (*LocalIdentityAuthenticator)(nil)

// NewLocalIdentityAuthenticator creates a LocalIdentityAuthenticator checking the
// identities of remote against the users of repoFactory.
func NewLocalIdentityAuthenticator(
	remote authclient.Authenticator,
	repoFactory user.RepositoryFactory,
) (*LocalIdentityAuthenticator, error) {
	userRepo, err := repoFactory()
	if err != nil {
		return nil, fmt.Errorf("new user repo: %w", err)
	}

	return &LocalIdentityAuthenticator{
		remote:   remote,
		userRepo: userRepo,
		log:      logging.GetLogger("svc.authsvc.local_identity_authenticator"),
	}, nil
}

// Authenticate implements authclient.Authenticator.
// An identity unknown locally, or known under another ID, is rejected with an
// error matching domain.ErrUnauthenticated.
func (a *LocalIdentityAuthenticator) Authenticate(ctx context.Context, token string) (_ domain.User, err error) {
	log := a.log

	defer func() {
		if err != nil && errors.Is(err, ErrIdentityMismatch) {
			log.WarnContext(ctx, "remote identity rejected", "error", err)
		} else if err != nil && !errors.Is(err, domain.ErrUnauthenticated) {
			log.ErrorContext(ctx, "authenticate failed", "error", err)
		}
	}()

	remote, err := a.remote.Authenticate(ctx, token)
	if err != nil {
		return domain.User{}, err
	}

	log = log.With(logging.Group("remote", "id", remote.ID))

	local, ok, err := a.userRepo.GetUserByEmail(ctx, remote.Email)
	if err != nil {
		return domain.User{}, fmt.Errorf("get user: %w", err)
	} else if !ok {
		return domain.User{}, errors.Join(domain.ErrUnauthenticated, ErrIdentityMismatch, domain.ErrUserNotFound)
	}

	if local.ID != remote.ID {
		return domain.User{}, errors.Join(domain.ErrUnauthenticated,
			fmt.Errorf("%w: remote id %d, local id %d", ErrIdentityMismatch, remote.ID, local.ID))
	}

	return *local, nil
}

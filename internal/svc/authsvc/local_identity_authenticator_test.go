package authsvc_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkrupp/foro/internal/domain"
	"github.com/mkrupp/foro/internal/repo/user"
	"github.com/mkrupp/foro/internal/svc/authsvc"
	"github.com/mkrupp/foro/internal/svc/authsvc/authclient"
)

func TestLocalIdentityAuthenticator(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mockRepo := newMockUserRepo()

	//nolint:exhaustruct
	alice, err := mockRepo.CreateUser(ctx, domain.User{
		Email:        "alice@example.com",
		Username:     "alice",
		PasswordHash: []byte("digest"),
	})
	require.NoError(t, err)

	remoteUsers := map[string]domain.User{
		"alice":     {ID: alice.ID, Email: "alice@example.com", Username: "alice-remote"},
		"collision": {ID: alice.ID, Email: "bob@remote.example", Username: "bob"},
		"unknown":   {ID: 42, Email: "carol@remote.example", Username: "carol"},
		"moved":     {ID: alice.ID + 1, Email: "alice@example.com", Username: "alice"},
	}

	remote := authclient.AuthenticatorFunc(func(_ context.Context, token string) (domain.User, error) {
		if u, ok := remoteUsers[token]; ok {
			return u, nil
		}

		return domain.User{}, domain.ErrUnauthenticated
	})

	auth, err := authsvc.NewLocalIdentityAuthenticator(remote, func() (user.Repository, error) { return mockRepo, nil })
	require.NoError(t, err)

	tests := []struct {
		name     string
		token    string
		want     domain.User
		wantErrs []error
	}{
		{
			name:  "matching identity resolves to the local user",
			token: "alice",
			want:  alice,
		},
		{
			name:     "id of another local user",
			token:    "collision",
			wantErrs: []error{domain.ErrUnauthenticated, authsvc.ErrIdentityMismatch},
		},
		{
			name:     "no local user",
			token:    "unknown",
			wantErrs: []error{domain.ErrUnauthenticated, authsvc.ErrIdentityMismatch},
		},
		{
			name:     "same email under another id",
			token:    "moved",
			wantErrs: []error{domain.ErrUnauthenticated, authsvc.ErrIdentityMismatch},
		},
		{
			name:     "rejected remotely",
			token:    "forged",
			wantErrs: []error{domain.ErrUnauthenticated},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := auth.Authenticate(ctx, tt.token)
			if len(tt.wantErrs) > 0 {
				for _, wantErr := range tt.wantErrs {
					require.ErrorIs(t, err, wantErr)
				}

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLocalIdentityAuthenticator_StorageFault(t *testing.T) {
	t.Parallel()

	mockRepo := newMockUserRepo()
	mockRepo.setErr(ErrRepoError)

	remote := authclient.AuthenticatorFunc(func(context.Context, string) (domain.User, error) {
		return domain.User{ID: 1, Email: "alice@example.com", Username: "alice"}, nil
	})

	auth, err := authsvc.NewLocalIdentityAuthenticator(remote, func() (user.Repository, error) { return mockRepo, nil })
	require.NoError(t, err)

	_, err = auth.Authenticate(context.Background(), "token")
	require.ErrorIs(t, err, ErrRepoError)
	assert.NotErrorIs(t, err, domain.ErrUnauthenticated)
}

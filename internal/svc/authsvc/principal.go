package authsvc

import "github.com/mkrupp/foro/internal/domain"

// Principal is anything that can authenticate with a password and be named in a token.
type Principal interface {
	// Subject is the unique login key written into issued tokens.
	Subject() string
	// PasswordDigest is the stored digest the presented password is verified against.
	PasswordDigest() []byte
}

type userPrincipal struct {
	user domain.User
}

// PrincipalOf adapts a user record to Principal. The subject is the user's email.
func PrincipalOf(user domain.User) Principal {
	return userPrincipal{user: user}
}

func (p userPrincipal) Subject() string        { return p.user.Email }
func (p userPrincipal) PasswordDigest() []byte { return p.user.PasswordHash }

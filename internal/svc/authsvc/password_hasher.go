package authsvc

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher produces and checks salted one-way password digests.
type PasswordHasher interface {
	// Hash returns a salted digest of plaintext.
	Hash(plaintext string) ([]byte, error)
	// Verify reports whether plaintext matches digest. Any failure to compare,
	// including a malformed digest, reports false.
	Verify(plaintext string, digest []byte) bool
}

// BcryptPasswordHasher implements PasswordHasher with bcrypt.
type BcryptPasswordHasher struct {
	cost int
}

var _ PasswordHasher = (*BcryptPasswordHasher)(nil)

// NewBcryptPasswordHasher creates a hasher with the given bcrypt cost.
// Costs outside bcrypt's range fall back to bcrypt.DefaultCost.
func NewBcryptPasswordHasher(cost int) *BcryptPasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}

	return &BcryptPasswordHasher{cost: cost}
}

// Hash implements PasswordHasher.Hash.
func (h *BcryptPasswordHasher) Hash(plaintext string) ([]byte, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return nil, fmt.Errorf("bcrypt: %w", err)
	}

	return digest, nil
}

// Verify implements PasswordHasher.Verify.
func (h *BcryptPasswordHasher) Verify(plaintext string, digest []byte) bool {
	return bcrypt.CompareHashAndPassword(digest, []byte(plaintext)) == nil
}

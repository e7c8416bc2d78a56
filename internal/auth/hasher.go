package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// CredentialHasher wraps one-way password hashing.
type CredentialHasher struct {
	cost int
}

func NewCredentialHasher(cost int) *CredentialHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &CredentialHasher{cost: cost}
}

func (h *CredentialHasher) HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword reports whether plain matches the stored hash. A
// non-matching password is not an error.
func (h *CredentialHasher) VerifyPassword(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

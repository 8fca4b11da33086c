package auth

import (
	"errors"

	"github.com/phonestore/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// BcryptHasher hashes admin and customer passwords with bcrypt
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a hasher. A cost outside bcrypt's range uses the default.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash returns the bcrypt hash of password
func (h *BcryptHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", shared.NewDomainError("INVALID_INPUT", "Password is required")
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", shared.NewDomainError("INVALID_INPUT", "Password cannot exceed 72 bytes")
		}
		return "", err
	}
	return string(b), nil
}

// Compare checks password against hash
func (h *BcryptHasher) Compare(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

var _ shared.PasswordHasher = (*BcryptHasher)(nil)

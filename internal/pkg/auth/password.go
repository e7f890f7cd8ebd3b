package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// PasswordManager hashes and verifies user passwords with bcrypt.
type PasswordManager struct {
	cost int
}

// NewPasswordManager creates a PasswordManager with the given bcrypt cost.
func NewPasswordManager(cost int) *PasswordManager {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordManager{cost: cost}
}

// Hash returns the bcrypt hash of a plaintext password.
func (m *PasswordManager) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), m.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify reports whether the plaintext password matches the stored hash.
func (m *PasswordManager) Verify(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

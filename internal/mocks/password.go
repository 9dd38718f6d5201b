package mocks

import (
	"errors"
	"strings"

	"github.com/phrazzld/stash-api/internal/service/auth"
)

// mockHashPrefix marks digests produced by the mock hasher so the mock
// verifier can validate them without real bcrypt work.
const mockHashPrefix = "hashed:"

// MockPasswordHasher implements auth.PasswordHasher for testing
type MockPasswordHasher struct {
	// HashFn overrides the default behavior when set
	HashFn func(password string) (string, error)
}

var _ auth.PasswordHasher = (*MockPasswordHasher)(nil)

// Hash implements the PasswordHasher interface. The default produces a
// recognizable, reversible digest so tests can assert on it.
func (m *MockPasswordHasher) Hash(password string) (string, error) {
	if m.HashFn != nil {
		return m.HashFn(password)
	}
	return mockHashPrefix + password, nil
}

// MockPasswordVerifier implements auth.PasswordVerifier for testing
type MockPasswordVerifier struct {
	// CompareFn overrides the default behavior when set
	CompareFn func(hashedPassword, password string) error
}

var _ auth.PasswordVerifier = (*MockPasswordVerifier)(nil)

// Compare implements the PasswordVerifier interface. The default accepts
// digests produced by MockPasswordHasher.
func (m *MockPasswordVerifier) Compare(hashedPassword, password string) error {
	if m.CompareFn != nil {
		return m.CompareFn(hashedPassword, password)
	}
	if strings.TrimPrefix(hashedPassword, mockHashPrefix) != password {
		return errors.New("password mismatch")
	}
	return nil
}

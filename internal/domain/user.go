package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// User validation errors. All wrap ErrValidation so callers can match the
// whole family with a single errors.Is.
var (
	ErrEmptyUserID         = fmt.Errorf("%w: user ID cannot be empty", ErrValidation)
	ErrEmptyEmail          = fmt.Errorf("%w: email cannot be empty", ErrValidation)
	ErrInvalidEmail        = fmt.Errorf("%w: invalid email format", ErrValidation)
	ErrEmptyUsername       = fmt.Errorf("%w: username cannot be empty", ErrValidation)
	ErrUsernameTooShort    = fmt.Errorf("%w: username must be at least 3 characters long", ErrValidation)
	ErrUsernameTooLong     = fmt.Errorf("%w: username must be at most 100 characters long", ErrValidation)
	ErrPasswordTooShort    = fmt.Errorf("%w: password must be at least 8 characters long", ErrValidation)
	ErrPasswordTooLong     = fmt.Errorf("%w: password must be at most 72 characters long", ErrValidation)
	ErrEmptyHashedPassword = fmt.Errorf("%w: hashed password cannot be empty", ErrValidation)
)

// User represents a registered user of the application.
// The plaintext password never appears on this struct; registration and
// password updates hash before the entity is constructed or patched.
type User struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	Username       string    `json:"username"`
	FullName       string    `json:"full_name,omitempty"`
	HashedPassword string    `json:"-"` // Never expose the password hash
	IsActive       bool      `json:"is_active"`
	IsSuperuser    bool      `json:"is_superuser"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewUser creates a User with a fresh ID and timestamps. The caller supplies
// the already-hashed password. New users start active and non-superuser.
// Returns an error if validation fails.
func NewUser(email, username, fullName, hashedPassword string) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		ID:             uuid.New(),
		Email:          email,
		Username:       username,
		FullName:       fullName,
		HashedPassword: hashedPassword,
		IsActive:       true,
		IsSuperuser:    false,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
// Returns an error if any field fails validation.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}

	if u.Email == "" {
		return ErrEmptyEmail
	}
	if !validateEmailFormat(u.Email) {
		return ErrInvalidEmail
	}

	if u.Username == "" {
		return ErrEmptyUsername
	}
	if len(u.Username) < 3 {
		return ErrUsernameTooShort
	}
	if len(u.Username) > 100 {
		return ErrUsernameTooLong
	}

	if u.HashedPassword == "" {
		return ErrEmptyHashedPassword
	}

	return nil
}

// ValidatePassword checks a candidate plaintext password against the length
// policy (8..72 characters; the upper bound is bcrypt's practical limit).
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return ErrPasswordTooShort
	}
	if len(password) > 72 {
		return ErrPasswordTooLong
	}
	return nil
}

// validateEmailFormat performs basic validation of email format: a single @
// with a dotted domain part. Proper RFC 5322 validation happens at the API
// boundary via struct tags; this is a last-line invariant check.
func validateEmailFormat(email string) bool {
	atIndex := strings.Index(email, "@")
	if atIndex <= 0 || atIndex == len(email)-1 {
		return false
	}

	domainPart := email[atIndex+1:]
	dotIndex := strings.Index(domainPart, ".")
	return dotIndex > 0 && dotIndex < len(domainPart)-1
}

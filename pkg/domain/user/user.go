package user

import (
	"strings"
	"time"

	"github.com/amirasaad/bankapi/pkg/domain"
	"github.com/amirasaad/bankapi/pkg/utils"
	"github.com/google/uuid"
)

var (
	// ErrUserNotFound is returned when a user cannot be found in the
	// repository.
	ErrUserNotFound = domain.NewError(domain.ErrNotFound, "user not found")
	// ErrUserUnauthorized is returned when credentials do not match.
	ErrUserUnauthorized = domain.NewError(domain.ErrUnauthorized, "invalid email or password")
	// ErrEmailTaken is returned when signing up with a registered e-mail.
	ErrEmailTaken = domain.NewError(domain.ErrAlreadyExists, "email already registered")
	// ErrInvalidEmail is returned for malformed e-mail addresses.
	ErrInvalidEmail = domain.NewError(domain.ErrValidation, "invalid email")
	// ErrPasswordTooShort is returned for passwords under MinPasswordLength.
	ErrPasswordTooShort = domain.NewError(domain.ErrValidation, "password too short")
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 6

// User represents a user in the system.
type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	Password  string    `json:"-"`
	CreatedAt time.Time `json:"created"`
	UpdatedAt time.Time `json:"updated"`
}

// NewUser creates a new User with a hashed password and current timestamps.
// The e-mail is trimmed and lower-cased.
func NewUser(email, password, name string) (*User, error) {
	email = NormalizeEmail(email)
	if !utils.IsEmail(email) {
		return nil, ErrInvalidEmail
	}
	if len(password) < MinPasswordLength {
		return nil, ErrPasswordTooShort
	}
	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &User{
		ID:        uuid.New(),
		Email:     email,
		Name:      strings.TrimSpace(name),
		Password:  hashedPassword,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// NormalizeEmail trims and lower-cases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Package domain defines the core user domain entities and types.
package domain

import (
	"time"

	"github.com/banksec/apiguard/internal/errors"
)

// User represents a user account in the system. Password holds the credential
// hash, never the plaintext. Role and IsAdmin are always assigned server-side;
// they are not bindable from incoming requests.
type User struct {
	ID        int64
	Username  string
	Password  string
	Role      string
	IsAdmin   bool
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Domain-specific errors for user operations.
var (
	// ErrUserNotFound indicates the requested user does not exist.
	ErrUserNotFound = errors.Wrap(errors.ErrNotFound, "user not found")

	// ErrUserAlreadyExists indicates a user with the same username already exists.
	ErrUserAlreadyExists = errors.Wrap(errors.ErrConflict, "user already exists")

	// ErrUsernameRequired indicates the username field is required.
	ErrUsernameRequired = errors.Wrap(errors.ErrInvalidInput, "username is required")

	// ErrPasswordRequired indicates the password field is required.
	ErrPasswordRequired = errors.Wrap(errors.ErrInvalidInput, "password is required")
)

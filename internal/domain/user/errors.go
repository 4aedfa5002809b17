package user

import "errors"

var (
	// Registration failures.
	ErrUsernameTaken   = errors.New("username already exists")
	ErrEmailTaken      = errors.New("email already exists")
	ErrInvalidUsername = errors.New("username must be between 3 and 50 characters")
	ErrInvalidEmail    = errors.New("invalid email format")
	ErrInvalidPassword = errors.New("password must be at least 6 characters")

	// Credential verification failures. These stay internal: handlers
	// collapse both into the generic ErrInvalidCredentials so callers
	// cannot tell a missing account from a wrong password.
	ErrNotFound    = errors.New("user not found")
	ErrBadPassword = errors.New("password mismatch")

	// ErrInvalidCredentials is the only credential failure exposed at the
	// API boundary.
	ErrInvalidCredentials = errors.New("invalid username or password")
)

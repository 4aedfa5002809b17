package user

import (
	"net/mail"
	"time"

	"github.com/google/uuid"
)

// User maps to the users table. The password hash is never serialized.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

const (
	minUsernameLen = 3
	maxUsernameLen = 50
	minPasswordLen = 6
)

// ValidateRegistration checks the registration constraints: username 3-50
// characters, well-formed email, password at least 6 characters.
func ValidateRegistration(username, email, password string) error {
	if len(username) < minUsernameLen || len(username) > maxUsernameLen {
		return ErrInvalidUsername
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return ErrInvalidEmail
	}
	if len(password) < minPasswordLen {
		return ErrInvalidPassword
	}
	return nil
}

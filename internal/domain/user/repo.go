package user

import (
	"context"
)

type Repository interface {
	// Create persists a new user. Implementations must report
	// ErrUsernameTaken / ErrEmailTaken when a unique constraint fires, so
	// concurrent registrations cannot produce duplicate identities even
	// when the service-level pre-checks race.
	Create(ctx context.Context, u *User) error
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
}

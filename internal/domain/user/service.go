package user

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// dummyHash is compared against when the username does not exist, so a
// failed lookup costs the same as a failed password check. Hash of an
// unguessable constant; the comparison always fails.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("sghss-timing-pad"), bcrypt.DefaultCost)

type Service struct {
	users Repository
}

func NewService(users Repository) *Service {
	return &Service{users: users}
}

// Register creates a new identity. The username/email lookups are a
// fast-path for a precise conflict error; the unique constraints on the
// users table are the authoritative guard against concurrent registration
// of the same username or email.
func (s *Service) Register(ctx context.Context, username, email, password string) (*User, error) {
	if err := ValidateRegistration(username, email, password); err != nil {
		return nil, err
	}

	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("check email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// VerifyCredentials checks a username/password pair. It returns ErrNotFound
// or ErrBadPassword for internal logging; callers exposing the result must
// collapse both to ErrInvalidCredentials.
func (s *Service) VerifyCredentials(ctx context.Context, username, password string) (*User, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// Burn a hash comparison anyway so the miss is not
			// observable through response timing.
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrBadPassword
	}
	return u, nil
}

// ResolveIdentity looks up the identity a validated token refers to. The
// subject of a structurally valid token may no longer exist (account removed
// after issuance); that returns ErrNotFound and must deny the request.
func (s *Service) ResolveIdentity(ctx context.Context, username string) (*User, error) {
	return s.users.GetByUsername(ctx, username)
}

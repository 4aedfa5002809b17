package patient

import (
	"errors"
	"net/mail"
	"time"

	"github.com/google/uuid"
)

// Patient maps to the patients table.
type Patient struct {
	ID        uuid.UUID `db:"id" json:"id"`
	FullName  string    `db:"full_name" json:"full_name"`
	CPF       string    `db:"cpf" json:"cpf"`
	Email     string    `db:"email" json:"email"`
	Phone     *string   `db:"phone" json:"phone,omitempty"`
	Address   *string   `db:"address" json:"address,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

var (
	ErrCPFTaken   = errors.New("cpf already registered")
	ErrEmailTaken = errors.New("email already registered")
	ErrNotFound   = errors.New("patient not found")

	ErrInvalidName  = errors.New("full_name must be between 3 and 100 characters")
	ErrInvalidCPF   = errors.New("cpf must be 11 digits")
	ErrInvalidEmail = errors.New("invalid email format")
)

// Validate checks the field constraints: name 3-100 characters, CPF exactly
// 11 digits, well-formed email.
func (p *Patient) Validate() error {
	if len(p.FullName) < 3 || len(p.FullName) > 100 {
		return ErrInvalidName
	}
	if !validCPF(p.CPF) {
		return ErrInvalidCPF
	}
	if _, err := mail.ParseAddress(p.Email); err != nil {
		return ErrInvalidEmail
	}
	return nil
}

func validCPF(cpf string) bool {
	if len(cpf) != 11 {
		return false
	}
	for _, r := range cpf {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

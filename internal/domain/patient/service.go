package patient

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

type Service struct {
	patients Repository
}

func NewService(patients Repository) *Service {
	return &Service{patients: patients}
}

// Create registers a new patient. CPF and email uniqueness are pre-checked
// for a precise conflict error; the storage-level unique constraints remain
// the authoritative guard.
func (s *Service) Create(ctx context.Context, p *Patient) error {
	if err := p.Validate(); err != nil {
		return err
	}

	if _, err := s.patients.GetByCPF(ctx, p.CPF); err == nil {
		return ErrCPFTaken
	} else if !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("check cpf: %w", err)
	}
	if _, err := s.patients.GetByEmail(ctx, p.Email); err == nil {
		return ErrEmailTaken
	} else if !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("check email: %w", err)
	}

	return s.patients.Create(ctx, p)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.patients.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	return s.patients.List(ctx, limit, offset)
}

// Update modifies an existing patient. The CPF is immutable after
// registration; incoming values are ignored in favor of the stored one.
func (s *Service) Update(ctx context.Context, id uuid.UUID, updated *Patient) (*Patient, error) {
	existing, err := s.patients.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	existing.FullName = updated.FullName
	existing.Email = updated.Email
	existing.Phone = updated.Phone
	existing.Address = updated.Address

	if err := existing.Validate(); err != nil {
		return nil, err
	}
	if err := s.patients.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.patients.Delete(ctx, id)
}

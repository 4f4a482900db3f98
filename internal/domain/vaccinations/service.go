package vaccinations

import (
	"context"
	"strings"
	"time"

	"livestock-registry/internal/domain/animals"
	"livestock-registry/internal/domain/faults"

	"github.com/google/uuid"
)

// AnimalAuthority es el predicado de ownership sobre el animal padre.
// Lo implementa animals.Service.
type AnimalAuthority interface {
	Authorize(ctx context.Context, animalID, callerID string) (animals.Animal, error)
}

type Service struct {
	repo    Repository
	animals AnimalAuthority
	now     func() time.Time
}

func NewService(repo Repository, animals AnimalAuthority) *Service {
	return &Service{
		repo:    repo,
		animals: animals,
		now:     time.Now,
	}
}

type CreateInput struct {
	VaccineName  string
	Date         time.Time
	Batch        string
	Veterinarian string
	Notes        string
}

func (s *Service) Create(ctx context.Context, animalID, callerID string, in CreateInput) (Vaccination, error) {
	if strings.TrimSpace(in.VaccineName) == "" || in.Date.IsZero() {
		return Vaccination{}, faults.ErrInvalidInput
	}

	if _, err := s.animals.Authorize(ctx, animalID, callerID); err != nil {
		return Vaccination{}, err
	}

	now := s.now()
	v := Vaccination{
		ID:           uuid.NewString(),
		AnimalID:     animalID,
		VaccineName:  strings.TrimSpace(in.VaccineName),
		Date:         in.Date,
		Batch:        strings.TrimSpace(in.Batch),
		Veterinarian: strings.TrimSpace(in.Veterinarian),
		Notes:        strings.TrimSpace(in.Notes),
		RecordedBy:   callerID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, v); err != nil {
		return Vaccination{}, err
	}
	return v, nil
}

func (s *Service) ListByAnimal(ctx context.Context, animalID, callerID string) ([]Vaccination, error) {
	if _, err := s.animals.Authorize(ctx, animalID, callerID); err != nil {
		return nil, err
	}
	return s.repo.ListByAnimal(ctx, animalID)
}

// GetByID autoriza contra el dueño alcanzado por la relación guardada,
// no contra una columna propia.
func (s *Service) GetByID(ctx context.Context, id, callerID string) (Vaccination, error) {
	v, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Vaccination{}, err
	}
	if v.AnimalOwnerID != callerID {
		return Vaccination{}, faults.Forbidden("you do not own the animal of this vaccination")
	}
	return v, nil
}

type UpdateInput struct {
	VaccineName  *string
	Date         *time.Time
	Batch        *string
	Veterinarian *string
	Notes        *string
}

func (s *Service) Update(ctx context.Context, id, callerID string, in UpdateInput) (Vaccination, error) {
	v, err := s.GetByID(ctx, id, callerID)
	if err != nil {
		return Vaccination{}, err
	}

	if in.VaccineName != nil {
		if strings.TrimSpace(*in.VaccineName) == "" {
			return Vaccination{}, faults.ErrInvalidInput
		}
		v.VaccineName = strings.TrimSpace(*in.VaccineName)
	}
	if in.Date != nil {
		v.Date = *in.Date
	}
	if in.Batch != nil {
		v.Batch = strings.TrimSpace(*in.Batch)
	}
	if in.Veterinarian != nil {
		v.Veterinarian = strings.TrimSpace(*in.Veterinarian)
	}
	if in.Notes != nil {
		v.Notes = strings.TrimSpace(*in.Notes)
	}
	v.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, v); err != nil {
		return Vaccination{}, err
	}
	return v, nil
}

func (s *Service) Remove(ctx context.Context, id, callerID string) error {
	if _, err := s.GetByID(ctx, id, callerID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

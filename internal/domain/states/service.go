package states

import (
	"context"
	"strings"
	"time"

	"livestock-registry/internal/domain/animals"
	"livestock-registry/internal/domain/faults"

	"github.com/google/uuid"
)

// AnimalAuthority lo implementa animals.Service.
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
	Type      StateType
	Name      string
	StartDate time.Time
	EndDate   *time.Time
	Notes     string

	// Active nil = true (alta vigente por defecto).
	Active *bool
}

func (s *Service) Create(ctx context.Context, animalID, callerID string, in CreateInput) (State, error) {
	if !in.Type.Valid() || in.StartDate.IsZero() {
		return State{}, faults.ErrInvalidInput
	}

	if _, err := s.animals.Authorize(ctx, animalID, callerID); err != nil {
		return State{}, err
	}

	active := true
	if in.Active != nil {
		active = *in.Active
	}

	// Un alta vigente cierra el estado activo anterior del mismo tipo.
	if active {
		if err := s.repo.DeactivateActive(ctx, animalID, in.Type, in.StartDate); err != nil {
			return State{}, err
		}
	}

	now := s.now()
	st := State{
		ID:         uuid.NewString(),
		AnimalID:   animalID,
		Type:       in.Type,
		Name:       strings.TrimSpace(in.Name),
		StartDate:  in.StartDate,
		EndDate:    in.EndDate,
		Notes:      strings.TrimSpace(in.Notes),
		Active:     active,
		RecordedBy: callerID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repo.Create(ctx, st); err != nil {
		return State{}, err
	}
	return st, nil
}

func (s *Service) ListByAnimal(ctx context.Context, animalID, callerID string) ([]State, error) {
	if _, err := s.animals.Authorize(ctx, animalID, callerID); err != nil {
		return nil, err
	}
	return s.repo.ListByAnimal(ctx, animalID, false)
}

func (s *Service) ListActive(ctx context.Context, animalID, callerID string) ([]State, error) {
	if _, err := s.animals.Authorize(ctx, animalID, callerID); err != nil {
		return nil, err
	}
	return s.repo.ListByAnimal(ctx, animalID, true)
}

func (s *Service) GetByID(ctx context.Context, id, callerID string) (State, error) {
	st, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return State{}, err
	}
	if st.AnimalOwnerID != callerID {
		return State{}, faults.Forbidden("you do not own the animal of this state")
	}
	return st, nil
}

type UpdateInput struct {
	Name    *string
	EndDate *time.Time
	Notes   *string
	Active  *bool
}

func (s *Service) Update(ctx context.Context, id, callerID string, in UpdateInput) (State, error) {
	st, err := s.GetByID(ctx, id, callerID)
	if err != nil {
		return State{}, err
	}

	if in.Name != nil {
		st.Name = strings.TrimSpace(*in.Name)
	}
	if in.EndDate != nil {
		st.EndDate = in.EndDate
	}
	if in.Notes != nil {
		st.Notes = strings.TrimSpace(*in.Notes)
	}
	if in.Active != nil {
		st.Active = *in.Active
	}
	st.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, st); err != nil {
		return State{}, err
	}
	return st, nil
}

func (s *Service) Remove(ctx context.Context, id, callerID string) error {
	if _, err := s.GetByID(ctx, id, callerID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

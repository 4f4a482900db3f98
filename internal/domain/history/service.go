package history

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
	Type        EntryType
	Title       string
	Description string
	Date        time.Time
}

func (s *Service) Create(ctx context.Context, animalID, callerID string, in CreateInput) (Entry, error) {
	if !in.Type.Valid() || strings.TrimSpace(in.Title) == "" || in.Date.IsZero() {
		return Entry{}, faults.ErrInvalidInput
	}

	if _, err := s.animals.Authorize(ctx, animalID, callerID); err != nil {
		return Entry{}, err
	}

	now := s.now()
	e := Entry{
		ID:          uuid.NewString(),
		AnimalID:    animalID,
		Type:        in.Type,
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Date:        in.Date,
		RecordedBy:  callerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, e); err != nil {
		return Entry{}, err
	}
	return e, nil
}

func (s *Service) ListByAnimal(ctx context.Context, animalID, callerID string) ([]Entry, error) {
	if _, err := s.animals.Authorize(ctx, animalID, callerID); err != nil {
		return nil, err
	}
	return s.repo.ListByAnimal(ctx, animalID)
}

func (s *Service) GetByID(ctx context.Context, id, callerID string) (Entry, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Entry{}, err
	}
	if e.AnimalOwnerID != callerID {
		return Entry{}, faults.Forbidden("you do not own the animal of this entry")
	}
	return e, nil
}

type UpdateInput struct {
	Type        *EntryType
	Title       *string
	Description *string
	Date        *time.Time
}

func (s *Service) Update(ctx context.Context, id, callerID string, in UpdateInput) (Entry, error) {
	e, err := s.GetByID(ctx, id, callerID)
	if err != nil {
		return Entry{}, err
	}

	if in.Type != nil {
		if !in.Type.Valid() {
			return Entry{}, faults.ErrInvalidInput
		}
		e.Type = *in.Type
	}
	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return Entry{}, faults.ErrInvalidInput
		}
		e.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		e.Description = strings.TrimSpace(*in.Description)
	}
	if in.Date != nil {
		e.Date = *in.Date
	}
	e.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, e); err != nil {
		return Entry{}, err
	}
	return e, nil
}

func (s *Service) Remove(ctx context.Context, id, callerID string) error {
	if _, err := s.GetByID(ctx, id, callerID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

package births

import (
	"context"
	"strings"
	"time"

	"livestock-registry/internal/domain/animals"
	"livestock-registry/internal/domain/faults"

	"github.com/google/uuid"
)

// AnimalService es lo que births necesita de animals: el predicado de
// ownership y el alta de la cría automática. Lo implementa animals.Service.
type AnimalService interface {
	Authorize(ctx context.Context, animalID, callerID string) (animals.Animal, error)
	Create(ctx context.Context, callerID string, in animals.CreateInput) (animals.Animal, error)
}

type Service struct {
	repo    Repository
	animals AnimalService
	now     func() time.Time
}

func NewService(repo Repository, animals AnimalService) *Service {
	return &Service{
		repo:    repo,
		animals: animals,
		now:     time.Now,
	}
}

type CreateInput struct {
	MotherID string
	CalfID   string // opcional: sin cría, se crea una automáticamente
	Date     time.Time
	Status   Status // vacío = ALIVE
	CalfSex  string // Female/Male; vacío = Male para la cría automática
	Weight   string
	Notes    string
}

// Create asienta un parto. El caller debe ser dueño de la madre y la
// madre debe ser hembra. Si no se da cría, se crea un animal nuevo a
// nombre del caller: sexo según CalfSex (Macho por defecto), categoría
// derivada del sexo, pelaje heredado de la madre y arista madre puesta.
func (s *Service) Create(ctx context.Context, callerID string, in CreateInput) (Birth, error) {
	if in.MotherID == "" || in.Date.IsZero() {
		return Birth{}, faults.ErrInvalidInput
	}

	mother, err := s.animals.Authorize(ctx, in.MotherID, callerID)
	if err != nil {
		return Birth{}, err
	}
	if mother.Sex != animals.SexFemale {
		return Birth{}, faults.Forbidden("the specified animal is not female")
	}

	status := in.Status
	if status == "" {
		status = StatusAlive
	}
	if !status.Valid() {
		return Birth{}, faults.ErrInvalidInput
	}

	calfID := in.CalfID
	if calfID != "" {
		// Cría explícita: debe existir y ser del caller.
		if _, err := s.animals.Authorize(ctx, calfID, callerID); err != nil {
			return Birth{}, err
		}
	} else {
		calfSex := animals.SexMale
		if in.CalfSex == string(animals.SexFemale) {
			calfSex = animals.SexFemale
		}
		calfKind := animals.KindCalfMale
		if calfSex == animals.SexFemale {
			calfKind = animals.KindCalfFemale
		}

		date := in.Date
		calf, err := s.animals.Create(ctx, callerID, animals.CreateInput{
			Kind:        calfKind,
			Coat:        mother.Coat,
			Sex:         calfSex,
			BirthDate:   &date,
			MotherID:    mother.ID,
			Description: "Calf registered automatically on " + in.Date.Format("2006-01-02"),
		})
		if err != nil {
			return Birth{}, err
		}
		calfID = calf.ID
	}

	now := s.now()
	b := Birth{
		ID:            uuid.NewString(),
		MotherID:      mother.ID,
		CalfID:        calfID,
		Date:          in.Date,
		Status:        status,
		CalfSex:       strings.TrimSpace(in.CalfSex),
		Weight:        strings.TrimSpace(in.Weight),
		Notes:         strings.TrimSpace(in.Notes),
		RecordedBy:    callerID,
		MotherOwnerID: mother.OwnerID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Create(ctx, b); err != nil {
		return Birth{}, err
	}
	return b, nil
}

func (s *Service) ListByMother(ctx context.Context, motherID, callerID string) ([]Birth, error) {
	if _, err := s.animals.Authorize(ctx, motherID, callerID); err != nil {
		return nil, err
	}
	return s.repo.ListByMother(ctx, motherID)
}

func (s *Service) GetByID(ctx context.Context, id, callerID string) (Birth, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Birth{}, err
	}
	if b.MotherOwnerID != callerID {
		return Birth{}, faults.Forbidden("you do not own the mother of this birth")
	}
	return b, nil
}

type UpdateInput struct {
	CalfID *string
	Date   *time.Time
	Status *Status
	Weight *string
	Notes  *string
}

func (s *Service) Update(ctx context.Context, id, callerID string, in UpdateInput) (Birth, error) {
	b, err := s.GetByID(ctx, id, callerID)
	if err != nil {
		return Birth{}, err
	}

	if in.CalfID != nil && *in.CalfID != "" {
		if _, err := s.animals.Authorize(ctx, *in.CalfID, callerID); err != nil {
			return Birth{}, err
		}
		b.CalfID = *in.CalfID
	}
	if in.Date != nil {
		b.Date = *in.Date
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return Birth{}, faults.ErrInvalidInput
		}
		b.Status = *in.Status
	}
	if in.Weight != nil {
		b.Weight = strings.TrimSpace(*in.Weight)
	}
	if in.Notes != nil {
		b.Notes = strings.TrimSpace(*in.Notes)
	}
	b.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, b); err != nil {
		return Birth{}, err
	}
	return b, nil
}

func (s *Service) Remove(ctx context.Context, id, callerID string) error {
	if _, err := s.GetByID(ctx, id, callerID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

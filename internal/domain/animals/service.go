package animals

import (
	"context"
	"strings"
	"time"

	"livestock-registry/internal/domain/faults"

	"github.com/google/uuid"
)

// GroupAuthority es lo que animals necesita de grupos: la regla de alta
// delegada y la lista de miembros para el listado por grupo.
// Lo implementa groups.Service.
type GroupAuthority interface {
	UsersShareGroupWithAdminRole(ctx context.Context, adminID, targetID string) (bool, error)
	MemberUserIDs(ctx context.Context, groupID, callerID string) ([]string, error)
}

type Service struct {
	repo   Repository
	groups GroupAuthority
	now    func() time.Time
}

func NewService(repo Repository, groups GroupAuthority) *Service {
	return &Service{
		repo:   repo,
		groups: groups,
		now:    time.Now,
	}
}

type CreateInput struct {
	// OwnerID vacío = el caller registra a su propio nombre.
	// Con otro id, aplica la regla de alta delegada.
	OwnerID string

	EarTag      string
	Kind        Kind
	Coat        string
	Sex         Sex
	Breed       string
	BirthDate   *time.Time
	MotherID    string
	FatherID    string
	Description string
}

// Create registra un animal. Registrar a nombre de otro dueño exige que
// el caller sea Owner o Admin en algún grupo compartido con ese dueño.
func (s *Service) Create(ctx context.Context, callerID string, in CreateInput) (Animal, error) {
	if strings.TrimSpace(callerID) == "" {
		return Animal{}, faults.ErrInvalidInput
	}
	if !in.Kind.Valid() || !in.Sex.Valid() || strings.TrimSpace(in.Coat) == "" {
		return Animal{}, faults.ErrInvalidInput
	}

	ownerID := callerID
	if in.OwnerID != "" && in.OwnerID != callerID {
		ok, err := s.groups.UsersShareGroupWithAdminRole(ctx, callerID, in.OwnerID)
		if err != nil {
			return Animal{}, err
		}
		if !ok {
			return Animal{}, faults.Forbidden("you may not register an animal on behalf of this owner")
		}
		ownerID = in.OwnerID
	}

	now := s.now()
	a := Animal{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		EarTag:      strings.TrimSpace(in.EarTag),
		Kind:        in.Kind,
		Coat:        strings.TrimSpace(in.Coat),
		Sex:         in.Sex,
		Breed:       strings.TrimSpace(in.Breed),
		BirthDate:   in.BirthDate,
		MotherID:    in.MotherID,
		FatherID:    in.FatherID,
		Description: strings.TrimSpace(in.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return Animal{}, err
	}
	return a, nil
}

// Authorize es el predicado de ownership de todo el sistema: devuelve el
// animal si existe y pertenece al caller. NotFound si el id no resuelve,
// Forbidden si el dueño es otro. Sin efectos secundarios.
func (s *Service) Authorize(ctx context.Context, animalID, callerID string) (Animal, error) {
	a, err := s.repo.GetByID(ctx, animalID)
	if err != nil {
		return Animal{}, err
	}
	if a.OwnerID != callerID {
		return Animal{}, faults.Forbidden("you do not own this animal")
	}
	return a, nil
}

type UpdateInput struct {
	EarTag      *string
	Kind        *Kind
	Coat        *string
	Breed       *string
	BirthDate   *time.Time
	Description *string
}

func (s *Service) Update(ctx context.Context, animalID, callerID string, in UpdateInput) (Animal, error) {
	a, err := s.Authorize(ctx, animalID, callerID)
	if err != nil {
		return Animal{}, err
	}

	if in.EarTag != nil {
		a.EarTag = strings.TrimSpace(*in.EarTag)
	}
	if in.Kind != nil {
		if !in.Kind.Valid() {
			return Animal{}, faults.ErrInvalidInput
		}
		a.Kind = *in.Kind
	}
	if in.Coat != nil {
		a.Coat = strings.TrimSpace(*in.Coat)
	}
	if in.Breed != nil {
		a.Breed = strings.TrimSpace(*in.Breed)
	}
	if in.BirthDate != nil {
		a.BirthDate = in.BirthDate
	}
	if in.Description != nil {
		a.Description = strings.TrimSpace(*in.Description)
	}
	a.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, a); err != nil {
		return Animal{}, err
	}
	return a, nil
}

// Remove elimina el animal del caller; el store cascadea los eventos.
func (s *Service) Remove(ctx context.Context, animalID, callerID string) error {
	if _, err := s.Authorize(ctx, animalID, callerID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, animalID)
}

// SetParent establece o limpia una arista de parentesco de la cría.
// parentID vacío limpia la arista incondicionalmente (idempotente).
// El padre referido debe existir y tener el sexo que exige el rol; no se
// chequea su dueño: el parentesco cruza dueños por diseño. Una arista
// que haría al animal su propio ancestro falla con Conflict.
func (s *Service) SetParent(ctx context.Context, childID string, role ParentRole, parentID, callerID string) (Animal, error) {
	child, err := s.Authorize(ctx, childID, callerID)
	if err != nil {
		return Animal{}, err
	}

	if parentID == "" {
		switch role {
		case ParentMother:
			child.MotherID = ""
		case ParentFather:
			child.FatherID = ""
		default:
			return Animal{}, faults.ErrInvalidInput
		}
	} else {
		parent, err := s.repo.GetByID(ctx, parentID)
		if err != nil {
			return Animal{}, faults.NotFound("the specified parent does not exist")
		}

		switch role {
		case ParentMother:
			if parent.Sex != SexFemale {
				return Animal{}, faults.Forbidden("the animal specified as mother is not female")
			}
		case ParentFather:
			if parent.Sex != SexMale {
				return Animal{}, faults.Forbidden("the animal specified as father is not male")
			}
		default:
			return Animal{}, faults.ErrInvalidInput
		}

		if err := s.checkAncestry(ctx, child.ID, parent); err != nil {
			return Animal{}, err
		}

		if role == ParentMother {
			child.MotherID = parent.ID
		} else {
			child.FatherID = parent.ID
		}
	}

	child.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, child); err != nil {
		return Animal{}, err
	}
	return child, nil
}

// Family resuelve madre, padre y crías del animal. Padres colgantes se
// ignoran sin error; las crías se buscan por cualquiera de las dos
// aristas, cruzando dueños.
func (s *Service) Family(ctx context.Context, animalID, callerID string) (Family, error) {
	a, err := s.Authorize(ctx, animalID, callerID)
	if err != nil {
		return Family{}, err
	}

	fam := Family{Animal: a}

	if a.MotherID != "" {
		if m, err := s.repo.GetByID(ctx, a.MotherID); err == nil {
			fam.Mother = &m
		}
	}
	if a.FatherID != "" {
		if f, err := s.repo.GetByID(ctx, a.FatherID); err == nil {
			fam.Father = &f
		}
	}

	children, err := s.repo.ListChildren(ctx, a.ID)
	if err != nil {
		return Family{}, err
	}
	fam.Children = children

	return fam, nil
}

// ListForUser pagina los animales del propio caller.
func (s *Service) ListForUser(ctx context.Context, callerID string, p Page) ([]Animal, int, error) {
	return s.repo.ListByOwners(ctx, []string{callerID}, p)
}

// ListForGroup pagina los animales de todos los miembros del grupo.
// El caller debe ser miembro; la visibilidad la valida grupos.
func (s *Service) ListForGroup(ctx context.Context, groupID, callerID string, p Page) ([]Animal, int, error) {
	memberIDs, err := s.groups.MemberUserIDs(ctx, groupID, callerID)
	if err != nil {
		return nil, 0, err
	}
	return s.repo.ListByOwners(ctx, memberIDs, p)
}

// FindByIDs expone la búsqueda por conjunto de ids (la usan campañas).
func (s *Service) FindByIDs(ctx context.Context, ids []string) ([]Animal, error) {
	return s.repo.FindByIDs(ctx, ids)
}

// checkAncestry camina los ancestros del padre propuesto; si la cría
// aparece entre ellos, la arista cerraría un ciclo.
func (s *Service) checkAncestry(ctx context.Context, childID string, parent Animal) error {
	if parent.ID == childID {
		return faults.Conflict("an animal cannot be its own parent")
	}

	visited := map[string]bool{parent.ID: true}
	queue := []string{parent.MotherID, parent.FatherID}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]

		if id == "" || visited[id] {
			continue
		}
		if id == childID {
			return faults.Conflict("this parentage edge would create a cycle")
		}
		visited[id] = true

		anc, err := s.repo.GetByID(ctx, id)
		if err != nil {
			// Ancestro colgante: se tolera, igual que en Family.
			continue
		}
		queue = append(queue, anc.MotherID, anc.FatherID)
	}
	return nil
}

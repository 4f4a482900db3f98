package campaigns

import (
	"context"
	"strings"
	"time"

	"livestock-registry/internal/domain/animals"
	"livestock-registry/internal/domain/faults"

	"github.com/google/uuid"
)

// GroupAuthority resuelve visibilidad y pertenencia de grupos.
// Lo implementa groups.Service.
type GroupAuthority interface {
	// MemberUserIDs falla con NotFound si el caller no es miembro;
	// acá solo interesa esa validación de visibilidad.
	MemberUserIDs(ctx context.Context, groupID, callerID string) ([]string, error)
	IsMember(ctx context.Context, groupID, userID string) (bool, error)
	GroupIDsForUser(ctx context.Context, userID string) ([]string, error)
}

// AnimalFinder valida que los animales referidos existan.
// Lo implementa animals.Service.
type AnimalFinder interface {
	FindByIDs(ctx context.Context, ids []string) ([]animals.Animal, error)
}

type Service struct {
	repo    Repository
	groups  GroupAuthority
	finder  AnimalFinder
	now     func() time.Time
}

func NewService(repo Repository, groups GroupAuthority, finder AnimalFinder) *Service {
	return &Service{
		repo:   repo,
		groups: groups,
		finder: finder,
		now:    time.Now,
	}
}

type CreateInput struct {
	Name      string
	Date      time.Time
	Products  string
	Notes     string
	Status    Status // vacío = Pending
	GroupID   string // opcional: con valor, la campaña es de grupo
	AnimalIDs []string
}

// Create da de alta la campaña. Con GroupID el caller debe ser miembro
// del grupo (NotFound si no) y el scope queda en el grupo; sin GroupID
// el scope queda en el caller. Todos los animales referidos deben
// existir, sin exigir dueño: una campaña cruza dueños por diseño.
func (s *Service) Create(ctx context.Context, callerID string, in CreateInput) (Campaign, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || in.Date.IsZero() {
		return Campaign{}, faults.ErrInvalidInput
	}

	status := in.Status
	if status == "" {
		status = StatusPending
	}
	if !status.Valid() {
		return Campaign{}, faults.ErrInvalidInput
	}

	if err := s.resolveAnimals(ctx, in.AnimalIDs); err != nil {
		return Campaign{}, err
	}

	now := s.now()
	c := Campaign{
		ID:        uuid.NewString(),
		Name:      name,
		Date:      in.Date,
		Products:  strings.TrimSpace(in.Products),
		Notes:     strings.TrimSpace(in.Notes),
		Status:    status,
		AnimalIDs: in.AnimalIDs,
		CreatedAt: now,
		UpdatedAt: now,
	}

	// Scope excluyente: grupo (validando pertenencia) o caller, nunca ambos.
	if in.GroupID != "" {
		if _, err := s.groups.MemberUserIDs(ctx, in.GroupID, callerID); err != nil {
			return Campaign{}, err
		}
		c.GroupID = in.GroupID
	} else {
		c.OwnerID = callerID
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return Campaign{}, err
	}
	return c, nil
}

// Authorize carga la campaña y aplica la regla de acceso: dueño
// individual, o miembro del grupo de la campaña.
func (s *Service) Authorize(ctx context.Context, campaignID, callerID string) (Campaign, error) {
	c, err := s.repo.GetByID(ctx, campaignID)
	if err != nil {
		return Campaign{}, err
	}

	if c.OwnerID == callerID {
		return c, nil
	}
	if c.GroupID != "" {
		ok, err := s.groups.IsMember(ctx, c.GroupID, callerID)
		if err != nil {
			return Campaign{}, err
		}
		if ok {
			return c, nil
		}
	}
	return Campaign{}, faults.Forbidden("you do not have access to this campaign")
}

// FindAllForUser: campañas propias ∪ campañas de los grupos del usuario.
// Por la exclusividad de scope ambos conjuntos son disjuntos; la
// concatenación alcanza.
func (s *Service) FindAllForUser(ctx context.Context, userID string) ([]Campaign, error) {
	owned, err := s.repo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}

	groupIDs, err := s.groups.GroupIDsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	grouped, err := s.repo.ListByGroups(ctx, groupIDs)
	if err != nil {
		return nil, err
	}

	return append(owned, grouped...), nil
}

// FindAllForGroup lista las campañas del grupo; el caller debe ser miembro.
func (s *Service) FindAllForGroup(ctx context.Context, groupID, callerID string) ([]Campaign, error) {
	if _, err := s.groups.MemberUserIDs(ctx, groupID, callerID); err != nil {
		return nil, err
	}
	return s.repo.ListByGroups(ctx, []string{groupID})
}

type UpdateInput struct {
	Name      *string
	Date      *time.Time
	Products  *string
	Notes     *string
	Status    *Status
	AnimalIDs *[]string
}

func (s *Service) Update(ctx context.Context, campaignID, callerID string, in UpdateInput) (Campaign, error) {
	c, err := s.Authorize(ctx, campaignID, callerID)
	if err != nil {
		return Campaign{}, err
	}

	if in.AnimalIDs != nil {
		if err := s.resolveAnimals(ctx, *in.AnimalIDs); err != nil {
			return Campaign{}, err
		}
		c.AnimalIDs = *in.AnimalIDs
	}
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return Campaign{}, faults.ErrInvalidInput
		}
		c.Name = strings.TrimSpace(*in.Name)
	}
	if in.Date != nil {
		c.Date = *in.Date
	}
	if in.Products != nil {
		c.Products = strings.TrimSpace(*in.Products)
	}
	if in.Notes != nil {
		c.Notes = strings.TrimSpace(*in.Notes)
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return Campaign{}, faults.ErrInvalidInput
		}
		c.Status = *in.Status
	}
	c.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, c); err != nil {
		return Campaign{}, err
	}
	return c, nil
}

func (s *Service) Remove(ctx context.Context, campaignID, callerID string) error {
	if _, err := s.Authorize(ctx, campaignID, callerID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, campaignID)
}

func (s *Service) resolveAnimals(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	found, err := s.finder.FindByIDs(ctx, ids)
	if err != nil {
		return err
	}
	if len(found) != len(ids) {
		return faults.NotFound("one or more animals were not found")
	}
	return nil
}

package groups

import (
	"context"
	"errors"
	"strings"
	"time"

	"livestock-registry/internal/domain/faults"
	"livestock-registry/internal/domain/users"

	"github.com/google/uuid"
)

// UserDirectory resuelve invitaciones por email.
// Lo implementa users.Service.
type UserDirectory interface {
	FindByEmail(ctx context.Context, email string) (users.User, error)
}

type Service struct {
	repo    Repository
	members MembershipRepository
	dir     UserDirectory
	now     func() time.Time
}

func NewService(repo Repository, members MembershipRepository, dir UserDirectory) *Service {
	return &Service{
		repo:    repo,
		members: members,
		dir:     dir,
		now:     time.Now,
	}
}

// Create da de alta el grupo junto con la membresía Owner del creador.
func (s *Service) Create(ctx context.Context, name, ownerID string) (Group, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.TrimSpace(ownerID) == "" {
		return Group{}, faults.ErrInvalidInput
	}

	now := s.now()
	g := Group{
		ID:        uuid.NewString(),
		Name:      name,
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	owner := Membership{
		GroupID: g.ID,
		UserID:  ownerID,
		Role:    RoleOwner,
	}

	if err := s.repo.CreateWithOwner(ctx, g, owner); err != nil {
		return Group{}, err
	}
	return s.FindOne(ctx, g.ID, ownerID)
}

// FindOne carga el grupo con todos sus miembros.
// La membresía es el límite de visibilidad: sin ella, NotFound
// (no Forbidden: un no-miembro no debe saber que el grupo existe).
func (s *Service) FindOne(ctx context.Context, groupID, callerID string) (Group, error) {
	if _, err := s.members.Get(ctx, groupID, callerID); err != nil {
		return Group{}, faults.NotFound("group %s not found or not visible", groupID)
	}

	g, err := s.repo.GetByID(ctx, groupID)
	if err != nil {
		return Group{}, err
	}
	return g, nil
}

func (s *Service) FindAllForUser(ctx context.Context, userID string) ([]Group, error) {
	return s.repo.ListForUser(ctx, userID)
}

// Update modifica los atributos del grupo. Solo el propietario puede;
// un Admin no (gestiona miembros, no el grupo).
func (s *Service) Update(ctx context.Context, groupID, name, callerID string) (Group, error) {
	g, err := s.repo.GetByID(ctx, groupID)
	if err != nil {
		return Group{}, err
	}
	if g.OwnerID != callerID {
		return Group{}, faults.Forbidden("only the group owner may modify the group")
	}

	if name = strings.TrimSpace(name); name != "" {
		g.Name = name
	}
	g.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, g); err != nil {
		return Group{}, err
	}
	return s.FindOne(ctx, groupID, callerID)
}

// Remove destruye el grupo; cascadea a membresías y campañas del grupo.
func (s *Service) Remove(ctx context.Context, groupID, callerID string) error {
	g, err := s.repo.GetByID(ctx, groupID)
	if err != nil {
		return err
	}
	if g.OwnerID != callerID {
		return faults.Forbidden("only the group owner may delete the group")
	}
	return s.repo.Delete(ctx, groupID)
}

// InviteMember agrega al usuario con ese email como Admin o Member.
// El rol Owner no se asigna por invitación.
func (s *Service) InviteMember(ctx context.Context, groupID, email string, role Role, inviterID string) (Membership, error) {
	if role != RoleAdmin && role != RoleMember {
		return Membership{}, faults.ErrInvalidInput
	}
	if err := s.checkAdminPermissions(ctx, groupID, inviterID); err != nil {
		return Membership{}, err
	}

	invitee, err := s.dir.FindByEmail(ctx, email)
	if err != nil {
		return Membership{}, faults.NotFound("no user with email %s", email)
	}

	if _, err := s.members.Get(ctx, groupID, invitee.ID); err == nil {
		return Membership{}, faults.Conflict("user is already a member of this group")
	}

	m := Membership{
		GroupID: groupID,
		UserID:  invitee.ID,
		Role:    role,
	}
	// La carrera invite/invite para el mismo par la resuelve la constraint
	// compuesta del store: el perdedor recibe Conflict al persistir.
	if err := s.members.Create(ctx, m); err != nil {
		return Membership{}, err
	}
	return m, nil
}

// UpdateMemberRole cambia el rol de un miembro existente.
// La membresía Owner es inmutable.
func (s *Service) UpdateMemberRole(ctx context.Context, groupID, targetUserID string, newRole Role, updaterID string) (Membership, error) {
	if newRole != RoleAdmin && newRole != RoleMember {
		return Membership{}, faults.ErrInvalidInput
	}
	if err := s.checkAdminPermissions(ctx, groupID, updaterID); err != nil {
		return Membership{}, err
	}

	m, err := s.members.Get(ctx, groupID, targetUserID)
	if err != nil {
		return Membership{}, faults.NotFound("membership does not exist")
	}
	if m.Role == RoleOwner {
		return Membership{}, faults.Forbidden("the owner role cannot be changed")
	}

	m.Role = newRole
	if err := s.members.Update(ctx, m); err != nil {
		return Membership{}, err
	}
	return m, nil
}

// RemoveMember elimina una membresía. La del Owner nunca se elimina
// mientras exista el grupo.
func (s *Service) RemoveMember(ctx context.Context, groupID, targetUserID, removerID string) error {
	if err := s.checkAdminPermissions(ctx, groupID, removerID); err != nil {
		return err
	}

	m, err := s.members.Get(ctx, groupID, targetUserID)
	if err != nil {
		return faults.NotFound("membership does not exist")
	}
	if m.Role == RoleOwner {
		return faults.Forbidden("the group owner cannot be removed")
	}

	return s.members.Delete(ctx, groupID, targetUserID)
}

// UsersShareGroupWithAdminRole reporta si existe un grupo donde adminID
// es Owner o Admin y targetID tiene cualquier membresía. Lo usa el alta
// delegada de animales (registrar a nombre de otro dueño).
func (s *Service) UsersShareGroupWithAdminRole(ctx context.Context, adminID, targetID string) (bool, error) {
	return s.members.ExistsSharedGroup(ctx, adminID, targetID, []Role{RoleOwner, RoleAdmin})
}

// IsMember reporta si el usuario tiene membresía en el grupo.
func (s *Service) IsMember(ctx context.Context, groupID, userID string) (bool, error) {
	_, err := s.members.Get(ctx, groupID, userID)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, faults.ErrNotFound) {
		return false, nil
	}
	return false, err
}

// GroupIDsForUser devuelve los ids de grupo donde el usuario es miembro.
func (s *Service) GroupIDsForUser(ctx context.Context, userID string) ([]string, error) {
	ms, err := s.members.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(ms))
	for _, m := range ms {
		ids = append(ids, m.GroupID)
	}
	return ids, nil
}

// MemberUserIDs devuelve los ids de usuario de todos los miembros.
// Exige que el caller sea miembro (misma visibilidad que FindOne).
func (s *Service) MemberUserIDs(ctx context.Context, groupID, callerID string) ([]string, error) {
	g, err := s.FindOne(ctx, groupID, callerID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(g.Members))
	for _, m := range g.Members {
		ids = append(ids, m.UserID)
	}
	return ids, nil
}

func (s *Service) checkAdminPermissions(ctx context.Context, groupID, userID string) error {
	m, err := s.members.Get(ctx, groupID, userID)
	if err != nil || !m.Role.CanManageMembers() {
		return faults.Forbidden("you do not have permission to manage members of this group")
	}
	return nil
}

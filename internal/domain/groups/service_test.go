package groups

import (
	"context"
	"errors"
	"testing"

	"livestock-registry/internal/domain/faults"
	"livestock-registry/internal/domain/users"
)

// -------------------------
// Test repos (in-memory)
// -------------------------

type testStore struct {
	groups      map[string]Group
	memberships map[string]Membership // key groupID|userID
	users       map[string]users.User // key email
}

func newTestStore() *testStore {
	return &testStore{
		groups:      map[string]Group{},
		memberships: map[string]Membership{},
		users:       map[string]users.User{},
	}
}

func (s *testStore) addUser(id, name, email string) {
	s.users[email] = users.User{ID: id, Name: name, Email: email}
}

func key(groupID, userID string) string { return groupID + "|" + userID }

func (s *testStore) CreateWithOwner(ctx context.Context, g Group, owner Membership) error {
	s.groups[g.ID] = g
	s.memberships[key(owner.GroupID, owner.UserID)] = owner
	return nil
}

func (s *testStore) GetByID(ctx context.Context, id string) (Group, error) {
	g, ok := s.groups[id]
	if !ok {
		return Group{}, faults.NotFound("group %s", id)
	}
	g.Members = s.membersOf(id)
	return g, nil
}

func (s *testStore) Update(ctx context.Context, g Group) error {
	if _, ok := s.groups[g.ID]; !ok {
		return faults.NotFound("group %s", g.ID)
	}
	g.Members = nil
	s.groups[g.ID] = g
	return nil
}

func (s *testStore) Delete(ctx context.Context, id string) error {
	delete(s.groups, id)
	for k, m := range s.memberships {
		if m.GroupID == id {
			delete(s.memberships, k)
		}
	}
	return nil
}

func (s *testStore) ListForUser(ctx context.Context, userID string) ([]Group, error) {
	out := []Group{}
	for _, m := range s.memberships {
		if m.UserID != userID {
			continue
		}
		g := s.groups[m.GroupID]
		g.Members = s.membersOf(g.ID)
		out = append(out, g)
	}
	return out, nil
}

func (s *testStore) membersOf(groupID string) []Membership {
	out := []Membership{}
	for _, m := range s.memberships {
		if m.GroupID == groupID {
			out = append(out, m)
		}
	}
	return out
}

func (s *testStore) Create(ctx context.Context, m Membership) error {
	if _, ok := s.memberships[key(m.GroupID, m.UserID)]; ok {
		return faults.Conflict("membership exists")
	}
	s.memberships[key(m.GroupID, m.UserID)] = m
	return nil
}

func (s *testStore) Get(ctx context.Context, groupID, userID string) (Membership, error) {
	m, ok := s.memberships[key(groupID, userID)]
	if !ok {
		return Membership{}, faults.NotFound("membership")
	}
	return m, nil
}

func (s *testStore) UpdateMembership(ctx context.Context, m Membership) error {
	s.memberships[key(m.GroupID, m.UserID)] = m
	return nil
}

func (s *testStore) DeleteMembership(ctx context.Context, groupID, userID string) error {
	delete(s.memberships, key(groupID, userID))
	return nil
}

func (s *testStore) ListByGroup(ctx context.Context, groupID string) ([]Membership, error) {
	return s.membersOf(groupID), nil
}

func (s *testStore) ListByUser(ctx context.Context, userID string) ([]Membership, error) {
	out := []Membership{}
	for _, m := range s.memberships {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *testStore) ExistsSharedGroup(ctx context.Context, adminID, memberID string, roles []Role) (bool, error) {
	for _, a := range s.memberships {
		if a.UserID != adminID {
			continue
		}
		ok := false
		for _, r := range roles {
			if a.Role == r {
				ok = true
			}
		}
		if !ok {
			continue
		}
		for _, b := range s.memberships {
			if b.GroupID == a.GroupID && b.UserID == memberID {
				return true, nil
			}
		}
	}
	return false, nil
}

func (s *testStore) FindByEmail(ctx context.Context, email string) (users.User, error) {
	u, ok := s.users[email]
	if !ok {
		return users.User{}, faults.NotFound("user")
	}
	return u, nil
}

// membershipView separa la interfaz de membresías de la de grupos,
// que comparten el mismo testStore.
type membershipView struct{ s *testStore }

func (v membershipView) Create(ctx context.Context, m Membership) error { return v.s.Create(ctx, m) }
func (v membershipView) Get(ctx context.Context, groupID, userID string) (Membership, error) {
	return v.s.Get(ctx, groupID, userID)
}
func (v membershipView) Update(ctx context.Context, m Membership) error {
	return v.s.UpdateMembership(ctx, m)
}
func (v membershipView) Delete(ctx context.Context, groupID, userID string) error {
	return v.s.DeleteMembership(ctx, groupID, userID)
}
func (v membershipView) ListByGroup(ctx context.Context, groupID string) ([]Membership, error) {
	return v.s.ListByGroup(ctx, groupID)
}
func (v membershipView) ListByUser(ctx context.Context, userID string) ([]Membership, error) {
	return v.s.ListByUser(ctx, userID)
}
func (v membershipView) ExistsSharedGroup(ctx context.Context, adminID, memberID string, roles []Role) (bool, error) {
	return v.s.ExistsSharedGroup(ctx, adminID, memberID, roles)
}

func newTestService() (*Service, *testStore) {
	store := newTestStore()
	svc := NewService(store, membershipView{store}, store)
	return svc, store
}

// -------------------------
// Tests
// -------------------------

func TestService_Create_OwnerGetsOwnerMembership(t *testing.T) {
	svc, _ := newTestService()

	g, err := svc.Create(context.Background(), "Tambo Sur", "u1")
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if g.OwnerID != "u1" {
		t.Fatalf("expected owner u1, got %s", g.OwnerID)
	}
	if len(g.Members) != 1 || g.Members[0].Role != RoleOwner {
		t.Fatalf("expected single Owner membership, got %#v", g.Members)
	}
}

func TestService_FindOne_NonMemberGetsNotFound(t *testing.T) {
	svc, _ := newTestService()

	g, _ := svc.Create(context.Background(), "Tambo Sur", "u1")

	_, err := svc.FindOne(context.Background(), g.ID, "u2")
	if !errors.Is(err, faults.ErrNotFound) {
		t.Fatalf("expected NotFound for non-member, got %v", err)
	}
}

func TestService_InviteMember_RejectsOwnerRole(t *testing.T) {
	svc, store := newTestService()
	store.addUser("u2", "Ana", "ana@x.com")

	g, _ := svc.Create(context.Background(), "Tambo Sur", "u1")

	_, err := svc.InviteMember(context.Background(), g.ID, "ana@x.com", RoleOwner, "u1")
	if !errors.Is(err, faults.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput inviting as Owner, got %v", err)
	}
}

func TestService_InviteMember_UnknownEmailNotFound(t *testing.T) {
	svc, _ := newTestService()

	g, _ := svc.Create(context.Background(), "Tambo Sur", "u1")

	_, err := svc.InviteMember(context.Background(), g.ID, "nadie@x.com", RoleMember, "u1")
	if !errors.Is(err, faults.ErrNotFound) {
		t.Fatalf("expected NotFound for unknown email, got %v", err)
	}
}

func TestService_InviteMember_DuplicateConflict(t *testing.T) {
	svc, store := newTestService()
	store.addUser("u2", "Ana", "ana@x.com")

	g, _ := svc.Create(context.Background(), "Tambo Sur", "u1")

	if _, err := svc.InviteMember(context.Background(), g.ID, "ana@x.com", RoleMember, "u1"); err != nil {
		t.Fatalf("first invite error: %v", err)
	}
	_, err := svc.InviteMember(context.Background(), g.ID, "ana@x.com", RoleAdmin, "u1")
	if !errors.Is(err, faults.ErrConflict) {
		t.Fatalf("expected Conflict on duplicate invite, got %v", err)
	}
}

func TestService_MemberCannotManage_AdminCan(t *testing.T) {
	svc, store := newTestService()
	store.addUser("u2", "Ana", "ana@x.com")
	store.addUser("u3", "Bruno", "bruno@x.com")
	store.addUser("u4", "Carla", "carla@x.com")

	g, _ := svc.Create(context.Background(), "Tambo Sur", "u1")
	if _, err := svc.InviteMember(context.Background(), g.ID, "ana@x.com", RoleAdmin, "u1"); err != nil {
		t.Fatalf("invite admin: %v", err)
	}
	if _, err := svc.InviteMember(context.Background(), g.ID, "bruno@x.com", RoleMember, "u1"); err != nil {
		t.Fatalf("invite member: %v", err)
	}

	// El rol Member no gestiona miembros.
	if _, err := svc.InviteMember(context.Background(), g.ID, "carla@x.com", RoleMember, "u3"); !errors.Is(err, faults.ErrForbidden) {
		t.Fatalf("expected Forbidden for member inviting, got %v", err)
	}
	if err := svc.RemoveMember(context.Background(), g.ID, "u2", "u3"); !errors.Is(err, faults.ErrForbidden) {
		t.Fatalf("expected Forbidden for member removing, got %v", err)
	}

	// Un Admin sí puede sacar a un Member.
	if err := svc.RemoveMember(context.Background(), g.ID, "u3", "u2"); err != nil {
		t.Fatalf("admin removing member: %v", err)
	}
	ok, _ := svc.IsMember(context.Background(), g.ID, "u3")
	if ok {
		t.Fatalf("expected u3 removed from group")
	}
}

func TestService_OwnerMembershipImmutable(t *testing.T) {
	svc, store := newTestService()
	store.addUser("u2", "Ana", "ana@x.com")

	g, _ := svc.Create(context.Background(), "Tambo Sur", "u1")
	if _, err := svc.InviteMember(context.Background(), g.ID, "ana@x.com", RoleAdmin, "u1"); err != nil {
		t.Fatalf("invite admin: %v", err)
	}

	// Ni el propio Owner puede degradarse, ni un Admin puede tocarlo.
	if _, err := svc.UpdateMemberRole(context.Background(), g.ID, "u1", RoleMember, "u1"); !errors.Is(err, faults.ErrForbidden) {
		t.Fatalf("expected Forbidden changing owner role, got %v", err)
	}
	if err := svc.RemoveMember(context.Background(), g.ID, "u1", "u2"); !errors.Is(err, faults.ErrForbidden) {
		t.Fatalf("expected Forbidden removing owner, got %v", err)
	}
}

func TestService_UpdateAndRemoveGroup_OwnerOnly(t *testing.T) {
	svc, store := newTestService()
	store.addUser("u2", "Ana", "ana@x.com")

	g, _ := svc.Create(context.Background(), "Tambo Sur", "u1")
	if _, err := svc.InviteMember(context.Background(), g.ID, "ana@x.com", RoleAdmin, "u1"); err != nil {
		t.Fatalf("invite admin: %v", err)
	}

	// Un Admin gestiona miembros pero no el grupo en sí.
	if _, err := svc.Update(context.Background(), g.ID, "Otro nombre", "u2"); !errors.Is(err, faults.ErrForbidden) {
		t.Fatalf("expected Forbidden for admin updating group, got %v", err)
	}
	if err := svc.Remove(context.Background(), g.ID, "u2"); !errors.Is(err, faults.ErrForbidden) {
		t.Fatalf("expected Forbidden for admin deleting group, got %v", err)
	}

	updated, err := svc.Update(context.Background(), g.ID, "Tambo Norte", "u1")
	if err != nil {
		t.Fatalf("owner update error: %v", err)
	}
	if updated.Name != "Tambo Norte" {
		t.Fatalf("expected renamed group, got %s", updated.Name)
	}
}

func TestService_UsersShareGroupWithAdminRole(t *testing.T) {
	svc, store := newTestService()
	store.addUser("u2", "Ana", "ana@x.com")
	store.addUser("u3", "Bruno", "bruno@x.com")

	g, _ := svc.Create(context.Background(), "Tambo Sur", "u1")
	if _, err := svc.InviteMember(context.Background(), g.ID, "ana@x.com", RoleMember, "u1"); err != nil {
		t.Fatalf("invite: %v", err)
	}

	// u1 es Owner y comparte grupo con u2.
	ok, err := svc.UsersShareGroupWithAdminRole(context.Background(), "u1", "u2")
	if err != nil || !ok {
		t.Fatalf("expected shared group with admin role, got ok=%v err=%v", ok, err)
	}

	// u2 es Member: no alcanza para actuar sobre u1.
	ok, _ = svc.UsersShareGroupWithAdminRole(context.Background(), "u2", "u1")
	if ok {
		t.Fatalf("member role must not count as admin")
	}

	// u3 no comparte ningún grupo.
	ok, _ = svc.UsersShareGroupWithAdminRole(context.Background(), "u1", "u3")
	if ok {
		t.Fatalf("expected no shared group with u3")
	}
}

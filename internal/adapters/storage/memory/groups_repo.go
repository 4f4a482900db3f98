package memory

import (
	"context"
	"sort"

	"livestock-registry/internal/domain/faults"
	"livestock-registry/internal/domain/groups"
)

type groupRepo struct {
	s *Store
}

func (s *Store) Groups() groups.Repository {
	return &groupRepo{s: s}
}

func (r *groupRepo) CreateWithOwner(ctx context.Context, g groups.Group, owner groups.Membership) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.groups[g.ID]; exists {
		return faults.Conflict("group %s already exists", g.ID)
	}
	// Alta atómica bajo el mismo lock: grupo y membresía Owner juntos.
	r.s.groups[g.ID] = g
	r.s.memberships[membershipKey(owner.GroupID, owner.UserID)] = owner
	return nil
}

func (r *groupRepo) GetByID(ctx context.Context, id string) (groups.Group, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.getLocked(id)
}

func (r *groupRepo) getLocked(id string) (groups.Group, error) {
	g, ok := r.s.groups[id]
	if !ok {
		return groups.Group{}, faults.NotFound("group %s", id)
	}
	g.Members = r.s.membersOfLocked(id)
	return g, nil
}

func (r *groupRepo) Update(ctx context.Context, g groups.Group) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.groups[g.ID]
	if !ok {
		return faults.NotFound("group %s", g.ID)
	}
	current.Name = g.Name
	current.UpdatedAt = g.UpdatedAt
	r.s.groups[g.ID] = current
	return nil
}

func (r *groupRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.groups[id]; !ok {
		return faults.NotFound("group %s", id)
	}
	r.s.deleteGroupLocked(id)
	return nil
}

func (r *groupRepo) ListForUser(ctx context.Context, userID string) ([]groups.Group, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]groups.Group, 0)
	for _, m := range r.s.memberships {
		if m.UserID != userID {
			continue
		}
		if g, err := r.getLocked(m.GroupID); err == nil {
			out = append(out, g)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// membersOfLocked arma la lista de membresías con los datos de usuario
// cargados. Requiere s.mu tomado al menos en lectura.
func (s *Store) membersOfLocked(groupID string) []groups.Membership {
	out := make([]groups.Membership, 0)
	for _, m := range s.memberships {
		if m.GroupID != groupID {
			continue
		}
		if u, ok := s.users[m.UserID]; ok {
			m.UserName = u.Name
			m.UserEmail = u.Email
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].UserID < out[j].UserID
	})
	return out
}

type membershipRepo struct {
	s *Store
}

func (s *Store) Memberships() groups.MembershipRepository {
	return &membershipRepo{s: s}
}

func (r *membershipRepo) Create(ctx context.Context, m groups.Membership) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := membershipKey(m.GroupID, m.UserID)
	// Constraint compuesta (groupID, userID): el segundo alta pierde.
	if _, exists := r.s.memberships[key]; exists {
		return faults.Conflict("user is already a member of this group")
	}
	r.s.memberships[key] = m
	return nil
}

func (r *membershipRepo) Get(ctx context.Context, groupID, userID string) (groups.Membership, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	m, ok := r.s.memberships[membershipKey(groupID, userID)]
	if !ok {
		return groups.Membership{}, faults.NotFound("membership (%s, %s)", groupID, userID)
	}
	return m, nil
}

func (r *membershipRepo) Update(ctx context.Context, m groups.Membership) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := membershipKey(m.GroupID, m.UserID)
	if _, ok := r.s.memberships[key]; !ok {
		return faults.NotFound("membership (%s, %s)", m.GroupID, m.UserID)
	}
	r.s.memberships[key] = m
	return nil
}

func (r *membershipRepo) Delete(ctx context.Context, groupID, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := membershipKey(groupID, userID)
	if _, ok := r.s.memberships[key]; !ok {
		return faults.NotFound("membership (%s, %s)", groupID, userID)
	}
	delete(r.s.memberships, key)
	return nil
}

func (r *membershipRepo) ListByGroup(ctx context.Context, groupID string) ([]groups.Membership, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.membersOfLocked(groupID), nil
}

func (r *membershipRepo) ListByUser(ctx context.Context, userID string) ([]groups.Membership, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]groups.Membership, 0)
	for _, m := range r.s.memberships {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].GroupID < out[j].GroupID
	})
	return out, nil
}

func (r *membershipRepo) ExistsSharedGroup(ctx context.Context, adminID, memberID string, roles []groups.Role) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, admin := range r.s.memberships {
		if admin.UserID != adminID {
			continue
		}
		roleOK := false
		for _, role := range roles {
			if admin.Role == role {
				roleOK = true
				break
			}
		}
		if !roleOK {
			continue
		}
		if _, ok := r.s.memberships[membershipKey(admin.GroupID, memberID)]; ok {
			return true, nil
		}
	}
	return false, nil
}

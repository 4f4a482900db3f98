package memory

import (
	"context"

	"livestock-registry/internal/domain/faults"
	"livestock-registry/internal/domain/users"
)

type userRepo struct {
	s *Store
}

func (s *Store) Users() users.Repository {
	return &userRepo{s: s}
}

func (r *userRepo) Create(ctx context.Context, u users.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.users {
		if existing.Email == u.Email {
			return faults.Conflict("email %s already in use", u.Email)
		}
	}
	r.s.users[u.ID] = u
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, id string) (users.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return users.User{}, faults.NotFound("user %s", id)
	}
	return u, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (users.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return users.User{}, faults.NotFound("user with email %s", email)
}

func (r *userRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[id]; !ok {
		return faults.NotFound("user %s", id)
	}
	delete(r.s.users, id)

	// Cascada: animales propios (con sus eventos), grupos propios,
	// membresías y campañas individuales del usuario.
	for aid, a := range r.s.animals {
		if a.OwnerID == id {
			r.s.deleteAnimalLocked(aid)
		}
	}
	for gid, g := range r.s.groups {
		if g.OwnerID == id {
			r.s.deleteGroupLocked(gid)
		}
	}
	for k, m := range r.s.memberships {
		if m.UserID == id {
			delete(r.s.memberships, k)
		}
	}
	for k, c := range r.s.campaigns {
		if c.OwnerID == id {
			delete(r.s.campaigns, k)
		}
	}
	return nil
}

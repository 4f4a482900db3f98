package memory

import (
	"context"
	"sort"

	"livestock-registry/internal/domain/animals"
	"livestock-registry/internal/domain/faults"
)

type animalRepo struct {
	s *Store
}

func (s *Store) Animals() animals.Repository {
	return &animalRepo{s: s}
}

func (r *animalRepo) Create(ctx context.Context, a animals.Animal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.animals[a.ID]; exists {
		return faults.Conflict("animal %s already exists", a.ID)
	}
	r.s.animals[a.ID] = a
	return nil
}

func (r *animalRepo) GetByID(ctx context.Context, id string) (animals.Animal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	a, ok := r.s.animals[id]
	if !ok {
		return animals.Animal{}, faults.NotFound("animal %s", id)
	}
	return a, nil
}

func (r *animalRepo) Update(ctx context.Context, a animals.Animal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.animals[a.ID]; !ok {
		return faults.NotFound("animal %s", a.ID)
	}
	r.s.animals[a.ID] = a
	return nil
}

func (r *animalRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.animals[id]; !ok {
		return faults.NotFound("animal %s", id)
	}
	r.s.deleteAnimalLocked(id)
	return nil
}

func (r *animalRepo) ListByOwners(ctx context.Context, ownerIDs []string, p animals.Page) ([]animals.Animal, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	owners := make(map[string]bool, len(ownerIDs))
	for _, id := range ownerIDs {
		owners[id] = true
	}

	all := make([]animals.Animal, 0)
	for _, a := range r.s.animals {
		if owners[a.OwnerID] {
			all = append(all, a)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.Before(all[j].CreatedAt)
	})

	total := len(all)
	offset := p.Offset()
	if offset >= total {
		return []animals.Animal{}, total, nil
	}
	end := offset + pageLimit(p)
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func pageLimit(p animals.Page) int {
	if p.Limit < 1 {
		return 10
	}
	return p.Limit
}

func (r *animalRepo) FindByIDs(ctx context.Context, ids []string) ([]animals.Animal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]animals.Animal, 0, len(ids))
	for _, id := range ids {
		if a, ok := r.s.animals[id]; ok {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *animalRepo) ListChildren(ctx context.Context, parentID string) ([]animals.Animal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]animals.Animal, 0)
	for _, a := range r.s.animals {
		if a.MotherID == parentID || a.FatherID == parentID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

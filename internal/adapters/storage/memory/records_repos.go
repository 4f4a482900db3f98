package memory

import (
	"context"
	"sort"
	"time"

	"livestock-registry/internal/domain/births"
	"livestock-registry/internal/domain/faults"
	"livestock-registry/internal/domain/history"
	"livestock-registry/internal/domain/states"
	"livestock-registry/internal/domain/vaccinations"
)

// ownerOfLocked resuelve el dueño del animal referido por un registro de
// evento. Requiere s.mu tomado al menos en lectura. ("", false) si la
// relación está colgante.
func (s *Store) ownerOfLocked(animalID string) (string, bool) {
	a, ok := s.animals[animalID]
	if !ok {
		return "", false
	}
	return a.OwnerID, true
}

// ---- vacunaciones ----

type vaccinationRepo struct {
	s *Store
}

func (s *Store) Vaccinations() vaccinations.Repository {
	return &vaccinationRepo{s: s}
}

func (r *vaccinationRepo) Create(ctx context.Context, v vaccinations.Vaccination) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.vaccinations[v.ID] = v
	return nil
}

func (r *vaccinationRepo) GetByID(ctx context.Context, id string) (vaccinations.Vaccination, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	v, ok := r.s.vaccinations[id]
	if !ok {
		return vaccinations.Vaccination{}, faults.NotFound("vaccination %s", id)
	}
	owner, ok := r.s.ownerOfLocked(v.AnimalID)
	if !ok {
		return vaccinations.Vaccination{}, faults.NotFound("animal of vaccination %s", id)
	}
	v.AnimalOwnerID = owner
	return v, nil
}

func (r *vaccinationRepo) ListByAnimal(ctx context.Context, animalID string) ([]vaccinations.Vaccination, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]vaccinations.Vaccination, 0)
	for _, v := range r.s.vaccinations {
		if v.AnimalID == animalID {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out, nil
}

func (r *vaccinationRepo) Update(ctx context.Context, v vaccinations.Vaccination) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.vaccinations[v.ID]; !ok {
		return faults.NotFound("vaccination %s", v.ID)
	}
	r.s.vaccinations[v.ID] = v
	return nil
}

func (r *vaccinationRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.vaccinations[id]; !ok {
		return faults.NotFound("vaccination %s", id)
	}
	delete(r.s.vaccinations, id)
	return nil
}

// ---- estados ----

type stateRepo struct {
	s *Store
}

func (s *Store) States() states.Repository {
	return &stateRepo{s: s}
}

func (r *stateRepo) Create(ctx context.Context, st states.State) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.states[st.ID] = st
	return nil
}

func (r *stateRepo) GetByID(ctx context.Context, id string) (states.State, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	st, ok := r.s.states[id]
	if !ok {
		return states.State{}, faults.NotFound("state %s", id)
	}
	owner, ok := r.s.ownerOfLocked(st.AnimalID)
	if !ok {
		return states.State{}, faults.NotFound("animal of state %s", id)
	}
	st.AnimalOwnerID = owner
	return st, nil
}

func (r *stateRepo) ListByAnimal(ctx context.Context, animalID string, activeOnly bool) ([]states.State, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]states.State, 0)
	for _, st := range r.s.states {
		if st.AnimalID != animalID {
			continue
		}
		if activeOnly && !st.Active {
			continue
		}
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].StartDate.After(out[j].StartDate)
	})
	return out, nil
}

func (r *stateRepo) Update(ctx context.Context, st states.State) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.states[st.ID]; !ok {
		return faults.NotFound("state %s", st.ID)
	}
	r.s.states[st.ID] = st
	return nil
}

func (r *stateRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.states[id]; !ok {
		return faults.NotFound("state %s", id)
	}
	delete(r.s.states, id)
	return nil
}

func (r *stateRepo) DeactivateActive(ctx context.Context, animalID string, t states.StateType, endDate time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for k, st := range r.s.states {
		if st.AnimalID == animalID && st.Type == t && st.Active {
			st.Active = false
			end := endDate
			st.EndDate = &end
			r.s.states[k] = st
		}
	}
	return nil
}

// ---- historial ----

type historyRepo struct {
	s *Store
}

func (s *Store) History() history.Repository {
	return &historyRepo{s: s}
}

func (r *historyRepo) Create(ctx context.Context, e history.Entry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.entries[e.ID] = e
	return nil
}

func (r *historyRepo) GetByID(ctx context.Context, id string) (history.Entry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	e, ok := r.s.entries[id]
	if !ok {
		return history.Entry{}, faults.NotFound("history entry %s", id)
	}
	owner, ok := r.s.ownerOfLocked(e.AnimalID)
	if !ok {
		return history.Entry{}, faults.NotFound("animal of history entry %s", id)
	}
	e.AnimalOwnerID = owner
	return e, nil
}

func (r *historyRepo) ListByAnimal(ctx context.Context, animalID string) ([]history.Entry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]history.Entry, 0)
	for _, e := range r.s.entries {
		if e.AnimalID == animalID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *historyRepo) Update(ctx context.Context, e history.Entry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.entries[e.ID]; !ok {
		return faults.NotFound("history entry %s", e.ID)
	}
	r.s.entries[e.ID] = e
	return nil
}

func (r *historyRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.entries[id]; !ok {
		return faults.NotFound("history entry %s", id)
	}
	delete(r.s.entries, id)
	return nil
}

// ---- partos ----

type birthRepo struct {
	s *Store
}

func (s *Store) Births() births.Repository {
	return &birthRepo{s: s}
}

func (r *birthRepo) Create(ctx context.Context, b births.Birth) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.births[b.ID] = b
	return nil
}

func (r *birthRepo) GetByID(ctx context.Context, id string) (births.Birth, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	b, ok := r.s.births[id]
	if !ok {
		return births.Birth{}, faults.NotFound("birth %s", id)
	}
	owner, ok := r.s.ownerOfLocked(b.MotherID)
	if !ok {
		return births.Birth{}, faults.NotFound("mother of birth %s", id)
	}
	b.MotherOwnerID = owner
	return b, nil
}

func (r *birthRepo) ListByMother(ctx context.Context, motherID string) ([]births.Birth, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]births.Birth, 0)
	for _, b := range r.s.births {
		if b.MotherID == motherID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out, nil
}

func (r *birthRepo) Update(ctx context.Context, b births.Birth) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.births[b.ID]; !ok {
		return faults.NotFound("birth %s", b.ID)
	}
	r.s.births[b.ID] = b
	return nil
}

func (r *birthRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.births[id]; !ok {
		return faults.NotFound("birth %s", id)
	}
	delete(r.s.births, id)
	return nil
}

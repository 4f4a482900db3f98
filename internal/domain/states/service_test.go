package states

import (
	"context"
	"errors"
	"testing"
	"time"

	"livestock-registry/internal/domain/animals"
	"livestock-registry/internal/domain/faults"
)

type testRepo struct {
	byID   map[string]State
	owners map[string]string // animalID -> ownerID, para resolver en lecturas
}

func newTestRepo(owners map[string]string) *testRepo {
	return &testRepo{byID: map[string]State{}, owners: owners}
}

func (r *testRepo) Create(ctx context.Context, st State) error {
	r.byID[st.ID] = st
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (State, error) {
	st, ok := r.byID[id]
	if !ok {
		return State{}, faults.NotFound("state %s", id)
	}
	owner, ok := r.owners[st.AnimalID]
	if !ok {
		return State{}, faults.NotFound("state %s", id)
	}
	st.AnimalOwnerID = owner
	return st, nil
}

func (r *testRepo) ListByAnimal(ctx context.Context, animalID string, activeOnly bool) ([]State, error) {
	out := []State{}
	for _, st := range r.byID {
		if st.AnimalID != animalID {
			continue
		}
		if activeOnly && !st.Active {
			continue
		}
		st.AnimalOwnerID = r.owners[animalID]
		out = append(out, st)
	}
	return out, nil
}

func (r *testRepo) Update(ctx context.Context, st State) error {
	if _, ok := r.byID[st.ID]; !ok {
		return faults.NotFound("state %s", st.ID)
	}
	r.byID[st.ID] = st
	return nil
}

func (r *testRepo) Delete(ctx context.Context, id string) error {
	delete(r.byID, id)
	return nil
}

func (r *testRepo) DeactivateActive(ctx context.Context, animalID string, t StateType, endDate time.Time) error {
	for id, st := range r.byID {
		if st.AnimalID == animalID && st.Type == t && st.Active {
			st.Active = false
			end := endDate
			st.EndDate = &end
			r.byID[id] = st
		}
	}
	return nil
}

type fakeAnimals struct {
	owners map[string]string
}

func (f *fakeAnimals) Authorize(ctx context.Context, animalID, callerID string) (animals.Animal, error) {
	owner, ok := f.owners[animalID]
	if !ok {
		return animals.Animal{}, faults.NotFound("animal %s", animalID)
	}
	if owner != callerID {
		return animals.Animal{}, faults.Forbidden("you do not own this animal")
	}
	return animals.Animal{ID: animalID, OwnerID: owner}, nil
}

func newTestService() (*Service, *testRepo) {
	owners := map[string]string{"an-1": "u1"}
	repo := newTestRepo(owners)
	svc := NewService(repo, &fakeAnimals{owners: owners})
	return svc, repo
}

var day = time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

func TestService_Create_DeactivatesPriorActiveOfSameType(t *testing.T) {
	svc, repo := newTestService()

	first, err := svc.Create(context.Background(), "an-1", "u1", CreateInput{
		Type: StateSick, StartDate: day,
	})
	if err != nil {
		t.Fatalf("first create: %v", err)
	}

	second, err := svc.Create(context.Background(), "an-1", "u1", CreateInput{
		Type: StateSick, StartDate: day.AddDate(0, 0, 10),
	})
	if err != nil {
		t.Fatalf("second create: %v", err)
	}
	if !second.Active {
		t.Fatalf("expected new state active")
	}

	prev := repo.byID[first.ID]
	if prev.Active {
		t.Fatalf("expected prior state of same type deactivated")
	}
	if prev.EndDate == nil || !prev.EndDate.Equal(day.AddDate(0, 0, 10)) {
		t.Fatalf("expected prior state stamped with new start date, got %v", prev.EndDate)
	}
}

func TestService_Create_DifferentTypeStaysActive(t *testing.T) {
	svc, repo := newTestService()

	sick, err := svc.Create(context.Background(), "an-1", "u1", CreateInput{Type: StateSick, StartDate: day})
	if err != nil {
		t.Fatalf("create sick: %v", err)
	}
	if _, err := svc.Create(context.Background(), "an-1", "u1", CreateInput{Type: StatePregnant, StartDate: day}); err != nil {
		t.Fatalf("create pregnant: %v", err)
	}

	if !repo.byID[sick.ID].Active {
		t.Fatalf("state of a different type must stay active")
	}
}

func TestService_Create_InactiveDoesNotTouchActive(t *testing.T) {
	svc, repo := newTestService()

	active, err := svc.Create(context.Background(), "an-1", "u1", CreateInput{Type: StateSick, StartDate: day})
	if err != nil {
		t.Fatalf("create active: %v", err)
	}

	no := false
	end := day.AddDate(0, 0, 5)
	if _, err := svc.Create(context.Background(), "an-1", "u1", CreateInput{
		Type: StateSick, StartDate: day, EndDate: &end, Active: &no,
	}); err != nil {
		t.Fatalf("create inactive: %v", err)
	}

	if !repo.byID[active.ID].Active {
		t.Fatalf("an inactive entry must not close the active one")
	}
}

func TestService_ListActive_FiltersInactive(t *testing.T) {
	svc, _ := newTestService()

	if _, err := svc.Create(context.Background(), "an-1", "u1", CreateInput{Type: StateSick, StartDate: day}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(context.Background(), "an-1", "u1", CreateInput{Type: StateSick, StartDate: day.AddDate(0, 0, 1)}); err != nil {
		t.Fatalf("create: %v", err)
	}

	all, err := svc.ListByAnimal(context.Background(), "an-1", "u1")
	if err != nil {
		t.Fatalf("ListByAnimal: %v", err)
	}
	active, err := svc.ListActive(context.Background(), "an-1", "u1")
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}

	if len(all) != 2 || len(active) != 1 {
		t.Fatalf("expected 2 total / 1 active, got %d / %d", len(all), len(active))
	}
}

func TestService_Create_GatedByOwnership(t *testing.T) {
	svc, _ := newTestService()

	if _, err := svc.Create(context.Background(), "an-1", "u2", CreateInput{Type: StateSick, StartDate: day}); !errors.Is(err, faults.ErrForbidden) {
		t.Fatalf("expected Forbidden for non-owner, got %v", err)
	}
	if _, err := svc.Create(context.Background(), "an-1", "u1", CreateInput{Type: StateType("BAD"), StartDate: day}); !errors.Is(err, faults.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for bad type, got %v", err)
	}
}

func TestService_GetByID_DerivesOwnershipFromAnimal(t *testing.T) {
	svc, repo := newTestService()

	st, err := svc.Create(context.Background(), "an-1", "u1", CreateInput{
		Type: StateSick, StartDate: day,
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	if _, err := svc.GetByID(context.Background(), st.ID, "u2"); !errors.Is(err, faults.ErrForbidden) {
		t.Fatalf("expected Forbidden for non-owner, got %v", err)
	}

	// El animal cambia de dueño: el estado lo sigue.
	repo.owners["an-1"] = "u2"
	if _, err := svc.GetByID(context.Background(), st.ID, "u2"); err != nil {
		t.Fatalf("new owner must read the state: %v", err)
	}
	if _, err := svc.GetByID(context.Background(), st.ID, "u1"); !errors.Is(err, faults.ErrForbidden) {
		t.Fatalf("expected Forbidden for previous owner, got %v", err)
	}
}

package vaccinations

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"livestock-registry/internal/domain/animals"
	"livestock-registry/internal/domain/faults"
)

// -------------------------
// Test repo y fake de animales
// -------------------------

type testRepo struct {
	byID   map[string]Vaccination
	owners map[string]string // animalID -> ownerID, para resolver en lecturas
}

func newTestRepo(owners map[string]string) *testRepo {
	return &testRepo{byID: map[string]Vaccination{}, owners: owners}
}

func (r *testRepo) Create(ctx context.Context, v Vaccination) error {
	r.byID[v.ID] = v
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Vaccination, error) {
	v, ok := r.byID[id]
	if !ok {
		return Vaccination{}, faults.NotFound("vaccination %s", id)
	}
	owner, ok := r.owners[v.AnimalID]
	if !ok {
		return Vaccination{}, faults.NotFound("vaccination %s", id)
	}
	v.AnimalOwnerID = owner
	return v, nil
}

func (r *testRepo) ListByAnimal(ctx context.Context, animalID string) ([]Vaccination, error) {
	out := []Vaccination{}
	for _, v := range r.byID {
		if v.AnimalID == animalID {
			v.AnimalOwnerID = r.owners[animalID]
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (r *testRepo) Update(ctx context.Context, v Vaccination) error {
	if _, ok := r.byID[v.ID]; !ok {
		return faults.NotFound("vaccination %s", v.ID)
	}
	r.byID[v.ID] = v
	return nil
}

func (r *testRepo) Delete(ctx context.Context, id string) error {
	delete(r.byID, id)
	return nil
}

// fakeAnimals implementa AnimalAuthority sobre un mapa animal -> dueño.
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

func newTestService(owners map[string]string) (*Service, *testRepo) {
	repo := newTestRepo(owners)
	svc := NewService(repo, &fakeAnimals{owners: owners})
	return svc, repo
}

var testDate = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

// -------------------------
// Tests
// -------------------------

func TestService_Create_RequiresAnimalOwnership(t *testing.T) {
	svc, _ := newTestService(map[string]string{"an-1": "u1"})

	in := CreateInput{VaccineName: "Aftosa", Date: testDate}

	if _, err := svc.Create(context.Background(), "an-1", "u2", in); !errors.Is(err, faults.ErrForbidden) {
		t.Fatalf("expected Forbidden for non-owner, got %v", err)
	}
	if _, err := svc.Create(context.Background(), "nope", "u1", in); !errors.Is(err, faults.ErrNotFound) {
		t.Fatalf("expected NotFound for unknown animal, got %v", err)
	}

	v, err := svc.Create(context.Background(), "an-1", "u1", in)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if v.RecordedBy != "u1" {
		t.Fatalf("expected recorded_by u1, got %s", v.RecordedBy)
	}
}

func TestService_GetByID_DerivesOwnershipFromAnimal(t *testing.T) {
	owners := map[string]string{"an-1": "u1"}
	svc, _ := newTestService(owners)

	v, err := svc.Create(context.Background(), "an-1", "u1", CreateInput{VaccineName: "Aftosa", Date: testDate})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	if _, err := svc.GetByID(context.Background(), v.ID, "u1"); err != nil {
		t.Fatalf("owner read error: %v", err)
	}
	if _, err := svc.GetByID(context.Background(), v.ID, "u2"); !errors.Is(err, faults.ErrForbidden) {
		t.Fatalf("expected Forbidden reading another owner's record, got %v", err)
	}

	// Si el animal cambia de dueño, el registro lo sigue: propiedad
	// derivada, no copiada.
	owners["an-1"] = "u2"
	if _, err := svc.GetByID(context.Background(), v.ID, "u2"); err != nil {
		t.Fatalf("new owner must read the record: %v", err)
	}
	if _, err := svc.GetByID(context.Background(), v.ID, "u1"); !errors.Is(err, faults.ErrForbidden) {
		t.Fatalf("expected Forbidden for previous owner, got %v", err)
	}
}

func TestService_Update_GatesThroughDerivedOwner(t *testing.T) {
	svc, _ := newTestService(map[string]string{"an-1": "u1"})

	v, err := svc.Create(context.Background(), "an-1", "u1", CreateInput{VaccineName: "Aftosa", Date: testDate})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	name := "Brucelosis"
	if _, err := svc.Update(context.Background(), v.ID, "u2", UpdateInput{VaccineName: &name}); !errors.Is(err, faults.ErrForbidden) {
		t.Fatalf("expected Forbidden updating foreign record, got %v", err)
	}

	updated, err := svc.Update(context.Background(), v.ID, "u1", UpdateInput{VaccineName: &name})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if updated.VaccineName != "Brucelosis" {
		t.Fatalf("expected updated name, got %s", updated.VaccineName)
	}

	if err := svc.Remove(context.Background(), v.ID, "u2"); !errors.Is(err, faults.ErrForbidden) {
		t.Fatalf("expected Forbidden deleting foreign record, got %v", err)
	}
	if err := svc.Remove(context.Background(), v.ID, "u1"); err != nil {
		t.Fatalf("Remove error: %v", err)
	}
}

func TestService_ListByAnimal_NewestFirst(t *testing.T) {
	svc, _ := newTestService(map[string]string{"an-1": "u1"})

	older := CreateInput{VaccineName: "Aftosa", Date: testDate}
	newer := CreateInput{VaccineName: "Brucelosis", Date: testDate.AddDate(0, 1, 0)}
	if _, err := svc.Create(context.Background(), "an-1", "u1", older); err != nil {
		t.Fatalf("create older: %v", err)
	}
	if _, err := svc.Create(context.Background(), "an-1", "u1", newer); err != nil {
		t.Fatalf("create newer: %v", err)
	}

	items, err := svc.ListByAnimal(context.Background(), "an-1", "u1")
	if err != nil {
		t.Fatalf("ListByAnimal error: %v", err)
	}
	if len(items) != 2 || items[0].VaccineName != "Brucelosis" {
		t.Fatalf("expected newest first, got %#v", items)
	}

	if _, err := svc.ListByAnimal(context.Background(), "an-1", "u2"); !errors.Is(err, faults.ErrForbidden) {
		t.Fatalf("expected Forbidden listing foreign animal, got %v", err)
	}
}

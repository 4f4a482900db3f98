package history

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
	byID   map[string]Entry
	owners map[string]string // animalID -> ownerID, para resolver en lecturas
}

func newTestRepo(owners map[string]string) *testRepo {
	return &testRepo{byID: map[string]Entry{}, owners: owners}
}

func (r *testRepo) Create(ctx context.Context, e Entry) error {
	r.byID[e.ID] = e
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Entry, error) {
	e, ok := r.byID[id]
	if !ok {
		return Entry{}, faults.NotFound("history entry %s", id)
	}
	owner, ok := r.owners[e.AnimalID]
	if !ok {
		return Entry{}, faults.NotFound("history entry %s", id)
	}
	e.AnimalOwnerID = owner
	return e, nil
}

func (r *testRepo) ListByAnimal(ctx context.Context, animalID string) ([]Entry, error) {
	out := []Entry{}
	for _, e := range r.byID {
		if e.AnimalID == animalID {
			e.AnimalOwnerID = r.owners[animalID]
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (r *testRepo) Update(ctx context.Context, e Entry) error {
	if _, ok := r.byID[e.ID]; !ok {
		return faults.NotFound("history entry %s", e.ID)
	}
	r.byID[e.ID] = e
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

	in := CreateInput{Type: EntryObservation, Title: "Renguea", Date: testDate}

	if _, err := svc.Create(context.Background(), "an-1", "u2", in); !errors.Is(err, faults.ErrForbidden) {
		t.Fatalf("expected Forbidden for non-owner, got %v", err)
	}
	if _, err := svc.Create(context.Background(), "nope", "u1", in); !errors.Is(err, faults.ErrNotFound) {
		t.Fatalf("expected NotFound for unknown animal, got %v", err)
	}

	e, err := svc.Create(context.Background(), "an-1", "u1", in)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if e.RecordedBy != "u1" {
		t.Fatalf("expected recorded_by u1, got %s", e.RecordedBy)
	}
}

func TestService_Create_ValidatesInput(t *testing.T) {
	svc, _ := newTestService(map[string]string{"an-1": "u1"})

	cases := []CreateInput{
		{Type: "NOPE", Title: "Renguea", Date: testDate},
		{Type: EntryObservation, Title: "   ", Date: testDate},
		{Type: EntryObservation, Title: "Renguea"},
	}
	for _, in := range cases {
		if _, err := svc.Create(context.Background(), "an-1", "u1", in); !errors.Is(err, faults.ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput for %+v, got %v", in, err)
		}
	}
}

func TestService_GetByID_DerivesOwnershipFromAnimal(t *testing.T) {
	owners := map[string]string{"an-1": "u1"}
	svc, _ := newTestService(owners)

	e, err := svc.Create(context.Background(), "an-1", "u1", CreateInput{
		Type: EntryTreatment, Title: "Antibiótico", Date: testDate,
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	if _, err := svc.GetByID(context.Background(), e.ID, "u2"); !errors.Is(err, faults.ErrForbidden) {
		t.Fatalf("expected Forbidden for non-owner, got %v", err)
	}

	// El animal cambia de dueño: la anotación lo sigue.
	owners["an-1"] = "u2"
	if _, err := svc.GetByID(context.Background(), e.ID, "u2"); err != nil {
		t.Fatalf("new owner must read the entry: %v", err)
	}
	if _, err := svc.GetByID(context.Background(), e.ID, "u1"); !errors.Is(err, faults.ErrForbidden) {
		t.Fatalf("expected Forbidden for previous owner, got %v", err)
	}
}

func TestService_ListByAnimal_NewestFirstAndGated(t *testing.T) {
	svc, _ := newTestService(map[string]string{"an-1": "u1"})

	for i, title := range []string{"Primera", "Segunda", "Tercera"} {
		_, err := svc.Create(context.Background(), "an-1", "u1", CreateInput{
			Type:  EntryObservation,
			Title: title,
			Date:  testDate.AddDate(0, 0, i),
		})
		if err != nil {
			t.Fatalf("Create error: %v", err)
		}
	}

	got, err := svc.ListByAnimal(context.Background(), "an-1", "u1")
	if err != nil {
		t.Fatalf("ListByAnimal error: %v", err)
	}
	if len(got) != 3 || got[0].Title != "Tercera" || got[2].Title != "Primera" {
		t.Fatalf("expected newest first, got %+v", got)
	}

	if _, err := svc.ListByAnimal(context.Background(), "an-1", "u2"); !errors.Is(err, faults.ErrForbidden) {
		t.Fatalf("expected Forbidden for non-owner, got %v", err)
	}
}

func TestService_UpdateAndRemove_Gated(t *testing.T) {
	svc, repo := newTestService(map[string]string{"an-1": "u1"})

	e, err := svc.Create(context.Background(), "an-1", "u1", CreateInput{
		Type: EntryObservation, Title: "Renguea", Date: testDate,
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	title := "Renguea pata trasera"
	if _, err := svc.Update(context.Background(), e.ID, "u2", UpdateInput{Title: &title}); !errors.Is(err, faults.ErrForbidden) {
		t.Fatalf("expected Forbidden update for non-owner, got %v", err)
	}

	got, err := svc.Update(context.Background(), e.ID, "u1", UpdateInput{Title: &title})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if got.Title != title {
		t.Fatalf("expected updated title, got %q", got.Title)
	}

	if err := svc.Remove(context.Background(), e.ID, "u2"); !errors.Is(err, faults.ErrForbidden) {
		t.Fatalf("expected Forbidden remove for non-owner, got %v", err)
	}
	if err := svc.Remove(context.Background(), e.ID, "u1"); err != nil {
		t.Fatalf("Remove error: %v", err)
	}
	if _, ok := repo.byID[e.ID]; ok {
		t.Fatalf("entry should be deleted")
	}
}

package animals

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"

	"livestock-registry/internal/domain/faults"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	byID map[string]Animal
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Animal{}}
}

func (r *testRepo) Create(ctx context.Context, a Animal) error {
	r.byID[a.ID] = a
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Animal, error) {
	a, ok := r.byID[id]
	if !ok {
		return Animal{}, faults.NotFound("animal %s", id)
	}
	return a, nil
}

func (r *testRepo) Update(ctx context.Context, a Animal) error {
	if _, ok := r.byID[a.ID]; !ok {
		return faults.NotFound("animal %s", a.ID)
	}
	r.byID[a.ID] = a
	return nil
}

func (r *testRepo) Delete(ctx context.Context, id string) error {
	delete(r.byID, id)
	return nil
}

func (r *testRepo) ListByOwners(ctx context.Context, ownerIDs []string, p Page) ([]Animal, int, error) {
	all := []Animal{}
	for _, a := range r.byID {
		for _, o := range ownerIDs {
			if a.OwnerID == o {
				all = append(all, a)
			}
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].EarTag < all[j].EarTag })

	total := len(all)
	off := p.Offset()
	if off >= total {
		return []Animal{}, total, nil
	}
	end := off + p.normalize().Limit
	if end > total {
		end = total
	}
	return all[off:end], total, nil
}

func (r *testRepo) FindByIDs(ctx context.Context, ids []string) ([]Animal, error) {
	out := []Animal{}
	for _, id := range ids {
		if a, ok := r.byID[id]; ok {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *testRepo) ListChildren(ctx context.Context, parentID string) ([]Animal, error) {
	out := []Animal{}
	for _, a := range r.byID {
		if a.MotherID == parentID || a.FatherID == parentID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EarTag < out[j].EarTag })
	return out, nil
}

// fakeGroups controla la regla de alta delegada sin levantar grupos reales.
type fakeGroups struct {
	sharedAdmin map[string]bool     // key adminID|targetID
	members     map[string][]string // key groupID
}

func (f *fakeGroups) UsersShareGroupWithAdminRole(ctx context.Context, adminID, targetID string) (bool, error) {
	return f.sharedAdmin[adminID+"|"+targetID], nil
}

func (f *fakeGroups) MemberUserIDs(ctx context.Context, groupID, callerID string) ([]string, error) {
	ids, ok := f.members[groupID]
	if !ok {
		return nil, faults.NotFound("group %s not found or not visible", groupID)
	}
	return ids, nil
}

func newTestService() (*Service, *testRepo, *fakeGroups) {
	repo := newTestRepo()
	groups := &fakeGroups{sharedAdmin: map[string]bool{}, members: map[string][]string{}}
	svc := NewService(repo, groups)
	return svc, repo, groups
}

func mustCreate(t *testing.T, svc *Service, callerID string, in CreateInput) Animal {
	t.Helper()
	a, err := svc.Create(context.Background(), callerID, in)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	return a
}

// -------------------------
// Tests
// -------------------------

func TestService_Create_OwnDefaultsToCaller(t *testing.T) {
	svc, _, _ := newTestService()

	a := mustCreate(t, svc, "u1", CreateInput{Kind: KindCow, Sex: SexFemale, Coat: "Holando"})
	if a.OwnerID != "u1" {
		t.Fatalf("expected owner u1, got %s", a.OwnerID)
	}
}

func TestService_Create_DelegatedNeedsSharedAdminGroup(t *testing.T) {
	svc, _, groups := newTestService()

	// Sin grupo compartido con rol de administración: Forbidden.
	_, err := svc.Create(context.Background(), "u1", CreateInput{
		OwnerID: "u2", Kind: KindCow, Sex: SexFemale, Coat: "Holando",
	})
	if !errors.Is(err, faults.ErrForbidden) {
		t.Fatalf("expected Forbidden without shared admin group, got %v", err)
	}

	groups.sharedAdmin["u1|u2"] = true
	a := mustCreate(t, svc, "u1", CreateInput{
		OwnerID: "u2", Kind: KindCow, Sex: SexFemale, Coat: "Holando",
	})
	if a.OwnerID != "u2" {
		t.Fatalf("expected delegated owner u2, got %s", a.OwnerID)
	}
}

func TestService_Authorize_OwnershipPredicate(t *testing.T) {
	svc, _, _ := newTestService()

	a := mustCreate(t, svc, "u1", CreateInput{Kind: KindCow, Sex: SexFemale, Coat: "Holando"})

	if _, err := svc.Authorize(context.Background(), a.ID, "u1"); err != nil {
		t.Fatalf("owner must pass authorize: %v", err)
	}
	if _, err := svc.Authorize(context.Background(), a.ID, "u2"); !errors.Is(err, faults.ErrForbidden) {
		t.Fatalf("expected Forbidden for non-owner, got %v", err)
	}
	if _, err := svc.Authorize(context.Background(), "nope", "u1"); !errors.Is(err, faults.ErrNotFound) {
		t.Fatalf("expected NotFound for unknown id, got %v", err)
	}
}

func TestService_SetParent_SexConstraints(t *testing.T) {
	svc, _, _ := newTestService()

	calf := mustCreate(t, svc, "u1", CreateInput{Kind: KindCalfFemale, Sex: SexFemale, Coat: "Holando"})
	bull := mustCreate(t, svc, "u1", CreateInput{Kind: KindBull, Sex: SexMale, Coat: "Negro"})
	cow := mustCreate(t, svc, "u1", CreateInput{Kind: KindCow, Sex: SexFemale, Coat: "Holando"})

	if _, err := svc.SetParent(context.Background(), calf.ID, ParentMother, bull.ID, "u1"); !errors.Is(err, faults.ErrForbidden) {
		t.Fatalf("expected Forbidden for male mother, got %v", err)
	}
	if _, err := svc.SetParent(context.Background(), calf.ID, ParentFather, cow.ID, "u1"); !errors.Is(err, faults.ErrForbidden) {
		t.Fatalf("expected Forbidden for female father, got %v", err)
	}

	updated, err := svc.SetParent(context.Background(), calf.ID, ParentMother, cow.ID, "u1")
	if err != nil {
		t.Fatalf("SetParent mother error: %v", err)
	}
	if updated.MotherID != cow.ID {
		t.Fatalf("expected mother %s, got %s", cow.ID, updated.MotherID)
	}
}

func TestService_SetParent_CrossOwnerAllowed(t *testing.T) {
	svc, _, _ := newTestService()

	calf := mustCreate(t, svc, "u1", CreateInput{Kind: KindCalfMale, Sex: SexMale, Coat: "Holando"})
	// El toro es de otro dueño: el parentesco cruza dueños.
	bull := mustCreate(t, svc, "u2", CreateInput{Kind: KindBull, Sex: SexMale, Coat: "Negro"})

	updated, err := svc.SetParent(context.Background(), calf.ID, ParentFather, bull.ID, "u1")
	if err != nil {
		t.Fatalf("SetParent cross-owner error: %v", err)
	}
	if updated.FatherID != bull.ID {
		t.Fatalf("expected father %s, got %s", bull.ID, updated.FatherID)
	}
}

func TestService_SetParent_ClearIsIdempotent(t *testing.T) {
	svc, _, _ := newTestService()

	calf := mustCreate(t, svc, "u1", CreateInput{Kind: KindCalfFemale, Sex: SexFemale, Coat: "Holando"})
	cow := mustCreate(t, svc, "u1", CreateInput{Kind: KindCow, Sex: SexFemale, Coat: "Holando"})

	if _, err := svc.SetParent(context.Background(), calf.ID, ParentMother, cow.ID, "u1"); err != nil {
		t.Fatalf("set mother: %v", err)
	}

	cleared, err := svc.SetParent(context.Background(), calf.ID, ParentMother, "", "u1")
	if err != nil {
		t.Fatalf("clear mother: %v", err)
	}
	if cleared.MotherID != "" {
		t.Fatalf("expected cleared mother, got %s", cleared.MotherID)
	}

	// Limpiar de nuevo no es error.
	if _, err := svc.SetParent(context.Background(), calf.ID, ParentMother, "", "u1"); err != nil {
		t.Fatalf("second clear must be a no-op, got %v", err)
	}
}

func TestService_SetParent_RejectsAncestryCycle(t *testing.T) {
	svc, _, _ := newTestService()

	a := mustCreate(t, svc, "u1", CreateInput{Kind: KindCow, Sex: SexFemale, Coat: "Holando"})
	b := mustCreate(t, svc, "u1", CreateInput{Kind: KindCow, Sex: SexFemale, Coat: "Holando"})
	c := mustCreate(t, svc, "u1", CreateInput{Kind: KindCow, Sex: SexFemale, Coat: "Holando"})

	// a <- b <- c y luego a como cría de c cerraría el ciclo.
	if _, err := svc.SetParent(context.Background(), b.ID, ParentMother, a.ID, "u1"); err != nil {
		t.Fatalf("b.mother=a: %v", err)
	}
	if _, err := svc.SetParent(context.Background(), c.ID, ParentMother, b.ID, "u1"); err != nil {
		t.Fatalf("c.mother=b: %v", err)
	}

	if _, err := svc.SetParent(context.Background(), a.ID, ParentMother, c.ID, "u1"); !errors.Is(err, faults.ErrConflict) {
		t.Fatalf("expected Conflict closing ancestry cycle, got %v", err)
	}

	// Autoreferencia directa también.
	if _, err := svc.SetParent(context.Background(), a.ID, ParentMother, a.ID, "u1"); !errors.Is(err, faults.ErrConflict) {
		t.Fatalf("expected Conflict for self-parent, got %v", err)
	}
}

func TestService_Family_ToleratesDanglingParent(t *testing.T) {
	svc, repo, _ := newTestService()

	cow := mustCreate(t, svc, "u1", CreateInput{EarTag: "A1", Kind: KindCow, Sex: SexFemale, Coat: "Holando"})
	c1 := mustCreate(t, svc, "u1", CreateInput{EarTag: "C1", Kind: KindCalfFemale, Sex: SexFemale, Coat: "Holando", MotherID: cow.ID})
	c2 := mustCreate(t, svc, "u1", CreateInput{EarTag: "C2", Kind: KindCalfMale, Sex: SexMale, Coat: "Negro", MotherID: cow.ID})

	fam, err := svc.Family(context.Background(), cow.ID, "u1")
	if err != nil {
		t.Fatalf("Family error: %v", err)
	}

	gotChildren := []string{}
	for _, c := range fam.Children {
		gotChildren = append(gotChildren, c.EarTag)
	}
	if diff := cmp.Diff([]string{c1.EarTag, c2.EarTag}, gotChildren); diff != "" {
		t.Fatalf("children mismatch (-want +got):\n%s", diff)
	}

	// Madre colgante: la familia de la cría vuelve con Mother en nil.
	delete(repo.byID, cow.ID)
	fam, err = svc.Family(context.Background(), c1.ID, "u1")
	if err != nil {
		t.Fatalf("Family with dangling mother: %v", err)
	}
	if fam.Mother != nil {
		t.Fatalf("expected nil mother for dangling edge, got %#v", fam.Mother)
	}
}

func TestService_ListForGroup_AggregatesMembers(t *testing.T) {
	svc, _, groups := newTestService()

	mustCreate(t, svc, "u1", CreateInput{EarTag: "A1", Kind: KindCow, Sex: SexFemale, Coat: "Holando"})
	mustCreate(t, svc, "u2", CreateInput{EarTag: "A2", Kind: KindBull, Sex: SexMale, Coat: "Negro"})
	mustCreate(t, svc, "u3", CreateInput{EarTag: "A3", Kind: KindCow, Sex: SexFemale, Coat: "Bayo"})

	groups.members["g1"] = []string{"u1", "u2"}

	items, total, err := svc.ListForGroup(context.Background(), "g1", "u1", Page{Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("ListForGroup error: %v", err)
	}
	if total != 2 || len(items) != 2 {
		t.Fatalf("expected two animals across the group, got total=%d len=%d", total, len(items))
	}

	// No-miembro: grupos responde NotFound y el listado no se filtra.
	if _, _, err := svc.ListForGroup(context.Background(), "nope", "u1", Page{}); !errors.Is(err, faults.ErrNotFound) {
		t.Fatalf("expected NotFound for unknown group, got %v", err)
	}
}

func TestService_ListForUser_Paginates(t *testing.T) {
	svc, _, _ := newTestService()

	tags := []string{"A1", "A2", "A3", "A4", "A5"}
	for _, tag := range tags {
		mustCreate(t, svc, "u1", CreateInput{EarTag: tag, Kind: KindCow, Sex: SexFemale, Coat: "Holando"})
	}

	items, total, err := svc.ListForUser(context.Background(), "u1", Page{Page: 2, Limit: 2})
	if err != nil {
		t.Fatalf("ListForUser error: %v", err)
	}
	if total != 5 {
		t.Fatalf("expected total 5, got %d", total)
	}
	if len(items) != 2 || items[0].EarTag != "A3" {
		t.Fatalf("expected second page starting at A3, got %#v", items)
	}
}

package users

import (
	"context"
	"errors"
	"testing"

	"livestock-registry/internal/domain/faults"
)

type testRepo struct {
	byID    map[string]User
	byEmail map[string]User
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]User{}, byEmail: map[string]User{}}
}

func (r *testRepo) Create(ctx context.Context, u User) error {
	if _, ok := r.byEmail[u.Email]; ok {
		return faults.Conflict("email %s already in use", u.Email)
	}
	r.byID[u.ID] = u
	r.byEmail[u.Email] = u
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (User, error) {
	u, ok := r.byID[id]
	if !ok {
		return User{}, faults.NotFound("user %s", id)
	}
	return u, nil
}

func (r *testRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return User{}, faults.NotFound("user %s", email)
	}
	return u, nil
}

func (r *testRepo) Delete(ctx context.Context, id string) error {
	u, ok := r.byID[id]
	if !ok {
		return faults.NotFound("user %s", id)
	}
	delete(r.byID, id)
	delete(r.byEmail, u.Email)
	return nil
}

func TestService_Register_NormalizesEmail(t *testing.T) {
	svc := NewService(newTestRepo())

	u, err := svc.Register(context.Background(), RegisterInput{
		Name:     "  María  ",
		Email:    "  Maria@Campo.COM ",
		Password: "secreta",
	})
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if u.Email != "maria@campo.com" {
		t.Fatalf("expected lowercased email, got %q", u.Email)
	}
	if u.Name != "María" {
		t.Fatalf("expected trimmed name, got %q", u.Name)
	}
	if u.PasswordHash == "" || u.PasswordHash == "secreta" {
		t.Fatalf("password must be stored hashed")
	}
}

func TestService_Register_DuplicateEmailConflicts(t *testing.T) {
	svc := NewService(newTestRepo())

	in := RegisterInput{Name: "María", Email: "maria@campo.com", Password: "secreta"}
	if _, err := svc.Register(context.Background(), in); err != nil {
		t.Fatalf("Register error: %v", err)
	}

	// Misma casilla con otra capitalización.
	in.Email = "MARIA@campo.com"
	if _, err := svc.Register(context.Background(), in); !errors.Is(err, faults.ErrConflict) {
		t.Fatalf("expected Conflict, got %v", err)
	}
}

func TestService_Register_RejectsEmptyFields(t *testing.T) {
	svc := NewService(newTestRepo())

	cases := []RegisterInput{
		{Email: "maria@campo.com", Password: "secreta"},
		{Name: "María", Password: "secreta"},
		{Name: "María", Email: "maria@campo.com"},
	}
	for _, in := range cases {
		if _, err := svc.Register(context.Background(), in); !errors.Is(err, faults.ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput for %+v, got %v", in, err)
		}
	}
}

func TestService_Authenticate(t *testing.T) {
	svc := NewService(newTestRepo())

	u, err := svc.Register(context.Background(), RegisterInput{
		Name: "María", Email: "maria@campo.com", Password: "secreta",
	})
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}

	got, err := svc.Authenticate(context.Background(), "Maria@Campo.com", "secreta")
	if err != nil {
		t.Fatalf("Authenticate error: %v", err)
	}
	if got.ID != u.ID {
		t.Fatalf("expected user %s, got %s", u.ID, got.ID)
	}

	if _, err := svc.Authenticate(context.Background(), "maria@campo.com", "otra"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", err)
	}
	if _, err := svc.Authenticate(context.Background(), "nadie@campo.com", "secreta"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestService_FindByEmail_Normalizes(t *testing.T) {
	svc := NewService(newTestRepo())

	if _, err := svc.Register(context.Background(), RegisterInput{
		Name: "María", Email: "maria@campo.com", Password: "secreta",
	}); err != nil {
		t.Fatalf("Register error: %v", err)
	}

	if _, err := svc.FindByEmail(context.Background(), " MARIA@campo.com "); err != nil {
		t.Fatalf("FindByEmail error: %v", err)
	}
}

package jwt

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestManager_IssueAndVerify(t *testing.T) {
	m := NewManager("clave-de-prueba", time.Hour)

	raw, err := m.Issue("user-1", "maria@campo.com")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	claims, err := m.Verify(context.Background(), raw)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if claims.UserID != "user-1" {
		t.Fatalf("expected UserID user-1, got %q", claims.UserID)
	}
	if claims.Email != "maria@campo.com" {
		t.Fatalf("expected email in claims, got %q", claims.Email)
	}
}

func TestManager_Verify_EmptyToken(t *testing.T) {
	m := NewManager("clave-de-prueba", time.Hour)

	if _, err := m.Verify(context.Background(), "   "); !errors.Is(err, ErrTokenEmpty) {
		t.Fatalf("expected ErrTokenEmpty, got %v", err)
	}
}

func TestManager_Verify_WrongSecret(t *testing.T) {
	issuer := NewManager("clave-a", time.Hour)
	verifier := NewManager("clave-b", time.Hour)

	raw, err := issuer.Issue("user-1", "")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	if _, err := verifier.Verify(context.Background(), raw); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestManager_Verify_ExpiredToken(t *testing.T) {
	m := NewManager("clave-de-prueba", time.Hour)

	issued := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return issued }

	raw, err := m.Issue("user-1", "")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	// Todavía vigente.
	m.now = func() time.Time { return issued.Add(30 * time.Minute) }
	if _, err := m.Verify(context.Background(), raw); err != nil {
		t.Fatalf("token should still be valid: %v", err)
	}

	// Vencido.
	m.now = func() time.Time { return issued.Add(2 * time.Hour) }
	if _, err := m.Verify(context.Background(), raw); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for expired token, got %v", err)
	}
}

func TestManager_Issue_RequiresUserID(t *testing.T) {
	m := NewManager("clave-de-prueba", time.Hour)

	if _, err := m.Issue("", "maria@campo.com"); err == nil {
		t.Fatalf("expected error for empty user id")
	}
}

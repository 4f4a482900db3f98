package users

import "context"

type Repository interface {
	// Create falla con faults.ErrConflict si el email ya existe.
	Create(ctx context.Context, u User) error
	GetByID(ctx context.Context, id string) (User, error)
	// GetByEmail espera el email ya normalizado a minúsculas.
	GetByEmail(ctx context.Context, email string) (User, error)
	Delete(ctx context.Context, id string) error
}

package history

import "context"

type Repository interface {
	Create(ctx context.Context, e Entry) error

	// GetByID resuelve AnimalOwnerID a través del animal referido;
	// relación colgante = ErrNotFound.
	GetByID(ctx context.Context, id string) (Entry, error)

	// ListByAnimal: fecha descendente, desempate por creación descendente.
	ListByAnimal(ctx context.Context, animalID string) ([]Entry, error)

	Update(ctx context.Context, e Entry) error
	Delete(ctx context.Context, id string) error
}

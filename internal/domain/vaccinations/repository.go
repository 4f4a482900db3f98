package vaccinations

import "context"

type Repository interface {
	Create(ctx context.Context, v Vaccination) error

	// GetByID devuelve la vacunación con AnimalOwnerID resuelto a través
	// del animal referido. Si la relación está colgante, ErrNotFound.
	GetByID(ctx context.Context, id string) (Vaccination, error)

	// ListByAnimal devuelve las vacunaciones del animal, fecha descendente.
	ListByAnimal(ctx context.Context, animalID string) ([]Vaccination, error)

	Update(ctx context.Context, v Vaccination) error
	Delete(ctx context.Context, id string) error
}

package births

import "context"

type Repository interface {
	Create(ctx context.Context, b Birth) error

	// GetByID resuelve MotherOwnerID a través de la madre referida;
	// relación colgante = ErrNotFound.
	GetByID(ctx context.Context, id string) (Birth, error)

	// ListByMother devuelve los partos de la madre, fecha descendente.
	ListByMother(ctx context.Context, motherID string) ([]Birth, error)

	Update(ctx context.Context, b Birth) error
	Delete(ctx context.Context, id string) error
}

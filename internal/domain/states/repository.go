package states

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, st State) error

	// GetByID resuelve AnimalOwnerID a través del animal referido;
	// relación colgante = ErrNotFound.
	GetByID(ctx context.Context, id string) (State, error)

	// ListByAnimal devuelve los estados del animal, fecha de inicio
	// descendente. Con activeOnly, solo los vigentes.
	ListByAnimal(ctx context.Context, animalID string, activeOnly bool) ([]State, error)

	Update(ctx context.Context, st State) error
	Delete(ctx context.Context, id string) error

	// DeactivateActive apaga el estado activo de ese tipo para el animal
	// y le estampa endDate. Debe ejecutarse en la misma transacción que
	// el alta del estado nuevo para que nunca haya dos activos del mismo
	// tipo (secuenciado por clave animal+tipo).
	DeactivateActive(ctx context.Context, animalID string, t StateType, endDate time.Time) error
}

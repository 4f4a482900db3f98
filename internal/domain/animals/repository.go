package animals

import "context"

type Repository interface {
	Create(ctx context.Context, a Animal) error
	GetByID(ctx context.Context, id string) (Animal, error)
	Update(ctx context.Context, a Animal) error

	// Delete cascadea a todos los registros de eventos del animal.
	Delete(ctx context.Context, id string) error

	// ListByOwners pagina los animales cuyo dueño está en ownerIDs.
	// Devuelve también el total sin paginar.
	ListByOwners(ctx context.Context, ownerIDs []string, p Page) ([]Animal, int, error)

	// FindByIDs devuelve los animales existentes entre los ids pedidos;
	// los que no existen simplemente no aparecen.
	FindByIDs(ctx context.Context, ids []string) ([]Animal, error)

	// ListChildren devuelve los animales con MotherID o FatherID igual a
	// parentID, sin importar el dueño.
	ListChildren(ctx context.Context, parentID string) ([]Animal, error)
}

package groups

import "context"

type Repository interface {
	// CreateWithOwner crea el grupo y la membresía Owner de su creador
	// como una sola unidad: o ambos quedan, o ninguno. Un grupo nunca
	// puede existir sin propietario.
	CreateWithOwner(ctx context.Context, g Group, owner Membership) error

	GetByID(ctx context.Context, id string) (Group, error)
	Update(ctx context.Context, g Group) error

	// Delete cascadea a membresías y campañas del grupo.
	Delete(ctx context.Context, id string) error

	// ListForUser devuelve los grupos donde el usuario tiene membresía,
	// con Members cargado.
	ListForUser(ctx context.Context, userID string) ([]Group, error)
}

type MembershipRepository interface {
	// Create falla con faults.ErrConflict si ya existe (groupID, userID).
	Create(ctx context.Context, m Membership) error
	Get(ctx context.Context, groupID, userID string) (Membership, error)
	Update(ctx context.Context, m Membership) error
	Delete(ctx context.Context, groupID, userID string) error

	ListByGroup(ctx context.Context, groupID string) ([]Membership, error)
	ListByUser(ctx context.Context, userID string) ([]Membership, error)

	// ExistsSharedGroup reporta si hay algún grupo donde adminID tiene
	// uno de los roles dados y memberID tiene cualquier membresía.
	ExistsSharedGroup(ctx context.Context, adminID, memberID string, roles []Role) (bool, error)
}

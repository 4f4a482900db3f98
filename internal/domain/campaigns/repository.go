package campaigns

import "context"

type Repository interface {
	Create(ctx context.Context, c Campaign) error
	GetByID(ctx context.Context, id string) (Campaign, error)
	Update(ctx context.Context, c Campaign) error
	Delete(ctx context.Context, id string) error

	ListByOwner(ctx context.Context, ownerID string) ([]Campaign, error)
	ListByGroups(ctx context.Context, groupIDs []string) ([]Campaign, error)
}

package season

import "context"

// Repository describes season persistence needs from use cases.
type Repository interface {
	GetByID(ctx context.Context, id string) (*Season, error)
	List(ctx context.Context) ([]Season, error)
	Upsert(ctx context.Context, s Season) error
}

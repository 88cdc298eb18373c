package player

import "context"

// Repository describes player persistence needs from use cases.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*Player, error)
	GetByFideID(ctx context.Context, fideID int64) (*Player, error)
	// FindByName matches case-insensitively on the stored name, optionally
	// narrowed by federation when it is non-empty.
	FindByName(ctx context.Context, name, federation string) (*Player, error)
	Create(ctx context.Context, p Player) (int64, error)
	// SetFideID backfills a fide id (and sex, when known) onto an existing
	// player. It must not overwrite a different stored fide id.
	SetFideID(ctx context.Context, id int64, fideID int64, sex *string) error
	ListByIDs(ctx context.Context, ids []int64) ([]Player, error)
}

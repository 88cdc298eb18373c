package tournament

import (
	"context"

	"github.com/walela/gp/internal/domain/result"
)

// Repository describes tournament persistence needs from use cases.
type Repository interface {
	GetByID(ctx context.Context, id string) (*Tournament, error)
	ListBySeason(ctx context.Context, seasonID string) ([]Tournament, error)
	// SaveWithResults upserts the tournament and its results in one
	// transaction. Tournament metadata coalesces on conflict so a re-import
	// with missing dates never blanks previously stored ones.
	SaveWithResults(ctx context.Context, t Tournament, rows []result.Result) error
}

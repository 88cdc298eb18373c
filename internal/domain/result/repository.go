package result

import (
	"context"
	"time"
)

// PlayerResult is a result joined with its player and tournament, the read
// shape used by the ranking engine and the profile/tournament views.
type PlayerResult struct {
	Result
	PlayerName       string
	PlayerFideID     *int64
	PlayerFederation string
	TournamentName   string
	TournamentEnd    *time.Time
}

// Repository describes result persistence needs from use cases.
type Repository interface {
	// ListForRanking returns the results feeding a season's ranking run:
	// players of the given federation whose status counts for ranking and
	// whose tpr is present and nonzero.
	ListForRanking(ctx context.Context, seasonID, federation string) ([]PlayerResult, error)
	ListByTournament(ctx context.Context, tournamentID string) ([]PlayerResult, error)
	ListByPlayer(ctx context.Context, playerID int64) ([]PlayerResult, error)
	CountByTournament(ctx context.Context, tournamentIDs []string) (map[string]int, error)
}

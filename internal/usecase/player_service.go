package usecase

import (
	"context"
	"fmt"

	"github.com/walela/gp/internal/domain/player"
	"github.com/walela/gp/internal/domain/result"
)

// PlayerProfile is a player with their full tournament history, most recent
// event first.
type PlayerProfile struct {
	player.Player
	Results []result.PlayerResult
}

type PlayerService struct {
	players player.Repository
	results result.Repository
}

func NewPlayerService(players player.Repository, results result.Repository) *PlayerService {
	return &PlayerService{players: players, results: results}
}

// ProfileByFideID looks a player up by fide id. Players discovered without a
// fide id are not reachable here until enrichment finds one.
func (s *PlayerService) ProfileByFideID(ctx context.Context, fideID int64) (*PlayerProfile, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.ProfileByFideID")
	defer span.End()

	if fideID <= 0 {
		return nil, fmt.Errorf("%w: fide id must be positive", ErrInvalidInput)
	}

	stored, err := s.players.GetByFideID(ctx, fideID)
	if err != nil {
		return nil, fmt.Errorf("get player: %w", err)
	}
	if stored == nil {
		return nil, fmt.Errorf("%w: player with fide id %d", ErrNotFound, fideID)
	}

	results, err := s.results.ListByPlayer(ctx, stored.ID)
	if err != nil {
		return nil, fmt.Errorf("list player results: %w", err)
	}

	return &PlayerProfile{Player: *stored, Results: results}, nil
}

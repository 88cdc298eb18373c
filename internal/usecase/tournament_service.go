package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/walela/gp/internal/domain/result"
	"github.com/walela/gp/internal/domain/tournament"
)

// TournamentSummary is a tournament with its stored result count, the list
// view shape.
type TournamentSummary struct {
	tournament.Tournament
	ResultCount int
}

// TournamentDetail is one tournament with its full standings.
type TournamentDetail struct {
	tournament.Tournament
	Results []result.PlayerResult
}

type TournamentService struct {
	tournaments tournament.Repository
	results     result.Repository
}

func NewTournamentService(tournaments tournament.Repository, results result.Repository) *TournamentService {
	return &TournamentService{tournaments: tournaments, results: results}
}

func (s *TournamentService) List(ctx context.Context, seasonID string) ([]TournamentSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TournamentService.List")
	defer span.End()

	seasonID = strings.TrimSpace(seasonID)
	if seasonID == "" {
		return nil, fmt.Errorf("%w: season id is required", ErrInvalidInput)
	}

	tournaments, err := s.tournaments.ListBySeason(ctx, seasonID)
	if err != nil {
		return nil, fmt.Errorf("list tournaments: %w", err)
	}
	if len(tournaments) == 0 {
		return []TournamentSummary{}, nil
	}

	ids := make([]string, 0, len(tournaments))
	for _, t := range tournaments {
		ids = append(ids, t.ID)
	}
	counts, err := s.results.CountByTournament(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("count results: %w", err)
	}

	summaries := make([]TournamentSummary, 0, len(tournaments))
	for _, t := range tournaments {
		summaries = append(summaries, TournamentSummary{
			Tournament:  t,
			ResultCount: counts[t.ID],
		})
	}

	return summaries, nil
}

func (s *TournamentService) Get(ctx context.Context, tournamentID string) (*TournamentDetail, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TournamentService.Get")
	defer span.End()

	tournamentID = strings.TrimSpace(tournamentID)
	if tournamentID == "" {
		return nil, fmt.Errorf("%w: tournament id is required", ErrInvalidInput)
	}

	stored, err := s.tournaments.GetByID(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("get tournament: %w", err)
	}
	if stored == nil {
		return nil, fmt.Errorf("%w: tournament %s", ErrNotFound, tournamentID)
	}

	results, err := s.results.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}

	return &TournamentDetail{Tournament: *stored, Results: results}, nil
}

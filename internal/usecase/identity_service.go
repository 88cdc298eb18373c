package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/walela/gp/internal/domain/player"
	"github.com/walela/gp/internal/platform/logging"
)

// IdentityResolver maps a scraped (name, federation, fide id) triple onto a
// stored player id, creating the player when nothing matches. Resolution is
// stable: the same inputs always land on the same player. The mutex
// serializes the find-then-create window, since the same player routinely
// appears in several concurrently imported tournaments.
type IdentityResolver struct {
	players player.Repository
	logger  *logging.Logger
	mu      sync.Mutex
}

func NewIdentityResolver(players player.Repository, logger *logging.Logger) *IdentityResolver {
	if logger == nil {
		logger = logging.Default()
	}
	return &IdentityResolver{players: players, logger: logger}
}

// Resolve matches in order: exact fide id, then case-insensitive name. A name
// match backfills the incoming fide id (and sex) when the stored player has
// none; a blank incoming fide id never clears a stored one. A name match
// against a player holding a different fide id is treated as a distinct
// person and a new player is created.
func (s *IdentityResolver) Resolve(ctx context.Context, candidate player.Player) (int64, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IdentityResolver.Resolve")
	defer span.End()

	candidate.Name = strings.TrimSpace(candidate.Name)
	if candidate.Name == "" {
		return 0, fmt.Errorf("%w: player name is required", ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if candidate.FideID != nil {
		existing, err := s.players.GetByFideID(ctx, *candidate.FideID)
		if err != nil {
			return 0, fmt.Errorf("resolve by fide id: %w", err)
		}
		if existing != nil {
			return existing.ID, nil
		}
	}

	existing, err := s.players.FindByName(ctx, candidate.Name, candidate.Federation)
	if err != nil {
		return 0, fmt.Errorf("resolve by name: %w", err)
	}
	if existing != nil {
		if existing.FideID == nil {
			if candidate.FideID != nil {
				if err := s.players.SetFideID(ctx, existing.ID, *candidate.FideID, candidate.Sex); err != nil {
					return 0, fmt.Errorf("backfill fide id: %w", err)
				}
				s.logger.InfoContext(ctx, "backfilled player fide id",
					"player_id", existing.ID, "fide_id", *candidate.FideID)
			}
			return existing.ID, nil
		}
		if candidate.FideID == nil || *existing.FideID == *candidate.FideID {
			return existing.ID, nil
		}
		s.logger.WarnContext(ctx, "name collision with different fide id, creating new player",
			"name", candidate.Name, "stored_fide_id", *existing.FideID, "incoming_fide_id", *candidate.FideID)
	}

	id, err := s.players.Create(ctx, candidate)
	if err != nil {
		return 0, fmt.Errorf("create player: %w", err)
	}

	return id, nil
}

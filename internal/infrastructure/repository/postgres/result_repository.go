package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/walela/gp/internal/domain/result"
)

const playerResultColumns = `r.tournament_id, r.player_id, r.rank, r.start_rank, r.rating, r.points,
    r.tpr, r.has_walkover, r.result_status,
    p.name AS player_name, p.fide_id AS player_fide_id, p.federation AS player_federation,
    t.name AS tournament_name, t.end_date AS tournament_end`

type ResultRepository struct {
	db *sqlx.DB
}

func NewResultRepository(db *sqlx.DB) *ResultRepository {
	return &ResultRepository{db: db}
}

// ListForRanking fetches the rows the ranking engine consumes. A NULL status
// predates the validator and counts as valid.
func (r *ResultRepository) ListForRanking(ctx context.Context, seasonID, federation string) ([]result.PlayerResult, error) {
	query := `SELECT ` + playerResultColumns + `
FROM results r
JOIN players p ON p.id = r.player_id
JOIN tournaments t ON t.id = r.tournament_id
WHERE t.season_id = $1
  AND p.federation = $2
  AND (r.result_status IS NULL OR r.result_status IN ('valid', 'unknown'))
  AND r.tpr IS NOT NULL AND r.tpr > 0
ORDER BY r.player_id, r.tpr DESC`

	var rows []playerResultTableModel
	if err := r.db.SelectContext(ctx, &rows, query, seasonID, federation); err != nil {
		return nil, fmt.Errorf("list results for ranking: %w", err)
	}

	return toPlayerResults(rows), nil
}

func (r *ResultRepository) ListByTournament(ctx context.Context, tournamentID string) ([]result.PlayerResult, error) {
	query := `SELECT ` + playerResultColumns + `
FROM results r
JOIN players p ON p.id = r.player_id
JOIN tournaments t ON t.id = r.tournament_id
WHERE r.tournament_id = $1
ORDER BY r.rank`

	var rows []playerResultTableModel
	if err := r.db.SelectContext(ctx, &rows, query, tournamentID); err != nil {
		return nil, fmt.Errorf("list results by tournament: %w", err)
	}

	return toPlayerResults(rows), nil
}

func (r *ResultRepository) ListByPlayer(ctx context.Context, playerID int64) ([]result.PlayerResult, error) {
	query := `SELECT ` + playerResultColumns + `
FROM results r
JOIN players p ON p.id = r.player_id
JOIN tournaments t ON t.id = r.tournament_id
WHERE r.player_id = $1
ORDER BY t.end_date DESC NULLS LAST, r.tournament_id`

	var rows []playerResultTableModel
	if err := r.db.SelectContext(ctx, &rows, query, playerID); err != nil {
		return nil, fmt.Errorf("list results by player: %w", err)
	}

	return toPlayerResults(rows), nil
}

func (r *ResultRepository) CountByTournament(ctx context.Context, tournamentIDs []string) (map[string]int, error) {
	if len(tournamentIDs) == 0 {
		return map[string]int{}, nil
	}

	query, args, err := sqlx.In(`SELECT tournament_id, COUNT(*) AS n FROM results WHERE tournament_id IN (?) GROUP BY tournament_id`, tournamentIDs)
	if err != nil {
		return nil, fmt.Errorf("build count results query: %w", err)
	}
	query = r.db.Rebind(query)

	var rows []struct {
		TournamentID string `db:"tournament_id"`
		N            int    `db:"n"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("count results by tournament: %w", err)
	}

	out := make(map[string]int, len(rows))
	for _, row := range rows {
		out[row.TournamentID] = row.N
	}

	return out, nil
}

func toPlayerResults(rows []playerResultTableModel) []result.PlayerResult {
	out := make([]result.PlayerResult, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out
}

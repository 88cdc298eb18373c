package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/walela/gp/internal/domain/result"
	"github.com/walela/gp/internal/domain/tournament"
	qb "github.com/walela/gp/internal/platform/querybuilder"
)

// tournamentUpsertSuffix coalesces optional metadata so a re-import that
// failed to parse dates never blanks previously stored ones.
const tournamentUpsertSuffix = `ON CONFLICT (id)
DO UPDATE SET
    name = EXCLUDED.name,
    short_name = COALESCE(EXCLUDED.short_name, tournaments.short_name),
    location = COALESCE(EXCLUDED.location, tournaments.location),
    rounds = EXCLUDED.rounds,
    start_date = COALESCE(EXCLUDED.start_date, tournaments.start_date),
    end_date = COALESCE(EXCLUDED.end_date, tournaments.end_date),
    season_id = EXCLUDED.season_id,
    updated_at = NOW()`

const resultUpsertSuffix = `ON CONFLICT (tournament_id, player_id)
DO UPDATE SET
    rank = EXCLUDED.rank,
    start_rank = EXCLUDED.start_rank,
    rating = EXCLUDED.rating,
    points = EXCLUDED.points,
    tpr = EXCLUDED.tpr,
    has_walkover = COALESCE(EXCLUDED.has_walkover, results.has_walkover),
    result_status = COALESCE(EXCLUDED.result_status, results.result_status),
    updated_at = NOW()`

type TournamentRepository struct {
	db *sqlx.DB
}

func NewTournamentRepository(db *sqlx.DB) *TournamentRepository {
	return &TournamentRepository{db: db}
}

func (r *TournamentRepository) GetByID(ctx context.Context, id string) (*tournament.Tournament, error) {
	query, args, err := qb.Select("*").From("tournaments").Where(qb.Eq("id", id)).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build get tournament query: %w", err)
	}

	var row tournamentTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get tournament: %w", err)
	}

	t := row.toDomain()
	return &t, nil
}

func (r *TournamentRepository) ListBySeason(ctx context.Context, seasonID string) ([]tournament.Tournament, error) {
	builder := qb.Select("*").From("tournaments")
	if seasonID != "" {
		builder = builder.Where(qb.Eq("season_id", seasonID))
	}
	query, args, err := builder.OrderBy("end_date DESC NULLS LAST", "id").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list tournaments query: %w", err)
	}

	var rows []tournamentTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list tournaments: %w", err)
	}

	out := make([]tournament.Tournament, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *TournamentRepository) SaveWithResults(ctx context.Context, t tournament.Tournament, rows []result.Result) error {
	if err := t.Validate(); err != nil {
		return err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx save tournament: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	insertModel := tournamentInsertModel{
		ID:        t.ID,
		Name:      t.Name,
		ShortName: t.ShortName,
		Location:  t.Location,
		Rounds:    t.Rounds,
		StartDate: t.StartDate,
		EndDate:   t.EndDate,
		SeasonID:  t.SeasonID,
	}
	query, args, err := qb.InsertModel("tournaments", insertModel, tournamentUpsertSuffix)
	if err != nil {
		return fmt.Errorf("build upsert tournament query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert tournament: %w", err)
	}

	for _, item := range rows {
		if err := item.Validate(); err != nil {
			return err
		}

		var status *string
		if item.Status != "" {
			s := string(item.Status)
			status = &s
		}
		model := resultInsertModel{
			TournamentID: t.ID,
			PlayerID:     item.PlayerID,
			Rank:         item.Rank,
			StartRank:    item.StartRank,
			Rating:       item.Rating,
			Points:       item.Points,
			TPR:          item.TPR,
			HasWalkover:  item.HasWalkover,
			ResultStatus: status,
		}
		query, args, err := qb.InsertModel("results", model, resultUpsertSuffix)
		if err != nil {
			return fmt.Errorf("build upsert result query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert result tournament_id=%s player_id=%d: %w", t.ID, item.PlayerID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save tournament: %w", err)
	}

	return nil
}

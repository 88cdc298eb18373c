package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/walela/gp/internal/domain/ranking"
	qb "github.com/walela/gp/internal/platform/querybuilder"
)

type RankingRepository struct {
	db *sqlx.DB
}

func NewRankingRepository(db *sqlx.DB) *RankingRepository {
	return &RankingRepository{db: db}
}

func (r *RankingRepository) ListBySeason(ctx context.Context, seasonID string) ([]ranking.Entry, error) {
	query := `SELECT rk.*, p.name AS player_name, p.federation AS player_federation, p.fide_id AS player_fide_id
FROM rankings rk
JOIN players p ON p.id = rk.player_id
WHERE rk.season_id = $1
ORDER BY rk.current_rank`

	var rows []rankingTableModel
	if err := r.db.SelectContext(ctx, &rows, query, seasonID); err != nil {
		return nil, fmt.Errorf("list rankings: %w", err)
	}

	out := make([]ranking.Entry, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *RankingRepository) ReplaceBySeason(ctx context.Context, seasonID string, entries []ranking.Entry) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace rankings: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	clearQuery, clearArgs, err := qb.DeleteFrom("rankings").Where(qb.Eq("season_id", seasonID)).ToSQL()
	if err != nil {
		return fmt.Errorf("build clear rankings query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, clearQuery, clearArgs...); err != nil {
		return fmt.Errorf("clear rankings: %w", err)
	}

	for _, entry := range entries {
		if err := entry.Validate(); err != nil {
			return err
		}

		insertModel := rankingInsertModel{
			PlayerID:          entry.PlayerID,
			SeasonID:          seasonID,
			Rating:            entry.Rating,
			TournamentsPlayed: entry.TournamentsPlayed,
			Best1:             entry.Best1,
			Best2:             entry.Best2,
			Best3:             entry.Best3,
			Best4:             entry.Best4,
			Tournament1:       entry.Tournament1,
			CurrentRank:       entry.CurrentRank,
			PreviousRank:      entry.PreviousRank,
		}
		query, args, err := qb.InsertModel("rankings", insertModel, "")
		if err != nil {
			return fmt.Errorf("build insert ranking query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert ranking player_id=%d: %w", entry.PlayerID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace rankings: %w", err)
	}

	return nil
}

func (r *RankingRepository) AppendSnapshots(ctx context.Context, rows []ranking.Snapshot) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx append snapshots: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, row := range rows {
		insertModel := snapshotInsertModel{
			RecalculatedAt:    row.RecalculatedAt,
			SeasonID:          row.SeasonID,
			Rank:              row.Rank,
			PlayerID:          row.PlayerID,
			PlayerName:        row.PlayerName,
			TournamentsPlayed: row.TournamentsPlayed,
			Best4:             row.Best4,
		}
		query, args, err := qb.InsertModel("ranking_snapshots", insertModel, "")
		if err != nil {
			return fmt.Errorf("build insert snapshot query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert snapshot player_id=%d: %w", row.PlayerID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit append snapshots: %w", err)
	}

	return nil
}

func (r *RankingRepository) RecentBatches(ctx context.Context, seasonID string, maxBatches int) ([]ranking.SnapshotBatch, error) {
	if maxBatches <= 0 {
		maxBatches = 10
	}

	query := `SELECT recalculated_at, season_id, rank, player_id, player_name, tournaments_played, best_4
FROM ranking_snapshots
WHERE season_id = $1
  AND recalculated_at IN (
      SELECT DISTINCT recalculated_at FROM ranking_snapshots
      WHERE season_id = $1
      ORDER BY recalculated_at DESC
      LIMIT $2
  )
ORDER BY recalculated_at DESC, rank`

	var rows []snapshotTableModel
	if err := r.db.SelectContext(ctx, &rows, query, seasonID, maxBatches); err != nil {
		return nil, fmt.Errorf("list snapshot batches: %w", err)
	}

	var batches []ranking.SnapshotBatch
	for _, row := range rows {
		snapshot := ranking.Snapshot{
			RecalculatedAt:    row.RecalculatedAt,
			SeasonID:          row.SeasonID,
			Rank:              row.Rank,
			PlayerID:          row.PlayerID,
			PlayerName:        row.PlayerName,
			TournamentsPlayed: row.TournamentsPlayed,
			Best4:             row.Best4,
		}
		if len(batches) == 0 || !batches[len(batches)-1].RecalculatedAt.Equal(row.RecalculatedAt) {
			batches = append(batches, ranking.SnapshotBatch{RecalculatedAt: row.RecalculatedAt})
		}
		last := &batches[len(batches)-1]
		last.Rows = append(last.Rows, snapshot)
	}

	return batches, nil
}

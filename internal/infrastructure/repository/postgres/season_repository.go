package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/walela/gp/internal/domain/season"
	qb "github.com/walela/gp/internal/platform/querybuilder"
)

type seasonTableModel struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	StartDate time.Time `db:"start_date"`
	EndDate   time.Time `db:"end_date"`
	CreatedAt time.Time `db:"created_at"`
}

type seasonInsertModel struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	StartDate time.Time `db:"start_date"`
	EndDate   time.Time `db:"end_date"`
}

type SeasonRepository struct {
	db *sqlx.DB
}

func NewSeasonRepository(db *sqlx.DB) *SeasonRepository {
	return &SeasonRepository{db: db}
}

func (r *SeasonRepository) GetByID(ctx context.Context, id string) (*season.Season, error) {
	query, args, err := qb.Select("*").From("seasons").Where(qb.Eq("id", id)).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build get season query: %w", err)
	}

	var row seasonTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get season: %w", err)
	}

	return &season.Season{ID: row.ID, Name: row.Name, StartDate: row.StartDate, EndDate: row.EndDate}, nil
}

func (r *SeasonRepository) List(ctx context.Context) ([]season.Season, error) {
	query, args, err := qb.Select("*").From("seasons").OrderBy("start_date DESC").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list seasons query: %w", err)
	}

	var rows []seasonTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list seasons: %w", err)
	}

	out := make([]season.Season, 0, len(rows))
	for _, row := range rows {
		out = append(out, season.Season{ID: row.ID, Name: row.Name, StartDate: row.StartDate, EndDate: row.EndDate})
	}

	return out, nil
}

func (r *SeasonRepository) Upsert(ctx context.Context, s season.Season) error {
	if err := s.Validate(); err != nil {
		return err
	}

	insertModel := seasonInsertModel{ID: s.ID, Name: s.Name, StartDate: s.StartDate, EndDate: s.EndDate}
	query, args, err := qb.InsertModel("seasons", insertModel, `ON CONFLICT (id)
DO UPDATE SET
    name = EXCLUDED.name,
    start_date = EXCLUDED.start_date,
    end_date = EXCLUDED.end_date`)
	if err != nil {
		return fmt.Errorf("build upsert season query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert season: %w", err)
	}

	return nil
}

package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/walela/gp/internal/domain/player"
	qb "github.com/walela/gp/internal/platform/querybuilder"
)

type PlayerRepository struct {
	db *sqlx.DB
}

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

func (r *PlayerRepository) GetByID(ctx context.Context, id int64) (*player.Player, error) {
	query, args, err := qb.Select("*").From("players").Where(qb.Eq("id", id)).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build get player query: %w", err)
	}

	var row playerTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get player: %w", err)
	}

	p := row.toDomain()
	return &p, nil
}

func (r *PlayerRepository) GetByFideID(ctx context.Context, fideID int64) (*player.Player, error) {
	query, args, err := qb.Select("*").From("players").Where(qb.Eq("fide_id", fideID)).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build get player by fide id query: %w", err)
	}

	var row playerTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get player by fide id: %w", err)
	}

	p := row.toDomain()
	return &p, nil
}

func (r *PlayerRepository) FindByName(ctx context.Context, name, federation string) (*player.Player, error) {
	builder := qb.Select("*").From("players").Where(qb.Expr("LOWER(name) = LOWER(?)", name))
	if federation != "" {
		builder = builder.Where(qb.Eq("federation", federation))
	}
	query, args, err := builder.OrderBy("id").Limit(1).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build find player by name query: %w", err)
	}

	var row playerTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find player by name: %w", err)
	}

	p := row.toDomain()
	return &p, nil
}

func (r *PlayerRepository) Create(ctx context.Context, p player.Player) (int64, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}

	insertModel := playerInsertModel{
		FideID:     p.FideID,
		Name:       p.Name,
		Federation: p.Federation,
		Sex:        p.Sex,
	}
	// An import racing this insert from another process may have created the
	// same fide id already; the conflict clause turns the losing insert into
	// a lookup of the winner's row. NULL fide ids never conflict.
	query, args, err := qb.InsertModel("players", insertModel,
		"ON CONFLICT (fide_id) DO UPDATE SET updated_at = NOW() RETURNING id")
	if err != nil {
		return 0, fmt.Errorf("build create player query: %w", err)
	}

	var id int64
	if err := r.db.GetContext(ctx, &id, query, args...); err != nil {
		return 0, fmt.Errorf("create player: %w", err)
	}

	return id, nil
}

func (r *PlayerRepository) SetFideID(ctx context.Context, id int64, fideID int64, sex *string) error {
	builder := qb.Update("players").
		Set("fide_id", fideID).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", id), qb.IsNull("fide_id"))
	if sex != nil {
		builder = builder.SetExpr("sex", "COALESCE(sex, ?)", *sex)
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return fmt.Errorf("build set fide id query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("set fide id: %w", err)
	}

	return nil
}

func (r *PlayerRepository) ListByIDs(ctx context.Context, ids []int64) ([]player.Player, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	values := make([]any, 0, len(ids))
	for _, id := range ids {
		values = append(values, id)
	}
	query, args, err := qb.Select("*").From("players").Where(qb.In("id", values)).OrderBy("id").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list players query: %w", err)
	}

	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}

	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

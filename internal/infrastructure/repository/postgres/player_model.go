package postgres

import (
	"database/sql"
	"time"

	"github.com/walela/gp/internal/domain/player"
)

type playerTableModel struct {
	ID         int64          `db:"id"`
	FideID     sql.NullInt64  `db:"fide_id"`
	Name       string         `db:"name"`
	Federation string         `db:"federation"`
	Sex        sql.NullString `db:"sex"`
	CreatedAt  time.Time      `db:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at"`
}

func (m playerTableModel) toDomain() player.Player {
	return player.Player{
		ID:         m.ID,
		FideID:     nullInt64ToPtr(m.FideID),
		Name:       m.Name,
		Federation: m.Federation,
		Sex:        nullStringToPtr(m.Sex),
	}
}

type playerInsertModel struct {
	FideID     *int64  `db:"fide_id"`
	Name       string  `db:"name"`
	Federation string  `db:"federation"`
	Sex        *string `db:"sex"`
}

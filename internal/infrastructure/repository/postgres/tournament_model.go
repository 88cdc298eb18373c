package postgres

import (
	"database/sql"
	"time"

	"github.com/walela/gp/internal/domain/tournament"
)

type tournamentTableModel struct {
	ID        string         `db:"id"`
	Name      string         `db:"name"`
	ShortName sql.NullString `db:"short_name"`
	Location  sql.NullString `db:"location"`
	Rounds    int            `db:"rounds"`
	StartDate sql.NullTime   `db:"start_date"`
	EndDate   sql.NullTime   `db:"end_date"`
	SeasonID  string         `db:"season_id"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}

func (m tournamentTableModel) toDomain() tournament.Tournament {
	return tournament.Tournament{
		ID:        m.ID,
		Name:      m.Name,
		ShortName: nullStringToPtr(m.ShortName),
		Location:  nullStringToPtr(m.Location),
		Rounds:    m.Rounds,
		StartDate: nullTimeToTimePtr(m.StartDate),
		EndDate:   nullTimeToTimePtr(m.EndDate),
		SeasonID:  m.SeasonID,
	}
}

type tournamentInsertModel struct {
	ID        string     `db:"id"`
	Name      string     `db:"name"`
	ShortName *string    `db:"short_name"`
	Location  *string    `db:"location"`
	Rounds    int        `db:"rounds"`
	StartDate *time.Time `db:"start_date"`
	EndDate   *time.Time `db:"end_date"`
	SeasonID  string     `db:"season_id"`
}

type resultInsertModel struct {
	TournamentID string  `db:"tournament_id"`
	PlayerID     int64   `db:"player_id"`
	Rank         int     `db:"rank"`
	StartRank    int     `db:"start_rank"`
	Rating       int     `db:"rating"`
	Points       float64 `db:"points"`
	TPR          *int    `db:"tpr"`
	HasWalkover  *bool   `db:"has_walkover"`
	ResultStatus *string `db:"result_status"`
}

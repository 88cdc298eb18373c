package postgres

import (
	"database/sql"
	"time"

	"github.com/walela/gp/internal/domain/ranking"
)

type rankingTableModel struct {
	ID                int64         `db:"id"`
	PlayerID          int64         `db:"player_id"`
	SeasonID          string        `db:"season_id"`
	Rating            int           `db:"rating"`
	TournamentsPlayed int           `db:"tournaments_played"`
	Best1             int           `db:"best_1"`
	Best2             int           `db:"best_2"`
	Best3             int           `db:"best_3"`
	Best4             int           `db:"best_4"`
	Tournament1       string        `db:"tournament_1"`
	CurrentRank       int           `db:"current_rank"`
	PreviousRank      sql.NullInt64 `db:"previous_rank"`
	UpdatedAt         time.Time     `db:"updated_at"`

	PlayerName       string        `db:"player_name"`
	PlayerFederation string        `db:"player_federation"`
	PlayerFideID     sql.NullInt64 `db:"player_fide_id"`
}

func (m rankingTableModel) toDomain() ranking.Entry {
	return ranking.Entry{
		PlayerID:          m.PlayerID,
		SeasonID:          m.SeasonID,
		PlayerName:        m.PlayerName,
		Federation:        m.PlayerFederation,
		FideID:            nullInt64ToPtr(m.PlayerFideID),
		Rating:            m.Rating,
		TournamentsPlayed: m.TournamentsPlayed,
		Best1:             m.Best1,
		Best2:             m.Best2,
		Best3:             m.Best3,
		Best4:             m.Best4,
		Tournament1:       m.Tournament1,
		CurrentRank:       m.CurrentRank,
		PreviousRank:      nullIntToPtr(m.PreviousRank),
	}
}

type rankingInsertModel struct {
	PlayerID          int64  `db:"player_id"`
	SeasonID          string `db:"season_id"`
	Rating            int    `db:"rating"`
	TournamentsPlayed int    `db:"tournaments_played"`
	Best1             int    `db:"best_1"`
	Best2             int    `db:"best_2"`
	Best3             int    `db:"best_3"`
	Best4             int    `db:"best_4"`
	Tournament1       string `db:"tournament_1"`
	CurrentRank       int    `db:"current_rank"`
	PreviousRank      *int   `db:"previous_rank"`
}

type snapshotTableModel struct {
	ID                int64     `db:"id"`
	RecalculatedAt    time.Time `db:"recalculated_at"`
	SeasonID          string    `db:"season_id"`
	Rank              int       `db:"rank"`
	PlayerID          int64     `db:"player_id"`
	PlayerName        string    `db:"player_name"`
	TournamentsPlayed int       `db:"tournaments_played"`
	Best4             int       `db:"best_4"`
}

type snapshotInsertModel struct {
	RecalculatedAt    time.Time `db:"recalculated_at"`
	SeasonID          string    `db:"season_id"`
	Rank              int       `db:"rank"`
	PlayerID          int64     `db:"player_id"`
	PlayerName        string    `db:"player_name"`
	TournamentsPlayed int       `db:"tournaments_played"`
	Best4             int       `db:"best_4"`
}

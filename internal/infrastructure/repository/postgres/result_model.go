package postgres

import (
	"database/sql"

	"github.com/walela/gp/internal/domain/result"
)

type playerResultTableModel struct {
	TournamentID     string          `db:"tournament_id"`
	PlayerID         int64           `db:"player_id"`
	Rank             int             `db:"rank"`
	StartRank        int             `db:"start_rank"`
	Rating           int             `db:"rating"`
	Points           float64         `db:"points"`
	TPR              sql.NullInt64   `db:"tpr"`
	HasWalkover      sql.NullBool    `db:"has_walkover"`
	ResultStatus     sql.NullString  `db:"result_status"`
	PlayerName       string          `db:"player_name"`
	PlayerFideID     sql.NullInt64   `db:"player_fide_id"`
	PlayerFederation string          `db:"player_federation"`
	TournamentName   string          `db:"tournament_name"`
	TournamentEnd    sql.NullTime    `db:"tournament_end"`
}

func (m playerResultTableModel) toDomain() result.PlayerResult {
	status := result.Status("")
	if m.ResultStatus.Valid {
		status = result.Status(m.ResultStatus.String)
	}

	return result.PlayerResult{
		Result: result.Result{
			TournamentID: m.TournamentID,
			PlayerID:     m.PlayerID,
			Rank:         m.Rank,
			StartRank:    m.StartRank,
			Rating:       m.Rating,
			Points:       m.Points,
			TPR:          nullIntToPtr(m.TPR),
			HasWalkover:  nullBoolToPtr(m.HasWalkover),
			Status:       status,
		},
		PlayerName:       m.PlayerName,
		PlayerFideID:     nullInt64ToPtr(m.PlayerFideID),
		PlayerFederation: m.PlayerFederation,
		TournamentName:   m.TournamentName,
		TournamentEnd:    nullTimeToTimePtr(m.TournamentEnd),
	}
}

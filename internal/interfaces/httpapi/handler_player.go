package httpapi

import (
	"fmt"
	"net/http"
	"sort"
	"strconv"

	"github.com/walela/gp/internal/domain/result"
	"github.com/walela/gp/internal/usecase"
)

type playerProfileDTO struct {
	ID         int64              `json:"id"`
	FideID     *int64             `json:"fide_id,omitempty"`
	Name       string             `json:"name"`
	Federation string             `json:"federation"`
	Sex        string             `json:"sex,omitempty"`
	Results    []playerHistoryDTO `json:"results"`
}

type playerHistoryDTO struct {
	TournamentID   string  `json:"tournament_id"`
	TournamentName string  `json:"tournament_name"`
	TournamentEnd  string  `json:"tournament_end,omitempty"`
	URL            string  `json:"url"`
	Rank           int     `json:"rank"`
	Rating         int     `json:"rating"`
	Points         float64 `json:"points"`
	TPR            *int    `json:"tpr,omitempty"`
	Status         string  `json:"result_status,omitempty"`
}

func (h *Handler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayer")
	defer span.End()

	rawFideID := r.PathValue("fideID")
	fideID, err := strconv.ParseInt(rawFideID, 10, 64)
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid fide id %q", usecase.ErrInvalidInput, rawFideID))
		return
	}

	profile, err := h.playerService.ProfileByFideID(ctx, fideID)
	if err != nil {
		h.logger.WarnContext(ctx, "get player failed", "fide_id", fideID, "error", err)
		writeError(ctx, w, err)
		return
	}

	history := make([]playerHistoryDTO, 0, len(profile.Results))
	for _, row := range profile.Results {
		history = append(history, playerHistoryToDTO(row))
	}
	// Most recent event first; rows without a date sink to the bottom.
	sort.SliceStable(history, func(i, j int) bool {
		return history[i].TournamentEnd > history[j].TournamentEnd
	})

	dto := playerProfileDTO{
		ID:         profile.ID,
		FideID:     profile.FideID,
		Name:       profile.Name,
		Federation: profile.Federation,
		Results:    history,
	}
	if profile.Sex != nil {
		dto.Sex = *profile.Sex
	}

	writeSuccess(ctx, w, http.StatusOK, dto)
}

func playerHistoryToDTO(row result.PlayerResult) playerHistoryDTO {
	return playerHistoryDTO{
		TournamentID:   row.TournamentID,
		TournamentName: row.TournamentName,
		TournamentEnd:  formatDate(row.TournamentEnd),
		URL:            chessResultsURL(row.TournamentID),
		Rank:           row.Rank,
		Rating:         row.Rating,
		Points:         row.Points,
		TPR:            row.TPR,
		Status:         string(row.Status),
	}
}

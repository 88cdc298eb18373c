package httpapi

import (
	"net/http"
	"sort"
	"strings"

	"github.com/walela/gp/internal/domain/result"
	"github.com/walela/gp/internal/usecase"
)

type tournamentSummaryDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Location    string `json:"location,omitempty"`
	Rounds      int    `json:"rounds"`
	StartDate   string `json:"start_date,omitempty"`
	EndDate     string `json:"end_date,omitempty"`
	SeasonID    string `json:"season_id"`
	ResultCount int    `json:"result_count"`
	URL         string `json:"url"`
}

type tournamentDetailDTO struct {
	tournamentSummaryDTO
	Results    []playerResultDTO `json:"results"`
	Page       int               `json:"page"`
	TotalPages int               `json:"total_pages"`
}

type playerResultDTO struct {
	Rank        int     `json:"rank"`
	StartRank   int     `json:"start_rank,omitempty"`
	Name        string  `json:"name"`
	FideID      *int64  `json:"fide_id,omitempty"`
	Federation  string  `json:"federation,omitempty"`
	Rating      int     `json:"rating"`
	Points      float64 `json:"points"`
	TPR         *int    `json:"tpr,omitempty"`
	Status      string  `json:"result_status,omitempty"`
	HasWalkover *bool   `json:"has_walkover,omitempty"`
}

func (h *Handler) ListTournaments(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTournaments")
	defer span.End()

	seasonID := h.seasonParam(r)
	summaries, err := h.tournamentService.List(ctx, seasonID)
	if err != nil {
		h.logger.WarnContext(ctx, "list tournaments failed", "season_id", seasonID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]tournamentSummaryDTO, 0, len(summaries))
	for _, s := range summaries {
		items = append(items, tournamentSummaryToDTO(s))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetTournament(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTournament")
	defer span.End()

	tournamentID := r.PathValue("tournamentID")
	detail, err := h.tournamentService.Get(ctx, tournamentID)
	if err != nil {
		h.logger.WarnContext(ctx, "get tournament failed", "tournament_id", tournamentID, "error", err)
		writeError(ctx, w, err)
		return
	}

	rows := detail.Results
	sortKey, descending := sortParams(r, "rank")
	sortPlayerResults(rows, sortKey, descending)

	page := pageParam(r)
	totalPages := 1
	if !strings.EqualFold(r.URL.Query().Get("all_results"), "true") {
		var start, end int
		start, end, totalPages = paginate(len(rows), page, defaultPageSize)
		rows = rows[start:end]
	}

	items := make([]playerResultDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, playerResultToDTO(row))
	}

	writeSuccess(ctx, w, http.StatusOK, tournamentDetailDTO{
		tournamentSummaryDTO: tournamentSummaryToDTO(usecase.TournamentSummary{
			Tournament:  detail.Tournament,
			ResultCount: len(detail.Results),
		}),
		Results:    items,
		Page:       page,
		TotalPages: totalPages,
	})
}

func sortPlayerResults(rows []result.PlayerResult, sortKey string, descending bool) {
	less := func(i, j int) bool { return rows[i].Rank < rows[j].Rank }
	switch sortKey {
	case "name":
		less = func(i, j int) bool { return rows[i].PlayerName < rows[j].PlayerName }
	case "rating":
		less = func(i, j int) bool { return rows[i].Rating < rows[j].Rating }
	case "points":
		less = func(i, j int) bool { return rows[i].Points < rows[j].Points }
	case "tpr":
		less = func(i, j int) bool { return tprOrZero(rows[i].TPR) < tprOrZero(rows[j].TPR) }
	}
	if descending && sortKey != "rank" && sortKey != "" {
		inner := less
		less = func(i, j int) bool { return inner(j, i) }
	}
	sort.SliceStable(rows, less)
}

func tprOrZero(tpr *int) int {
	if tpr == nil {
		return 0
	}
	return *tpr
}

func tournamentSummaryToDTO(s usecase.TournamentSummary) tournamentSummaryDTO {
	dto := tournamentSummaryDTO{
		ID:          s.ID,
		Name:        s.Name,
		Rounds:      s.Rounds,
		StartDate:   formatDate(s.StartDate),
		EndDate:     formatDate(s.EndDate),
		SeasonID:    s.SeasonID,
		ResultCount: s.ResultCount,
		URL:         chessResultsURL(s.ID),
	}
	if s.Location != nil {
		dto.Location = *s.Location
	}
	return dto
}

func playerResultToDTO(row result.PlayerResult) playerResultDTO {
	return playerResultDTO{
		Rank:        row.Rank,
		StartRank:   row.StartRank,
		Name:        row.PlayerName,
		FideID:      row.PlayerFideID,
		Federation:  row.PlayerFederation,
		Rating:      row.Rating,
		Points:      row.Points,
		TPR:         row.TPR,
		Status:      string(row.Status),
		HasWalkover: row.HasWalkover,
	}
}

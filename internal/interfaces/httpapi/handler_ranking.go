package httpapi

import (
	"net/http"
	"sort"
	"strings"

	"github.com/walela/gp/internal/domain/ranking"
	"github.com/walela/gp/internal/usecase"
)

type rankingEntryDTO struct {
	Rank              int    `json:"rank"`
	PreviousRank      *int   `json:"previous_rank,omitempty"`
	Delta             *int   `json:"delta,omitempty"`
	New               bool   `json:"new,omitempty"`
	Name              string `json:"name"`
	FideID            *int64 `json:"fide_id,omitempty"`
	Federation        string `json:"federation"`
	Rating            int    `json:"rating"`
	TournamentsPlayed int    `json:"tournaments_played"`
	Best1             int    `json:"best_1"`
	Best2             int    `json:"best_2"`
	Best3             int    `json:"best_3"`
	Best4             int    `json:"best_4"`
	Tournament1       string `json:"tournament_1,omitempty"`
}

type rankingsPageDTO struct {
	SeasonID   string            `json:"season_id"`
	Entries    []rankingEntryDTO `json:"entries"`
	Page       int               `json:"page"`
	TotalPages int               `json:"total_pages"`
	Total      int               `json:"total"`
}

func (h *Handler) GetRankings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetRankings")
	defer span.End()

	seasonID := h.seasonParam(r)
	entries, deltas, err := h.rankingService.Standings(ctx, seasonID)
	if err != nil {
		h.logger.WarnContext(ctx, "get rankings failed", "season_id", seasonID, "error", err)
		writeError(ctx, w, err)
		return
	}

	if q := strings.TrimSpace(r.URL.Query().Get("q")); q != "" {
		entries = filterRankingsByName(entries, q)
	}

	sortKey, descending := sortParams(r, "rank")
	sortRankings(entries, sortKey, descending)

	deltasByPlayer := make(map[int64]usecase.RankDelta, len(deltas))
	for _, d := range deltas {
		deltasByPlayer[d.PlayerID] = d
	}

	page := pageParam(r)
	start, end, totalPages := paginate(len(entries), page, defaultPageSize)

	items := make([]rankingEntryDTO, 0, end-start)
	for _, entry := range entries[start:end] {
		dto := rankingEntryDTO{
			Rank:              entry.CurrentRank,
			PreviousRank:      entry.PreviousRank,
			Name:              entry.PlayerName,
			FideID:            entry.FideID,
			Federation:        entry.Federation,
			Rating:            entry.Rating,
			TournamentsPlayed: entry.TournamentsPlayed,
			Best1:             entry.Best1,
			Best2:             entry.Best2,
			Best3:             entry.Best3,
			Best4:             entry.Best4,
			Tournament1:       entry.Tournament1,
		}
		if d, ok := deltasByPlayer[entry.PlayerID]; ok {
			if d.New {
				dto.New = true
			} else {
				delta := d.Delta
				dto.Delta = &delta
			}
		}
		items = append(items, dto)
	}

	writeSuccess(ctx, w, http.StatusOK, rankingsPageDTO{
		SeasonID:   seasonID,
		Entries:    items,
		Page:       page,
		TotalPages: totalPages,
		Total:      len(entries),
	})
}

func filterRankingsByName(entries []ranking.Entry, q string) []ranking.Entry {
	q = strings.ToLower(q)
	out := make([]ranking.Entry, 0, len(entries))
	for _, entry := range entries {
		if strings.Contains(strings.ToLower(entry.PlayerName), q) {
			out = append(out, entry)
		}
	}
	return out
}

func sortRankings(entries []ranking.Entry, sortKey string, descending bool) {
	less := func(i, j int) bool { return entries[i].CurrentRank < entries[j].CurrentRank }
	switch sortKey {
	case "name":
		less = func(i, j int) bool { return entries[i].PlayerName < entries[j].PlayerName }
	case "rating":
		less = func(i, j int) bool { return entries[i].Rating < entries[j].Rating }
	case "tournaments":
		less = func(i, j int) bool { return entries[i].TournamentsPlayed < entries[j].TournamentsPlayed }
	case "best_1":
		less = func(i, j int) bool { return entries[i].Best1 < entries[j].Best1 }
	case "best_2":
		less = func(i, j int) bool { return entries[i].Best2 < entries[j].Best2 }
	case "best_3":
		less = func(i, j int) bool { return entries[i].Best3 < entries[j].Best3 }
	case "best_4":
		less = func(i, j int) bool { return entries[i].Best4 < entries[j].Best4 }
	}
	if descending && sortKey != "rank" && sortKey != "" {
		inner := less
		less = func(i, j int) bool { return inner(j, i) }
	}
	sort.SliceStable(entries, less)
}

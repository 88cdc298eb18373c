package httpapi

import (
	"testing"

	"github.com/walela/gp/internal/domain/ranking"
)

func rankingFixture() []ranking.Entry {
	return []ranking.Entry{
		{PlayerID: 1, PlayerName: "Akinyi, Rose", Rating: 1900, Best1: 2100, TournamentsPlayed: 4, CurrentRank: 1},
		{PlayerID: 2, PlayerName: "Mwangi, John", Rating: 2000, Best1: 2050, TournamentsPlayed: 3, CurrentRank: 2},
		{PlayerID: 3, PlayerName: "Otieno, Brian", Rating: 1700, Best1: 1950, TournamentsPlayed: 2, CurrentRank: 3},
	}
}

func TestFilterRankingsByName(t *testing.T) {
	out := filterRankingsByName(rankingFixture(), "mwangi")
	if len(out) != 1 || out[0].PlayerID != 2 {
		t.Fatalf("filtered = %+v, want only player 2", out)
	}
}

func TestSortRankingsByRatingDescending(t *testing.T) {
	entries := rankingFixture()
	sortRankings(entries, "rating", true)
	if entries[0].PlayerID != 2 || entries[2].PlayerID != 3 {
		t.Fatalf("order = %d,%d,%d, want 2,1,3", entries[0].PlayerID, entries[1].PlayerID, entries[2].PlayerID)
	}
}

func TestPaginate(t *testing.T) {
	tests := []struct {
		name      string
		n, page   int
		wantStart int
		wantEnd   int
		wantPages int
	}{
		{name: "first page", n: 60, page: 1, wantStart: 0, wantEnd: 25, wantPages: 3},
		{name: "last partial page", n: 60, page: 3, wantStart: 50, wantEnd: 60, wantPages: 3},
		{name: "past the end", n: 10, page: 5, wantStart: 10, wantEnd: 10, wantPages: 1},
		{name: "empty", n: 0, page: 1, wantStart: 0, wantEnd: 0, wantPages: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, pages := paginate(tt.n, tt.page, defaultPageSize)
			if start != tt.wantStart || end != tt.wantEnd || pages != tt.wantPages {
				t.Fatalf("paginate(%d, %d) = %d,%d,%d want %d,%d,%d",
					tt.n, tt.page, start, end, pages, tt.wantStart, tt.wantEnd, tt.wantPages)
			}
		})
	}
}

package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/walela/gp/internal/domain/result"
	"github.com/walela/gp/internal/domain/tournament"
)

func TestTournamentListAttachesResultCounts(t *testing.T) {
	t.Parallel()

	tournaments := &stubTournamentRepo{listed: []tournament.Tournament{
		{ID: "1001", Name: "Nairobi Open", Rounds: 6, SeasonID: "gp-2025"},
		{ID: "1002", Name: "Kisumu Open", Rounds: 6, SeasonID: "gp-2025"},
	}}
	results := &stubResultRepo{counts: map[string]int{"1001": 42}}

	svc := NewTournamentService(tournaments, results)
	out, err := svc.List(context.Background(), "gp-2025")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("got %d tournaments, want 2", len(out))
	}
	if out[0].ResultCount != 42 {
		t.Fatalf("1001 result count = %d, want 42", out[0].ResultCount)
	}
	if out[1].ResultCount != 0 {
		t.Fatalf("1002 result count = %d, want 0", out[1].ResultCount)
	}
}

func TestTournamentGetUnknownIsNotFound(t *testing.T) {
	t.Parallel()

	svc := NewTournamentService(&stubTournamentRepo{}, &stubResultRepo{})
	if _, err := svc.Get(context.Background(), "9999"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestTournamentGetReturnsStandings(t *testing.T) {
	t.Parallel()

	tournaments := &stubTournamentRepo{stored: map[string]tournament.Tournament{
		"1001": {ID: "1001", Name: "Nairobi Open", Rounds: 6, SeasonID: "gp-2025"},
	}}
	results := &stubResultRepo{byTournamnt: map[string][]result.PlayerResult{
		"1001": {
			{Result: result.Result{TournamentID: "1001", PlayerID: 1, Rank: 1}, PlayerName: "Akinyi, Rose"},
		},
	}}

	svc := NewTournamentService(tournaments, results)
	detail, err := svc.Get(context.Background(), "1001")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if detail.Name != "Nairobi Open" || len(detail.Results) != 1 {
		t.Fatalf("detail = %+v", detail)
	}
}

package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/walela/gp/internal/domain/player"
	"github.com/walela/gp/internal/domain/result"
)

func TestPlayerProfileByFideID(t *testing.T) {
	t.Parallel()

	players := &stubPlayerRepo{players: []player.Player{
		{ID: 9, FideID: i64p(10800123), Name: "Akinyi, Rose", Federation: "KEN"},
	}}
	results := &stubResultRepo{byPlayer: map[int64][]result.PlayerResult{
		9: {
			{Result: result.Result{TournamentID: "1001", PlayerID: 9, Rank: 3}, TournamentName: "Nairobi Open"},
			{Result: result.Result{TournamentID: "1002", PlayerID: 9, Rank: 1}, TournamentName: "Kisumu Open"},
		},
	}}

	svc := NewPlayerService(players, results)
	profile, err := svc.ProfileByFideID(context.Background(), 10800123)
	if err != nil {
		t.Fatalf("ProfileByFideID: %v", err)
	}
	if profile.Name != "Akinyi, Rose" || len(profile.Results) != 2 {
		t.Fatalf("profile = %+v", profile)
	}
}

func TestPlayerProfileUnknownFideID(t *testing.T) {
	t.Parallel()

	svc := NewPlayerService(&stubPlayerRepo{}, &stubResultRepo{})
	if _, err := svc.ProfileByFideID(context.Background(), 123); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if _, err := svc.ProfileByFideID(context.Background(), 0); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

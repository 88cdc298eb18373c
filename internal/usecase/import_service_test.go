package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/walela/gp/internal/domain/result"
	"github.com/walela/gp/internal/domain/season"
	"github.com/walela/gp/internal/platform/logging"
)

func importFixtureSeasons() *stubSeasonRepo {
	return &stubSeasonRepo{seasons: map[string]season.Season{
		"gp-2025": {ID: "gp-2025", Name: "Grand Prix 2025", StartDate: fixedTime(1), EndDate: fixedTime(28)},
	}}
}

func TestImportFullPipeline(t *testing.T) {
	t.Parallel()

	start, end := fixedTime(1), fixedTime(2)
	provider := &stubProvider{
		details: ScrapedDetails{Rounds: 7, RoundsFound: true, StartDate: &start, EndDate: &end},
		standings: map[string]ScrapedTournament{
			"1001": {
				ID:   "1001",
				Name: "Nakuru Open Chess Championship",
				Rows: []ScrapedRow{
					{Rank: 1, StartRank: 4, Name: "Akinyi, Rose", Federation: "KEN", Sex: "F", Rating: 1900, Points: 5.5, TPR: intp(2100)},
					{Rank: 2, StartRank: 1, Name: "Mwangi, John", Federation: "KEN", Rating: 2000, Points: 5, TPR: intp(2050)},
				},
			},
		},
		statuses: map[int]result.Status{
			4: result.StatusValid,
			1: result.StatusWalkover,
		},
		enrichments: []ScrapeEnrichment{
			{StartRank: 4, FideID: i64p(10800123), HasWalkover: boolp(false)},
			{StartRank: 1, HasWalkover: boolp(true)},
		},
	}
	players := &stubPlayerRepo{}
	tournaments := &stubTournamentRepo{}

	svc := NewImportService(ImportServiceConfig{
		Provider:      provider,
		Identity:      NewIdentityResolver(players, logging.NewNop()),
		Tournaments:   tournaments,
		Seasons:       importFixtureSeasons(),
		Logger:        logging.NewNop(),
		InferLocation: func(name string) string { return "Nakuru" },
	})

	out, err := svc.Import(context.Background(), ImportInput{
		TournamentIDs: []string{"1001"},
		SeasonID:      "gp-2025",
	})
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if out.SuccessCount != 1 || out.FailedCount != 0 {
		t.Fatalf("success/failed = %d/%d, want 1/0", out.SuccessCount, out.FailedCount)
	}

	saved := tournaments.stored["1001"]
	if saved.Name != "Nakuru Open Chess Championship" {
		t.Fatalf("saved name = %q", saved.Name)
	}
	if saved.Rounds != 7 {
		t.Fatalf("saved rounds = %d, want 7 from the details page", saved.Rounds)
	}
	if saved.Location == nil || *saved.Location != "Nakuru" {
		t.Fatalf("saved location = %v, want Nakuru", saved.Location)
	}
	if saved.StartDate == nil || !saved.StartDate.Equal(start) {
		t.Fatalf("saved start date = %v, want %v", saved.StartDate, start)
	}

	rows := tournaments.rows["1001"]
	if len(rows) != 2 {
		t.Fatalf("saved %d rows, want 2", len(rows))
	}
	if rows[0].Status != result.StatusValid || rows[1].Status != result.StatusWalkover {
		t.Fatalf("row statuses = %s/%s, want valid/walkover", rows[0].Status, rows[1].Status)
	}
	if rows[1].HasWalkover == nil || !*rows[1].HasWalkover {
		t.Fatalf("row 2 walkover flag = %v, want true", rows[1].HasWalkover)
	}

	// The enriched fide id reached identity resolution.
	enriched, _ := players.GetByFideID(context.Background(), 10800123)
	if enriched == nil || enriched.Name != "Akinyi, Rose" {
		t.Fatalf("enriched player = %+v, want Akinyi, Rose", enriched)
	}
}

func TestImportFallsBackToNameHeuristicRounds(t *testing.T) {
	t.Parallel()

	provider := &stubProvider{
		detailsErr: errors.New("details page down"),
		standings: map[string]ScrapedTournament{
			"2002": {
				ID:   "2002",
				Name: "Mavens Open",
				Rows: []ScrapedRow{
					{Rank: 1, StartRank: 1, Name: "Otieno, Brian", Federation: "KEN", Rating: 1700, Points: 6, TPR: intp(1950)},
				},
			},
		},
	}
	tournaments := &stubTournamentRepo{}

	svc := NewImportService(ImportServiceConfig{
		Provider:    provider,
		Identity:    NewIdentityResolver(&stubPlayerRepo{}, logging.NewNop()),
		Tournaments: tournaments,
		Seasons:     importFixtureSeasons(),
		Logger:      logging.NewNop(),
		InferRounds: func(name string, fallback int) int { return 8 },
	})

	out, err := svc.Import(context.Background(), ImportInput{
		TournamentIDs:  []string{"2002"},
		SeasonID:       "gp-2025",
		SkipEnrichment: true,
	})
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if out.SuccessCount != 1 {
		t.Fatalf("success = %d, want 1: %+v", out.SuccessCount, out.Tasks)
	}
	if got := tournaments.stored["2002"].Rounds; got != 8 {
		t.Fatalf("rounds = %d, want 8 from the name heuristic", got)
	}
}

func TestImportRecordsPerTournamentFailures(t *testing.T) {
	t.Parallel()

	provider := &stubProvider{
		standings: map[string]ScrapedTournament{
			"3001": {
				ID:   "3001",
				Name: "Kisumu Open",
				Rows: []ScrapedRow{
					{Rank: 1, StartRank: 1, Name: "Wanjiku, Mary", Federation: "KEN", Rating: 1600, Points: 4, TPR: intp(1800)},
				},
			},
			// 3002 missing: its standings fetch fails.
		},
	}
	tournaments := &stubTournamentRepo{}

	svc := NewImportService(ImportServiceConfig{
		Provider:    provider,
		Identity:    NewIdentityResolver(&stubPlayerRepo{}, logging.NewNop()),
		Tournaments: tournaments,
		Seasons:     importFixtureSeasons(),
		Logger:      logging.NewNop(),
	})

	out, err := svc.Import(context.Background(), ImportInput{
		TournamentIDs:  []string{"3002", "3001"},
		SeasonID:       "gp-2025",
		SkipEnrichment: true,
	})
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if out.SuccessCount != 1 || out.FailedCount != 1 {
		t.Fatalf("success/failed = %d/%d, want 1/1", out.SuccessCount, out.FailedCount)
	}

	// Tasks come back sorted by tournament id regardless of completion order.
	if out.Tasks[0].TournamentID != "3001" || out.Tasks[0].Status != importStatusSuccess {
		t.Fatalf("task 0 = %+v, want 3001 success", out.Tasks[0])
	}
	if out.Tasks[1].TournamentID != "3002" || out.Tasks[1].Status != importStatusFailed {
		t.Fatalf("task 1 = %+v, want 3002 failed", out.Tasks[1])
	}
	if out.Tasks[1].Message == "" {
		t.Fatal("failed task has no message")
	}
}

func TestImportRejectsUnknownSeason(t *testing.T) {
	t.Parallel()

	svc := NewImportService(ImportServiceConfig{
		Provider:    &stubProvider{},
		Identity:    NewIdentityResolver(&stubPlayerRepo{}, logging.NewNop()),
		Tournaments: &stubTournamentRepo{},
		Seasons:     importFixtureSeasons(),
		Logger:      logging.NewNop(),
	})

	_, err := svc.Import(context.Background(), ImportInput{
		TournamentIDs: []string{"1001"},
		SeasonID:      "gp-1999",
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestImportRequiresTournamentIDs(t *testing.T) {
	t.Parallel()

	svc := NewImportService(ImportServiceConfig{
		Provider:    &stubProvider{},
		Identity:    NewIdentityResolver(&stubPlayerRepo{}, logging.NewNop()),
		Tournaments: &stubTournamentRepo{},
		Logger:      logging.NewNop(),
	})

	_, err := svc.Import(context.Background(), ImportInput{
		TournamentIDs: []string{" ", ""},
		SeasonID:      "gp-2025",
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestNormalizeImportWorkerCount(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		requested int
		tasks     int
		want      int
	}{
		{"default", 0, 10, defaultImportWorkers},
		{"capped", 16, 10, maxImportWorkers},
		{"bounded by tasks", 4, 1, 1},
		{"explicit", 3, 10, 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := normalizeImportWorkerCount(tc.requested, tc.tasks); got != tc.want {
				t.Fatalf("normalizeImportWorkerCount(%d, %d) = %d, want %d", tc.requested, tc.tasks, got, tc.want)
			}
		})
	}
}

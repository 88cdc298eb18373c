package usecase

import (
	"context"
	"time"

	"github.com/walela/gp/internal/domain/result"
)

// ScrapedRow is one standings line as the provider parsed it, before identity
// resolution ties it to a stored player.
type ScrapedRow struct {
	Rank       int
	StartRank  int
	Name       string
	Federation string
	Sex        string
	Rating     int
	Points     float64
	TPR        *int
}

// ScrapedTournament is a parsed standings page. Rounds is zero when no page
// signal revealed it; the import falls back to the details page and then the
// name heuristic.
type ScrapedTournament struct {
	ID        string
	Name      string
	Rounds    int
	StartDate *time.Time
	EndDate   *time.Time
	Rows      []ScrapedRow
	Warnings  []string
}

// ScrapedDetails is a parsed tournament details page.
type ScrapedDetails struct {
	Rounds      int
	RoundsFound bool
	StartDate   *time.Time
	EndDate     *time.Time
}

// ScrapeEnrichment is the outcome of one player-page visit. Err is per-entry;
// the batch never aborts.
type ScrapeEnrichment struct {
	StartRank   int
	FideID      *int64
	HasWalkover *bool
	Err         error
}

// TournamentProvider is the scraping boundary the import service drives.
type TournamentProvider interface {
	FetchDetails(ctx context.Context, tournamentID string) (ScrapedDetails, error)
	FetchStandings(ctx context.Context, tournamentID string, rounds int) (ScrapedTournament, error)
	// ClassifyResult inspects a player's round-by-round card. Failures yield
	// StatusUnknown alongside the error; unknown is never escalated.
	ClassifyResult(ctx context.Context, tournamentID string, startRank int) (result.Status, error)
	EnrichTournament(ctx context.Context, tournamentID string, startRanks []int) []ScrapeEnrichment
}

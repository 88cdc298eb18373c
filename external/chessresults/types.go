package chessresults

import "time"

// Tournament is the parsed content of a chess-results.com standings page.
// Rounds may be zero when no page signal revealed the count; callers fall
// back to the details page or the name heuristics.
type Tournament struct {
	ID        string
	Name      string
	Rounds    int
	StartDate *time.Time
	EndDate   *time.Time
	Rows      []Row
	// Warnings records non-fatal parse defects such as missing standings
	// columns. They are surfaced in logs, never as errors.
	Warnings []string
}

// Row is one line of the final standings table.
type Row struct {
	Rank       int
	StartRank  int
	Name       string
	Federation string
	Sex        string
	Rating     int
	Points     float64
	TPR        *int
}

// Details is the parsed content of a tournament details page.
type Details struct {
	Rounds      int
	RoundsFound bool
	StartDate   *time.Time
	EndDate     *time.Time
}

// Enrichment is the outcome of one player-page visit during a batch enrich.
// Err is per-entry; a failed entry never aborts the batch.
type Enrichment struct {
	StartRank   int
	FideID      *int64
	HasWalkover *bool
	Err         error
}

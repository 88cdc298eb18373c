package ranking

import (
	"fmt"
	"time"
)

// Entry is one player's row in a season's Grand Prix standings. BestN fields
// are the rounded average TPR of the player's top N tournaments; a BestN of
// zero means the player has fewer than N countable results.
type Entry struct {
	PlayerID          int64
	SeasonID          string
	PlayerName        string
	Federation        string
	FideID            *int64
	Rating            int
	TournamentsPlayed int
	Best1             int
	Best2             int
	Best3             int
	Best4             int
	// Tournament1 names the event that produced Best1.
	Tournament1  string
	CurrentRank  int
	PreviousRank *int
}

func (e Entry) Validate() error {
	if e.PlayerID <= 0 {
		return fmt.Errorf("ranking player id is required")
	}
	if e.SeasonID == "" {
		return fmt.Errorf("ranking season id is required")
	}
	if e.CurrentRank <= 0 {
		return fmt.Errorf("ranking rank must be positive")
	}

	return nil
}

// Snapshot is one frozen row of a recalculation batch. Batches share a
// RecalculatedAt timestamp and exist only to compute rank deltas.
type Snapshot struct {
	RecalculatedAt    time.Time
	SeasonID          string
	Rank              int
	PlayerID          int64
	PlayerName        string
	TournamentsPlayed int
	Best4             int
}

// SnapshotBatch groups the snapshot rows written by one recalculation.
type SnapshotBatch struct {
	RecalculatedAt time.Time
	Rows           []Snapshot
}

// TopN returns the batch's (player, rank) ordering truncated to n rows.
func (b SnapshotBatch) TopN(n int) []Snapshot {
	if len(b.Rows) <= n {
		return b.Rows
	}
	return b.Rows[:n]
}

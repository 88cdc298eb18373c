package usecase

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/walela/gp/internal/domain/ranking"
	"github.com/walela/gp/internal/domain/result"
	"github.com/walela/gp/internal/platform/logging"
)

const (
	// bestNLimit caps the cascading best-N averages at four tournaments.
	bestNLimit = 4
	// deltaTopN is the leaderboard window compared across snapshots.
	deltaTopN = 10
	// deltaLookback bounds how many prior snapshot batches are scanned for
	// the most recent one whose top ordering actually differs.
	deltaLookback = 10
)

type RecalculateResult struct {
	SeasonID       string    `json:"season_id"`
	PlayersRanked  int       `json:"players_ranked"`
	ResultsUsed    int       `json:"results_used"`
	RecalculatedAt time.Time `json:"recalculated_at"`
}

// RankDelta is a player's rank movement within the top of the table since the
// last snapshot that looked different. New marks players who entered the
// window rather than moved inside it.
type RankDelta struct {
	PlayerID int64 `json:"player_id"`
	Rank     int   `json:"rank"`
	Delta    int   `json:"delta"`
	New      bool  `json:"new"`
}

// RankingService rebuilds and serves a season's Grand Prix standings.
// Recalculation is serialized by a mutex and is idempotent: the same stored
// results always produce the same table.
type RankingService struct {
	results  result.Repository
	rankings ranking.Repository
	logger   *logging.Logger

	homeFederation string
	mu             sync.Mutex
	now            func() time.Time
}

func NewRankingService(results result.Repository, rankings ranking.Repository, homeFederation string, logger *logging.Logger) *RankingService {
	if logger == nil {
		logger = logging.Default()
	}
	homeFederation = strings.TrimSpace(homeFederation)
	if homeFederation == "" {
		homeFederation = "KEN"
	}

	return &RankingService{
		results:        results,
		rankings:       rankings,
		logger:         logger,
		homeFederation: homeFederation,
		now:            time.Now,
	}
}

// playerAggregate carries one player's countable results through scoring.
// The bests stay floats until persist time; rounding earlier would distort
// ordering between close scores.
type playerAggregate struct {
	playerID          int64
	name              string
	fideID            *int64
	rating            int
	ratingDate        *time.Time
	tprs              []float64
	bestTournament    string
	bestTPR           int
	tournamentsPlayed int
	bests             [bestNLimit + 1]float64
	tier              int
}

func (s *RankingService) Recalculate(ctx context.Context, seasonID string) (RecalculateResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RankingService.Recalculate")
	defer span.End()

	seasonID = strings.TrimSpace(seasonID)
	if seasonID == "" {
		return RecalculateResult{}, fmt.Errorf("%w: season id is required", ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.results.ListForRanking(ctx, seasonID, s.homeFederation)
	if err != nil {
		return RecalculateResult{}, fmt.Errorf("load results: %w", err)
	}

	previous, err := s.rankings.ListBySeason(ctx, seasonID)
	if err != nil {
		return RecalculateResult{}, fmt.Errorf("load previous rankings: %w", err)
	}
	previousRanks := make(map[int64]int, len(previous))
	for _, entry := range previous {
		previousRanks[entry.PlayerID] = entry.CurrentRank
	}

	aggregates := aggregateResults(rows)
	sortAggregates(aggregates)

	recalculatedAt := s.now().UTC()
	entries := make([]ranking.Entry, 0, len(aggregates))
	snapshots := make([]ranking.Snapshot, 0, len(aggregates))
	for i, agg := range aggregates {
		rank := i + 1
		entry := ranking.Entry{
			PlayerID:          agg.playerID,
			SeasonID:          seasonID,
			PlayerName:        agg.name,
			Federation:        s.homeFederation,
			FideID:            agg.fideID,
			Rating:            agg.rating,
			TournamentsPlayed: agg.tournamentsPlayed,
			Best1:             roundScore(agg.bests[1]),
			Best2:             roundScore(agg.bests[2]),
			Best3:             roundScore(agg.bests[3]),
			Best4:             roundScore(agg.bests[4]),
			Tournament1:       agg.bestTournament,
			CurrentRank:       rank,
		}
		if prev, ok := previousRanks[agg.playerID]; ok {
			entry.PreviousRank = &prev
		}
		entries = append(entries, entry)

		snapshots = append(snapshots, ranking.Snapshot{
			RecalculatedAt:    recalculatedAt,
			SeasonID:          seasonID,
			Rank:              rank,
			PlayerID:          agg.playerID,
			PlayerName:        agg.name,
			TournamentsPlayed: agg.tournamentsPlayed,
			Best4:             roundScore(agg.bests[4]),
		})
	}

	if err := s.rankings.ReplaceBySeason(ctx, seasonID, entries); err != nil {
		return RecalculateResult{}, fmt.Errorf("replace rankings: %w", err)
	}
	if err := s.rankings.AppendSnapshots(ctx, snapshots); err != nil {
		return RecalculateResult{}, fmt.Errorf("append snapshots: %w", err)
	}

	s.logger.InfoContext(ctx, "rankings recalculated",
		"season_id", seasonID, "players", len(entries), "results", len(rows))

	return RecalculateResult{
		SeasonID:       seasonID,
		PlayersRanked:  len(entries),
		ResultsUsed:    len(rows),
		RecalculatedAt: recalculatedAt,
	}, nil
}

// Standings returns the stored table plus rank deltas for the top of it.
func (s *RankingService) Standings(ctx context.Context, seasonID string) ([]ranking.Entry, []RankDelta, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RankingService.Standings")
	defer span.End()

	seasonID = strings.TrimSpace(seasonID)
	if seasonID == "" {
		return nil, nil, fmt.Errorf("%w: season id is required", ErrInvalidInput)
	}

	entries, err := s.rankings.ListBySeason(ctx, seasonID)
	if err != nil {
		return nil, nil, fmt.Errorf("load rankings: %w", err)
	}

	deltas, err := s.topDeltas(ctx, seasonID)
	if err != nil {
		// Deltas are decoration; the table itself still serves.
		s.logger.WarnContext(ctx, "rank deltas unavailable", "season_id", seasonID, "error", err)
		deltas = nil
	}

	return entries, deltas, nil
}

// topDeltas compares the latest snapshot batch against the most recent prior
// batch whose top-N ordering differs. Back-to-back recalculations that change
// nothing are skipped so deltas reflect real movement.
func (s *RankingService) topDeltas(ctx context.Context, seasonID string) ([]RankDelta, error) {
	batches, err := s.rankings.RecentBatches(ctx, seasonID, deltaLookback)
	if err != nil {
		return nil, err
	}
	if len(batches) < 2 {
		return nil, nil
	}

	latest := batches[0]
	var baseline *ranking.SnapshotBatch
	for i := 1; i < len(batches); i++ {
		if !sameTopOrdering(latest.TopN(deltaTopN), batches[i].TopN(deltaTopN)) {
			baseline = &batches[i]
			break
		}
	}
	if baseline == nil {
		return nil, nil
	}

	baselineRanks := make(map[int64]int, len(baseline.Rows))
	for _, row := range baseline.Rows {
		baselineRanks[row.PlayerID] = row.Rank
	}

	deltas := make([]RankDelta, 0, deltaTopN)
	for _, row := range latest.TopN(deltaTopN) {
		delta := RankDelta{PlayerID: row.PlayerID, Rank: row.Rank}
		if prev, ok := baselineRanks[row.PlayerID]; ok {
			delta.Delta = prev - row.Rank
		} else {
			delta.New = true
		}
		deltas = append(deltas, delta)
	}

	return deltas, nil
}

func sameTopOrdering(a, b []ranking.Snapshot) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].PlayerID != b[i].PlayerID || a[i].Rank != b[i].Rank {
			return false
		}
	}
	return true
}

// aggregateResults groups countable results per player and computes the
// cascading best-N averages. best_1 is the single best TPR; best_N for N>1 is
// the mean of the top N TPRs, zero when the player has fewer than N results.
func aggregateResults(rows []result.PlayerResult) []*playerAggregate {
	byPlayer := make(map[int64]*playerAggregate)
	order := make([]int64, 0)

	for _, row := range rows {
		// The ranking query already filters on status and tpr; rows reaching
		// this point through other paths get the same treatment.
		if !row.Status.CountsForRanking() {
			continue
		}
		if row.TPR == nil || *row.TPR <= 0 {
			continue
		}

		agg, ok := byPlayer[row.PlayerID]
		if !ok {
			agg = &playerAggregate{
				playerID: row.PlayerID,
				name:     row.PlayerName,
				fideID:   row.PlayerFideID,
			}
			byPlayer[row.PlayerID] = agg
			order = append(order, row.PlayerID)
		}

		agg.tprs = append(agg.tprs, float64(*row.TPR))
		agg.tournamentsPlayed++
		if *row.TPR > agg.bestTPR {
			agg.bestTPR = *row.TPR
			agg.bestTournament = row.TournamentName
		}
		// Latest rating wins; rows without an end date only fill a gap.
		if agg.ratingDate == nil && row.TournamentEnd == nil && agg.rating == 0 {
			agg.rating = row.Rating
		}
		if row.TournamentEnd != nil && (agg.ratingDate == nil || row.TournamentEnd.After(*agg.ratingDate)) {
			agg.rating = row.Rating
			agg.ratingDate = row.TournamentEnd
		}
	}

	out := make([]*playerAggregate, 0, len(byPlayer))
	for _, playerID := range order {
		agg := byPlayer[playerID]
		sort.Sort(sort.Reverse(sort.Float64Slice(agg.tprs)))

		sum := 0.0
		for n := 1; n <= bestNLimit; n++ {
			if n > len(agg.tprs) {
				break
			}
			sum += agg.tprs[n-1]
			agg.bests[n] = sum / float64(n)
		}

		for n := bestNLimit; n >= 1; n-- {
			if len(agg.tprs) >= n && agg.bests[n] > 0 {
				agg.tier = n
				break
			}
		}

		out = append(out, agg)
	}

	return out
}

// sortAggregates orders the table: deeper tiers first, then the tier's own
// best-N score, then the lower best-N scores cascading down as tie-breaks,
// then tournaments played, then player id for a stable final order.
func sortAggregates(aggregates []*playerAggregate) {
	sort.SliceStable(aggregates, func(i, j int) bool {
		a, b := aggregates[i], aggregates[j]
		if a.tier != b.tier {
			return a.tier > b.tier
		}
		for n := a.tier; n >= 1; n-- {
			if a.bests[n] != b.bests[n] {
				return a.bests[n] > b.bests[n]
			}
		}
		if a.tournamentsPlayed != b.tournamentsPlayed {
			return a.tournamentsPlayed > b.tournamentsPlayed
		}
		return a.playerID < b.playerID
	})
}

func roundScore(v float64) int {
	return int(math.Round(v))
}

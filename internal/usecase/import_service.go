package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/walela/gp/internal/domain/player"
	"github.com/walela/gp/internal/domain/result"
	"github.com/walela/gp/internal/domain/season"
	"github.com/walela/gp/internal/domain/tournament"
	"github.com/walela/gp/internal/platform/logging"
)

const (
	importStatusSuccess = "success"
	importStatusFailed  = "failed"

	defaultImportWorkers = 2
	maxImportWorkers     = 4
)

type ImportInput struct {
	TournamentIDs []string
	SeasonID      string
	MaxWorkers    int
	// SkipEnrichment skips the per-player page visits. Fide ids and walkover
	// flags then stay whatever earlier imports stored.
	SkipEnrichment bool
}

type ImportResult struct {
	TaskCount    int                `json:"task_count"`
	SuccessCount int                `json:"success_count"`
	FailedCount  int                `json:"failed_count"`
	WorkerCount  int                `json:"worker_count"`
	Tasks        []ImportTaskResult `json:"tasks"`
}

type ImportTaskResult struct {
	TournamentID string `json:"tournament_id"`
	Name         string `json:"name,omitempty"`
	Status       string `json:"status"`
	Rows         int    `json:"rows"`
	DurationMs   int64  `json:"duration_ms"`
	Message      string `json:"message,omitempty"`
}

// ImportService pulls tournaments from the provider and lands them in the
// store. Tournaments run in parallel on a bounded pool; inside one tournament
// all page traffic is serial.
type ImportService struct {
	provider    TournamentProvider
	identity    *IdentityResolver
	tournaments tournament.Repository
	seasons     season.Repository
	logger      *logging.Logger

	// inferRounds and inferLocation are last-resort name heuristics, wired
	// from the provider package. Nil disables them.
	inferRounds   func(name string, fallback int) int
	inferLocation func(name string) string
}

type ImportServiceConfig struct {
	Provider      TournamentProvider
	Identity      *IdentityResolver
	Tournaments   tournament.Repository
	Seasons       season.Repository
	Logger        *logging.Logger
	InferRounds   func(name string, fallback int) int
	InferLocation func(name string) string
}

func NewImportService(cfg ImportServiceConfig) *ImportService {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	return &ImportService{
		provider:      cfg.Provider,
		identity:      cfg.Identity,
		tournaments:   cfg.Tournaments,
		seasons:       cfg.Seasons,
		logger:        logger,
		inferRounds:   cfg.InferRounds,
		inferLocation: cfg.InferLocation,
	}
}

func (s *ImportService) Import(ctx context.Context, input ImportInput) (ImportResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ImportService.Import")
	defer span.End()

	if s.provider == nil || s.identity == nil || s.tournaments == nil {
		return ImportResult{}, fmt.Errorf("%w: import service is not fully configured", ErrDependencyUnavailable)
	}

	ids := normalizeTournamentIDs(input.TournamentIDs)
	if len(ids) == 0 {
		return ImportResult{}, fmt.Errorf("%w: at least one tournament id is required", ErrInvalidInput)
	}
	seasonID := strings.TrimSpace(input.SeasonID)
	if seasonID == "" {
		return ImportResult{}, fmt.Errorf("%w: season id is required", ErrInvalidInput)
	}
	if s.seasons != nil {
		record, err := s.seasons.GetByID(ctx, seasonID)
		if err != nil {
			return ImportResult{}, fmt.Errorf("load season: %w", err)
		}
		if record == nil {
			return ImportResult{}, fmt.Errorf("%w: season %s", ErrNotFound, seasonID)
		}
	}

	workerCount := normalizeImportWorkerCount(input.MaxWorkers, len(ids))
	out := ImportResult{
		TaskCount:   len(ids),
		WorkerCount: workerCount,
		Tasks:       make([]ImportTaskResult, 0, len(ids)),
	}

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return ImportResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	results := make(chan ImportTaskResult, len(ids))
	var successCount atomic.Int32
	var failedCount atomic.Int32

	var workers sync.WaitGroup
	for _, id := range ids {
		id := id
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			start := time.Now()
			row := ImportTaskResult{TournamentID: id}

			name, rows, err := s.importOne(ctx, id, seasonID, input.SkipEnrichment)
			row.Name = name
			row.Rows = rows
			row.DurationMs = time.Since(start).Milliseconds()
			if err != nil {
				row.Status = importStatusFailed
				row.Message = err.Error()
				failedCount.Add(1)
				s.logger.ErrorContext(ctx, "tournament import failed", "tournament_id", id, "error", err)
			} else {
				row.Status = importStatusSuccess
				successCount.Add(1)
				s.logger.InfoContext(ctx, "tournament imported", "tournament_id", id, "name", name, "rows", rows)
			}

			results <- row
		}); err != nil {
			workers.Done()
			return ImportResult{}, fmt.Errorf("submit task to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(results)

	for row := range results {
		out.Tasks = append(out.Tasks, row)
	}
	sort.SliceStable(out.Tasks, func(i, j int) bool {
		return out.Tasks[i].TournamentID < out.Tasks[j].TournamentID
	})

	out.SuccessCount = int(successCount.Load())
	out.FailedCount = int(failedCount.Load())

	return out, nil
}

// importOne runs the full pipeline for one tournament: details, standings,
// per-row classification, enrichment, identity resolution, and one
// transactional save. Only a standings fetch failure or an unparseable page
// aborts; everything downstream degrades per row.
func (s *ImportService) importOne(ctx context.Context, tournamentID, seasonID string, skipEnrichment bool) (string, int, error) {
	details, detailsErr := s.provider.FetchDetails(ctx, tournamentID)
	if detailsErr != nil {
		s.logger.WarnContext(ctx, "details page unavailable, proceeding without it",
			"tournament_id", tournamentID, "error", detailsErr)
	}

	roundsGuess := tournament.DefaultRounds
	if detailsErr == nil && details.RoundsFound {
		roundsGuess = details.Rounds
	}

	scraped, err := s.provider.FetchStandings(ctx, tournamentID, roundsGuess)
	if err != nil {
		return "", 0, fmt.Errorf("fetch standings: %w", err)
	}
	for _, warning := range scraped.Warnings {
		s.logger.WarnContext(ctx, "standings parse warning", "tournament_id", tournamentID, "warning", warning)
	}

	rounds := scraped.Rounds
	if rounds == 0 && detailsErr == nil && details.RoundsFound {
		rounds = details.Rounds
	}
	if rounds == 0 {
		fallback := tournament.DefaultRounds
		if s.inferRounds != nil {
			fallback = s.inferRounds(scraped.Name, fallback)
		}
		rounds = fallback
		s.logger.WarnContext(ctx, "round count not found on any page, using fallback",
			"tournament_id", tournamentID, "rounds", rounds)
	}

	startDate, endDate := scraped.StartDate, scraped.EndDate
	if detailsErr == nil && details.StartDate != nil {
		startDate, endDate = details.StartDate, details.EndDate
	}

	statuses := s.classifyRows(ctx, tournamentID, scraped.Rows)

	enrichments := map[int]ScrapeEnrichment{}
	if !skipEnrichment {
		enrichments = s.enrichRows(ctx, tournamentID, scraped.Rows)
	}

	rows := make([]result.Result, 0, len(scraped.Rows))
	for i, scrapedRow := range scraped.Rows {
		candidate := player.Player{
			Name:       scrapedRow.Name,
			Federation: scrapedRow.Federation,
		}
		if scrapedRow.Sex != "" {
			sex := scrapedRow.Sex
			candidate.Sex = &sex
		}
		if enrichment, ok := enrichments[scrapedRow.StartRank]; ok && enrichment.FideID != nil {
			candidate.FideID = enrichment.FideID
		}

		playerID, err := s.identity.Resolve(ctx, candidate)
		if err != nil {
			return scraped.Name, 0, fmt.Errorf("resolve player %q: %w", scrapedRow.Name, err)
		}

		row := result.Result{
			TournamentID: tournamentID,
			PlayerID:     playerID,
			Rank:         scrapedRow.Rank,
			StartRank:    scrapedRow.StartRank,
			Rating:       scrapedRow.Rating,
			Points:       scrapedRow.Points,
			TPR:          scrapedRow.TPR,
			Status:       statuses[i],
		}
		if enrichment, ok := enrichments[scrapedRow.StartRank]; ok {
			row.HasWalkover = enrichment.HasWalkover
		}
		rows = append(rows, row)
	}

	var location *string
	if s.inferLocation != nil {
		if loc := s.inferLocation(scraped.Name); loc != "" {
			location = &loc
		}
	}

	t := tournament.Tournament{
		ID:        tournamentID,
		Name:      scraped.Name,
		Location:  location,
		Rounds:    rounds,
		StartDate: startDate,
		EndDate:   endDate,
		SeasonID:  seasonID,
	}
	if err := s.tournaments.SaveWithResults(ctx, t, rows); err != nil {
		return scraped.Name, 0, fmt.Errorf("save tournament: %w", err)
	}

	return scraped.Name, len(rows), nil
}

func (s *ImportService) classifyRows(ctx context.Context, tournamentID string, rows []ScrapedRow) []result.Status {
	statuses := make([]result.Status, len(rows))
	for i, row := range rows {
		if row.StartRank <= 0 {
			statuses[i] = result.StatusUnknown
			continue
		}
		status, err := s.provider.ClassifyResult(ctx, tournamentID, row.StartRank)
		if err != nil {
			s.logger.WarnContext(ctx, "result classification unavailable",
				"tournament_id", tournamentID, "start_rank", row.StartRank, "error", err)
		}
		statuses[i] = status
	}
	return statuses
}

func (s *ImportService) enrichRows(ctx context.Context, tournamentID string, rows []ScrapedRow) map[int]ScrapeEnrichment {
	startRanks := make([]int, 0, len(rows))
	for _, row := range rows {
		if row.StartRank > 0 {
			startRanks = append(startRanks, row.StartRank)
		}
	}
	if len(startRanks) == 0 {
		return map[int]ScrapeEnrichment{}
	}

	out := make(map[int]ScrapeEnrichment, len(startRanks))
	for _, entry := range s.provider.EnrichTournament(ctx, tournamentID, startRanks) {
		if entry.Err != nil {
			s.logger.WarnContext(ctx, "player enrichment failed",
				"tournament_id", tournamentID, "start_rank", entry.StartRank, "error", entry.Err)
			continue
		}
		out[entry.StartRank] = entry
	}
	return out
}

func normalizeTournamentIDs(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, id := range raw {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func normalizeImportWorkerCount(requested, taskCount int) int {
	count := requested
	if count <= 0 {
		count = defaultImportWorkers
	}
	if count > maxImportWorkers {
		count = maxImportWorkers
	}
	if taskCount > 0 && count > taskCount {
		count = taskCount
	}
	return count
}

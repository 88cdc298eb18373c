package usecase

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/walela/gp/internal/domain/player"
	"github.com/walela/gp/internal/domain/ranking"
	"github.com/walela/gp/internal/domain/result"
	"github.com/walela/gp/internal/domain/season"
	"github.com/walela/gp/internal/domain/tournament"
)

func intp(v int) *int { return &v }

func i64p(v int64) *int64 { return &v }

func strp(v string) *string { return &v }

func boolp(v bool) *bool { return &v }

type stubResultRepo struct {
	rankingRows []result.PlayerResult
	byTournamnt map[string][]result.PlayerResult
	byPlayer    map[int64][]result.PlayerResult
	counts      map[string]int
	err         error
}

func (s *stubResultRepo) ListForRanking(ctx context.Context, seasonID, federation string) ([]result.PlayerResult, error) {
	return s.rankingRows, s.err
}

func (s *stubResultRepo) ListByTournament(ctx context.Context, tournamentID string) ([]result.PlayerResult, error) {
	return s.byTournamnt[tournamentID], s.err
}

func (s *stubResultRepo) ListByPlayer(ctx context.Context, playerID int64) ([]result.PlayerResult, error) {
	return s.byPlayer[playerID], s.err
}

func (s *stubResultRepo) CountByTournament(ctx context.Context, ids []string) (map[string]int, error) {
	return s.counts, s.err
}

type stubRankingRepo struct {
	stored   []ranking.Entry
	batches  []ranking.SnapshotBatch
	replaced []ranking.Entry
	appended []ranking.Snapshot
	err      error
}

func (s *stubRankingRepo) ListBySeason(ctx context.Context, seasonID string) ([]ranking.Entry, error) {
	return s.stored, s.err
}

func (s *stubRankingRepo) ReplaceBySeason(ctx context.Context, seasonID string, entries []ranking.Entry) error {
	if s.err != nil {
		return s.err
	}
	s.replaced = entries
	return nil
}

func (s *stubRankingRepo) AppendSnapshots(ctx context.Context, rows []ranking.Snapshot) error {
	if s.err != nil {
		return s.err
	}
	s.appended = append(s.appended, rows...)
	return nil
}

func (s *stubRankingRepo) RecentBatches(ctx context.Context, seasonID string, maxBatches int) ([]ranking.SnapshotBatch, error) {
	if s.err != nil {
		return nil, s.err
	}
	if len(s.batches) > maxBatches {
		return s.batches[:maxBatches], nil
	}
	return s.batches, nil
}

// stubPlayerRepo is safe for concurrent use; import runs it from pool workers.
type stubPlayerRepo struct {
	mu      sync.Mutex
	players []player.Player
	nextID  int64

	backfilled map[int64]int64
	created    []player.Player
	err        error
}

func (s *stubPlayerRepo) GetByID(ctx context.Context, id int64) (*player.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.players {
		if s.players[i].ID == id {
			p := s.players[i]
			return &p, nil
		}
	}
	return nil, s.err
}

func (s *stubPlayerRepo) GetByFideID(ctx context.Context, fideID int64) (*player.Player, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.players {
		if s.players[i].FideID != nil && *s.players[i].FideID == fideID {
			p := s.players[i]
			return &p, nil
		}
	}
	return nil, nil
}

func (s *stubPlayerRepo) FindByName(ctx context.Context, name, federation string) (*player.Player, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.players {
		if !strings.EqualFold(s.players[i].Name, name) {
			continue
		}
		if federation != "" && s.players[i].Federation != federation {
			continue
		}
		p := s.players[i]
		return &p, nil
	}
	return nil, nil
}

func (s *stubPlayerRepo) Create(ctx context.Context, p player.Player) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	p.ID = s.nextID
	s.players = append(s.players, p)
	s.created = append(s.created, p)
	return p.ID, nil
}

func (s *stubPlayerRepo) SetFideID(ctx context.Context, id int64, fideID int64, sex *string) error {
	if s.err != nil {
		return s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.backfilled == nil {
		s.backfilled = make(map[int64]int64)
	}
	s.backfilled[id] = fideID
	for i := range s.players {
		if s.players[i].ID == id && s.players[i].FideID == nil {
			s.players[i].FideID = &fideID
			if sex != nil {
				s.players[i].Sex = sex
			}
		}
	}
	return nil
}

func (s *stubPlayerRepo) ListByIDs(ctx context.Context, ids []int64) ([]player.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]player.Player, 0, len(ids))
	for _, id := range ids {
		for i := range s.players {
			if s.players[i].ID == id {
				out = append(out, s.players[i])
			}
		}
	}
	return out, s.err
}

type stubTournamentRepo struct {
	mu     sync.Mutex
	stored map[string]tournament.Tournament
	rows   map[string][]result.Result
	listed []tournament.Tournament
	err    error
}

func (s *stubTournamentRepo) GetByID(ctx context.Context, id string) (*tournament.Tournament, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.stored[id]; ok {
		return &t, nil
	}
	return nil, nil
}

func (s *stubTournamentRepo) ListBySeason(ctx context.Context, seasonID string) ([]tournament.Tournament, error) {
	return s.listed, s.err
}

func (s *stubTournamentRepo) SaveWithResults(ctx context.Context, t tournament.Tournament, rows []result.Result) error {
	if s.err != nil {
		return s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stored == nil {
		s.stored = make(map[string]tournament.Tournament)
	}
	if s.rows == nil {
		s.rows = make(map[string][]result.Result)
	}
	s.stored[t.ID] = t
	s.rows[t.ID] = rows
	return nil
}

type stubSeasonRepo struct {
	seasons map[string]season.Season
	err     error
}

func (s *stubSeasonRepo) GetByID(ctx context.Context, id string) (*season.Season, error) {
	if s.err != nil {
		return nil, s.err
	}
	if rec, ok := s.seasons[id]; ok {
		return &rec, nil
	}
	return nil, nil
}

func (s *stubSeasonRepo) List(ctx context.Context) ([]season.Season, error) {
	out := make([]season.Season, 0, len(s.seasons))
	for _, rec := range s.seasons {
		out = append(out, rec)
	}
	return out, s.err
}

func (s *stubSeasonRepo) Upsert(ctx context.Context, rec season.Season) error {
	if s.seasons == nil {
		s.seasons = make(map[string]season.Season)
	}
	s.seasons[rec.ID] = rec
	return s.err
}

type stubProvider struct {
	details     ScrapedDetails
	detailsErr  error
	standings   map[string]ScrapedTournament
	standingsBy func(tournamentID string, rounds int) (ScrapedTournament, error)
	statuses    map[int]result.Status
	enrichments []ScrapeEnrichment
	enrichErr   error
}

func (s *stubProvider) FetchDetails(ctx context.Context, tournamentID string) (ScrapedDetails, error) {
	return s.details, s.detailsErr
}

func (s *stubProvider) FetchStandings(ctx context.Context, tournamentID string, rounds int) (ScrapedTournament, error) {
	if s.standingsBy != nil {
		return s.standingsBy(tournamentID, rounds)
	}
	if t, ok := s.standings[tournamentID]; ok {
		return t, nil
	}
	return ScrapedTournament{}, context.DeadlineExceeded
}

func (s *stubProvider) ClassifyResult(ctx context.Context, tournamentID string, startRank int) (result.Status, error) {
	if status, ok := s.statuses[startRank]; ok {
		return status, nil
	}
	return result.StatusValid, nil
}

func (s *stubProvider) EnrichTournament(ctx context.Context, tournamentID string, startRanks []int) []ScrapeEnrichment {
	if s.enrichErr != nil {
		out := make([]ScrapeEnrichment, 0, len(startRanks))
		for _, sr := range startRanks {
			out = append(out, ScrapeEnrichment{StartRank: sr, Err: s.enrichErr})
		}
		return out
	}
	return s.enrichments
}

func fixedTime(day int) time.Time {
	return time.Date(2025, time.March, day, 12, 0, 0, 0, time.UTC)
}

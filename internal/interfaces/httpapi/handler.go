package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/walela/gp/internal/platform/logging"
	"github.com/walela/gp/internal/usecase"
)

const defaultPageSize = 25

type Handler struct {
	tournamentService *usecase.TournamentService
	playerService     *usecase.PlayerService
	rankingService    *usecase.RankingService
	importService     *usecase.ImportService
	defaultSeasonID   string
	logger            *logging.Logger
	validator         *validator.Validate
}

func NewHandler(
	tournamentService *usecase.TournamentService,
	playerService *usecase.PlayerService,
	rankingService *usecase.RankingService,
	importService *usecase.ImportService,
	defaultSeasonID string,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		tournamentService: tournamentService,
		playerService:     playerService,
		rankingService:    rankingService,
		importService:     importService,
		defaultSeasonID:   defaultSeasonID,
		logger:            logger,
		validator:         validator.New(),
	}
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

// seasonParam resolves the season query parameter, falling back to the
// configured default.
func (h *Handler) seasonParam(r *http.Request) string {
	if season := strings.TrimSpace(r.URL.Query().Get("season")); season != "" {
		return season
	}
	return h.defaultSeasonID
}

func pageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func sortParams(r *http.Request, defaultSort string) (string, bool) {
	sortKey := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("sort")))
	if sortKey == "" {
		sortKey = defaultSort
	}
	descending := !strings.EqualFold(strings.TrimSpace(r.URL.Query().Get("dir")), "asc")
	return sortKey, descending
}

// paginate slices one page out of n items, returning the half-open index
// range. Pages past the end come back empty rather than erroring.
func paginate(n, page, pageSize int) (int, int, int) {
	totalPages := (n + pageSize - 1) / pageSize
	if totalPages == 0 {
		totalPages = 1
	}
	start := (page - 1) * pageSize
	if start > n {
		start = n
	}
	end := start + pageSize
	if end > n {
		end = n
	}
	return start, end, totalPages
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

func chessResultsURL(tournamentID string) string {
	return "https://chess-results.com/tnr" + tournamentID + ".aspx?lan=1"
}

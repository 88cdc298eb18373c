package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	sonic "github.com/bytedance/sonic"

	"github.com/walela/gp/internal/usecase"
)

type importJobRequest struct {
	TournamentIDs  []string `json:"tournament_ids" validate:"required,min=1,dive,required"`
	SeasonID       string   `json:"season_id" validate:"required"`
	MaxWorkers     int      `json:"max_workers" validate:"omitempty,min=1,max=4"`
	SkipEnrichment bool     `json:"skip_enrichment"`
	// Recalculate runs the ranking engine after a successful import.
	Recalculate bool `json:"recalculate"`
}

type recalculateJobRequest struct {
	SeasonID string `json:"season_id" validate:"required"`
}

type importJobResponse struct {
	Import      usecase.ImportResult       `json:"import"`
	Recalculate *usecase.RecalculateResult `json:"recalculate,omitempty"`
}

func (h *Handler) RunImportJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunImportJob")
	defer span.End()

	if h.importService == nil {
		writeError(ctx, w, fmt.Errorf("%w: import service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	var req importJobRequest
	if err := decodeJobRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	out, err := h.importService.Import(ctx, usecase.ImportInput{
		TournamentIDs:  req.TournamentIDs,
		SeasonID:       req.SeasonID,
		MaxWorkers:     req.MaxWorkers,
		SkipEnrichment: req.SkipEnrichment,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "import job failed", "season_id", req.SeasonID, "error", err)
		writeError(ctx, w, err)
		return
	}

	response := importJobResponse{Import: out}
	if req.Recalculate && out.SuccessCount > 0 {
		recalculated, err := h.rankingService.Recalculate(ctx, req.SeasonID)
		if err != nil {
			h.logger.WarnContext(ctx, "post-import recalculation failed", "season_id", req.SeasonID, "error", err)
			writeError(ctx, w, err)
			return
		}
		response.Recalculate = &recalculated
	}

	writeSuccess(ctx, w, http.StatusOK, response)
}

func (h *Handler) RunRecalculateJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunRecalculateJob")
	defer span.End()

	var req recalculateJobRequest
	if err := decodeJobRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	out, err := h.rankingService.Recalculate(ctx, req.SeasonID)
	if err != nil {
		h.logger.WarnContext(ctx, "recalculate job failed", "season_id", req.SeasonID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}

func decodeJobRequest(r *http.Request, dst any) error {
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: request body is required", usecase.ErrInvalidInput)
		}
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

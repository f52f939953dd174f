package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/okian/cricsim/internal/domain/model"
	"github.com/okian/cricsim/internal/domain/types"
	"github.com/okian/cricsim/pkg/logger"
)

// SimilarityDependencies ranks candidates against a query player.
type SimilarityDependencies interface {
	SimilarBatters(ctx context.Context, q model.BattingQuery, limit int) (types.BattingResult, error)
	SimilarBowlers(ctx context.Context, q model.BowlingQuery, limit int) (types.BowlingResult, error)
}

// BattingRequest represents the request body for POST /v1/similar/batters.
type BattingRequest struct {
	Player     string   `json:"player" validate:"max=200"`
	Average    *float64 `json:"average" validate:"required,gte=0"`
	StrikeRate *float64 `json:"strike_rate" validate:"required,gte=0"`
	Limit      int      `json:"limit" validate:"gte=0"`
}

// BowlingRequest represents the request body for POST /v1/similar/bowlers.
// Supplying matches or career_length selects five-feature comparison.
type BowlingRequest struct {
	Player       string   `json:"player" validate:"max=200"`
	Wickets      *float64 `json:"wickets" validate:"required,gte=0"`
	Economy      *float64 `json:"economy" validate:"required,gte=0"`
	StrikeRate   *float64 `json:"strike_rate" validate:"required,gte=0"`
	Matches      *float64 `json:"matches" validate:"omitempty,gte=0"`
	CareerLength *float64 `json:"career_length" validate:"omitempty,gte=0"`
	Limit        int      `json:"limit" validate:"gte=0"`
}

// SimilarHandler serves the similarity ranking endpoints.
type SimilarHandler struct {
	deps     SimilarityDependencies
	maxLimit int
}

// NewSimilarHandler creates a new similarity handler.
func NewSimilarHandler(deps SimilarityDependencies, maxLimit int) *SimilarHandler {
	return &SimilarHandler{deps: deps, maxLimit: maxLimit}
}

// HandleBatters handles POST /v1/similar/batters.
func (h *SimilarHandler) HandleBatters(w http.ResponseWriter, r *http.Request) {
	var req BattingRequest
	if !h.read(w, r, &req, &req.Limit) {
		return
	}

	q := model.BattingQuery{
		Player:     req.Player,
		Average:    *req.Average,
		StrikeRate: *req.StrikeRate,
	}
	res, err := h.deps.SimilarBatters(r.Context(), q, req.Limit)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if res.Results == nil {
		res.Results = []types.RankedBatter{}
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleBowlers handles POST /v1/similar/bowlers.
func (h *SimilarHandler) HandleBowlers(w http.ResponseWriter, r *http.Request) {
	var req BowlingRequest
	if !h.read(w, r, &req, &req.Limit) {
		return
	}

	q := model.BowlingQuery{
		Player:       req.Player,
		Wickets:      *req.Wickets,
		Economy:      *req.Economy,
		StrikeRate:   *req.StrikeRate,
		Matches:      req.Matches,
		CareerLength: req.CareerLength,
	}
	res, err := h.deps.SimilarBowlers(r.Context(), q, req.Limit)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if res.Results == nil {
		res.Results = []types.RankedBowler{}
	}
	writeJSON(w, http.StatusOK, res)
}

// read decodes and validates the body, then checks the limit cap.
func (h *SimilarHandler) read(w http.ResponseWriter, r *http.Request, req any, limit *int) bool {
	if err := decode(w, r, req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err)
		return false
	}
	if *limit > h.maxLimit {
		writeError(w, http.StatusBadRequest, "invalid_request",
			fmt.Errorf("%w: %d > %d", ErrLimitTooHigh, *limit, h.maxLimit))
		return false
	}
	return true
}

func (h *SimilarHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	logger.Get().Error(r.Context(), "similarity ranking failed", logger.Error(err))
	writeError(w, http.StatusServiceUnavailable, "unavailable", errors.Join(ErrUnavailable, err))
}

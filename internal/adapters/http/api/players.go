package api

import (
	"context"
	"errors"
	"net/http"

	eventqueue "github.com/okian/cricsim/internal/adapters/mq/queue"
	"github.com/okian/cricsim/internal/domain/model"
	"github.com/okian/cricsim/pkg/logger"
)

// IngestDependencies accepts player records for asynchronous storage.
type IngestDependencies interface {
	IngestBatter(ctx context.Context, r model.BattingRecord) (string, error)
	IngestBowler(ctx context.Context, r model.BowlingRecord) (string, error)
}

// BattingRecordRequest represents the body of POST /v1/players/batting.
type BattingRecordRequest struct {
	Player       string   `json:"player" validate:"required,max=200"`
	Matches      int      `json:"matches" validate:"gte=0"`
	Runs         int      `json:"runs" validate:"gte=0"`
	Average      *float64 `json:"average" validate:"omitempty,gte=0"`
	StrikeRate   *float64 `json:"strike_rate" validate:"omitempty,gte=0"`
	Fours        int      `json:"fours" validate:"gte=0"`
	Sixes        int      `json:"sixes" validate:"gte=0"`
	StartYear    int      `json:"start_year" validate:"gte=0"`
	EndYear      int      `json:"end_year" validate:"gte=0"`
	CareerLength int      `json:"career_length" validate:"gte=0"`
	Category     string   `json:"predicted_category" validate:"max=100"`
}

// BowlingRecordRequest represents the body of POST /v1/players/bowling.
type BowlingRecordRequest struct {
	Player       string   `json:"player" validate:"required,max=200"`
	Matches      *int     `json:"matches" validate:"omitempty,gte=0"`
	Wickets      *int     `json:"wickets" validate:"omitempty,gte=0"`
	Economy      *float64 `json:"economy" validate:"omitempty,gte=0"`
	StrikeRate   *float64 `json:"strike_rate" validate:"omitempty,gte=0"`
	StartYear    int      `json:"start_year" validate:"gte=0"`
	EndYear      int      `json:"end_year" validate:"gte=0"`
	CareerLength *int     `json:"career_length" validate:"omitempty,gte=0"`
	Category     string   `json:"predicted_category" validate:"max=100"`
}

type acceptedResponse struct {
	Status string `json:"status"`
	JobID  string `json:"job_id"`
}

// PlayersHandler accepts player records into the ingest queue.
type PlayersHandler struct {
	deps IngestDependencies
}

// NewPlayersHandler creates a new players handler.
func NewPlayersHandler(deps IngestDependencies) *PlayersHandler {
	return &PlayersHandler{deps: deps}
}

// HandleBatting handles POST /v1/players/batting.
func (h *PlayersHandler) HandleBatting(w http.ResponseWriter, r *http.Request) {
	var req BattingRecordRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err)
		return
	}
	rec := model.BattingRecord(req)
	if err := rec.Normalize(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_record", err)
		return
	}

	id, err := h.deps.IngestBatter(r.Context(), rec)
	h.respond(w, r, id, err)
}

// HandleBowling handles POST /v1/players/bowling.
func (h *PlayersHandler) HandleBowling(w http.ResponseWriter, r *http.Request) {
	var req BowlingRecordRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err)
		return
	}
	rec := model.BowlingRecord(req)
	if err := rec.Normalize(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_record", err)
		return
	}

	id, err := h.deps.IngestBowler(r.Context(), rec)
	h.respond(w, r, id, err)
}

func (h *PlayersHandler) respond(w http.ResponseWriter, r *http.Request, id string, err error) {
	switch {
	case err == nil:
		writeJSON(w, http.StatusAccepted, acceptedResponse{Status: "accepted", JobID: id})
	case errors.Is(err, eventqueue.ErrQueueFull):
		writeError(w, http.StatusTooManyRequests, "backpressure", errors.Join(ErrBackpressure, err))
	default:
		logger.Get().Error(r.Context(), "ingest failed", logger.Error(err))
		writeError(w, http.StatusServiceUnavailable, "unavailable", errors.Join(ErrUnavailable, err))
	}
}

// Package source fetches candidate populations from the player store.
//
// Every fetch runs under a per-call timeout and a circuit breaker. A failed
// or short-circuited fetch never surfaces as an error: it is logged and
// counted, and the caller receives an empty population, which makes the
// similarity engine fall back to its built-in sample.
package source

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/okian/cricsim/internal/domain/model"
	"github.com/okian/cricsim/pkg/logger"
	"github.com/okian/cricsim/pkg/metrics"
)

// Default source configuration constants.
const (
	defaultTimeout          = 2 * time.Second
	defaultLimit            = 1000
	defaultFailureThreshold = 5
	defaultOpenTimeout      = 30 * time.Second
	defaultHalfOpenRequests = 1
)

// Reader is the subset of the store the source needs.
type Reader interface {
	Batters(ctx context.Context, limit int) ([]model.BattingRecord, error)
	Bowlers(ctx context.Context, limit int) ([]model.BowlingRecord, error)
}

// Source fetches candidates with timeout and circuit breaking.
type Source struct {
	reader  Reader
	timeout time.Duration
	limit   int

	failureThreshold uint32
	openTimeout      time.Duration

	batting *gobreaker.CircuitBreaker[[]model.BattingRecord]
	bowling *gobreaker.CircuitBreaker[[]model.BowlingRecord]

	logger logger.Logger
}

// New creates a Source reading from r.
func New(r Reader, opts ...Option) *Source {
	s := &Source{
		reader:           r,
		timeout:          defaultTimeout,
		limit:            defaultLimit,
		failureThreshold: defaultFailureThreshold,
		openTimeout:      defaultOpenTimeout,
	}

	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("source")
	}

	s.batting = gobreaker.NewCircuitBreaker[[]model.BattingRecord](s.settings("store-batting"))
	s.bowling = gobreaker.NewCircuitBreaker[[]model.BowlingRecord](s.settings("store-bowling"))
	metrics.UpdateBreakerState("store-batting", float64(gobreaker.StateClosed))
	metrics.UpdateBreakerState("store-bowling", float64(gobreaker.StateClosed))

	return s
}

func (s *Source) settings(name string) gobreaker.Settings {
	threshold := s.failureThreshold
	return gobreaker.Settings{
		Name:        name,
		MaxRequests: defaultHalfOpenRequests,
		Timeout:     s.openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		// A caller giving up says nothing about store health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.UpdateBreakerState(name, float64(to))
			s.logger.Warn(context.Background(), "circuit breaker state changed",
				logger.String("breaker", name),
				logger.String("from", from.String()),
				logger.String("to", to.String()),
			)
		},
	}
}

// Batters returns the stored batting population. ok is false when the
// store could not be read.
func (s *Source) Batters(ctx context.Context) (records []model.BattingRecord, ok bool) {
	return fetch(ctx, s, model.Batting, s.batting, s.reader.Batters)
}

// Bowlers returns the stored bowling population.
func (s *Source) Bowlers(ctx context.Context) (records []model.BowlingRecord, ok bool) {
	return fetch(ctx, s, model.Bowling, s.bowling, s.reader.Bowlers)
}

// BreakerStates reports the current breaker state per variant.
func (s *Source) BreakerStates() map[string]string {
	return map[string]string{
		string(model.Batting): s.batting.State().String(),
		string(model.Bowling): s.bowling.State().String(),
	}
}

func fetch[T any](
	ctx context.Context,
	s *Source,
	variant model.Variant,
	cb *gobreaker.CircuitBreaker[[]T],
	read func(context.Context, int) ([]T, error),
) ([]T, bool) {
	if err := ctx.Err(); err != nil {
		metrics.RecordStoreFetchError(string(variant), "cancelled")
		return nil, false
	}

	start := time.Now()
	records, err := cb.Execute(func() ([]T, error) {
		callCtx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()
		return read(callCtx, s.limit)
	})
	metrics.RecordStoreFetchLatency(string(variant), float64(time.Since(start).Milliseconds()))

	if err != nil {
		reason := "store_error"
		switch {
		case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
			reason = "breaker_open"
		case errors.Is(err, context.DeadlineExceeded):
			reason = "timeout"
		case errors.Is(err, context.Canceled):
			reason = "cancelled"
		}
		metrics.RecordStoreFetchError(string(variant), reason)
		s.logger.Warn(ctx, "candidate fetch failed, ranking will use fallback data",
			logger.String("variant", string(variant)),
			logger.String("reason", reason),
			logger.Error(err),
		)
		return nil, false
	}
	return records, true
}

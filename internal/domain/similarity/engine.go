// Package similarity ranks cricket players by statistical closeness to a
// query player.
//
// A ranking call validates the candidates, scores each one by Euclidean
// distance on the variant's features, discounts the distance of players on
// the prominence allow-list, orders famous players first and then by
// distance, and truncates the result. When nothing usable is supplied the
// built-in fallback population is ranked instead.
//
// The Engine holds only immutable configuration, so one instance can serve
// concurrent calls.
package similarity

import (
	"github.com/okian/cricsim/internal/domain/model"
	"github.com/okian/cricsim/internal/domain/types"
)

// Default engine configuration constants.
const (
	DefaultDiscount = 0.7
	DefaultLimit    = 20
)

// Report describes how a ranking was produced.
type Report struct {
	Scanned  int  // raw candidates supplied by the caller
	Usable   int  // candidates that passed validation (fallback records when Fallback)
	Famous   int  // ranked candidates that matched the allow-list
	Fallback bool // the built-in population was ranked instead of the caller's
	Extended bool // bowling only: five-feature distance was used
}

// Engine computes similarity rankings.
type Engine struct {
	discount        float64
	defaultLimit    int
	extendedBowling bool
	battingFamous   *Matcher
	bowlingFamous   *Matcher
	battingFallback []model.BattingRecord
	bowlingFallback []model.BowlingRecord
}

// NewEngine creates an Engine with the built-in allow-lists and fallback data.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		discount:        DefaultDiscount,
		defaultLimit:    DefaultLimit,
		battingFamous:   NewMatcher(defaultBattingFamous),
		bowlingFamous:   NewMatcher(defaultBowlingFamous),
		battingFallback: DefaultBattingFallback(),
		bowlingFallback: DefaultBowlingFallback(),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Discount returns the factor applied to famous candidates.
func (e *Engine) Discount() float64 { return e.discount }

// DefaultLimit returns the result size used for limit <= 0.
func (e *Engine) DefaultLimit() int { return e.defaultLimit }

// RankBatters returns up to limit candidates closest to q on
// {average, strike rate}. limit <= 0 selects the default limit.
func (e *Engine) RankBatters(q model.BattingQuery, candidates []model.BattingRecord, limit int) ([]types.RankedBatter, Report) {
	rep := Report{Scanned: len(candidates)}

	usable := UsableBatters(candidates)
	if len(usable) == 0 {
		usable = UsableBatters(e.battingFallback)
		rep.Fallback = true
	}
	rep.Usable = len(usable)

	qv := battingQueryVector(q)
	items := make([]scored[*model.BattingRecord], len(usable))
	for i := range usable {
		r := &usable[i]
		items[i] = discounted(r, r.Player, Euclidean(battingVector(r), qv), e.battingFamous, e.discount)
		if items[i].famous {
			rep.Famous++
		}
	}

	ranked := rank(items, e.limit(limit))
	out := make([]types.RankedBatter, len(ranked))
	for i, s := range ranked {
		out[i] = types.RankedBatter{
			Player:     s.item.Player,
			Average:    *s.item.Average,
			StrikeRate: *s.item.StrikeRate,
			Runs:       s.item.Runs,
			Matches:    s.item.Matches,
			Distance:   s.distance,
		}
	}
	return out, rep
}

// RankBowlers returns up to limit candidates closest to q on
// {wickets, economy, strike rate}, plus {matches, career length} when q
// supplies either of them or the engine forces extended mode.
func (e *Engine) RankBowlers(q model.BowlingQuery, candidates []model.BowlingRecord, limit int) ([]types.RankedBowler, Report) {
	extended := e.extendedBowling || q.Extended()
	rep := Report{Scanned: len(candidates), Extended: extended}

	usable := UsableBowlers(candidates, extended)
	if len(usable) == 0 {
		usable = UsableBowlers(e.bowlingFallback, extended)
		rep.Fallback = true
	}
	rep.Usable = len(usable)

	qv := bowlingQueryVector(q, extended)
	items := make([]scored[*model.BowlingRecord], len(usable))
	for i := range usable {
		r := &usable[i]
		items[i] = discounted(r, r.Player, Euclidean(bowlingVector(r, extended), qv), e.bowlingFamous, e.discount)
		if items[i].famous {
			rep.Famous++
		}
	}

	ranked := rank(items, e.limit(limit))
	out := make([]types.RankedBowler, len(ranked))
	for i, s := range ranked {
		matches := 0
		if s.item.Matches != nil {
			matches = *s.item.Matches
		}
		out[i] = types.RankedBowler{
			Player:     s.item.Player,
			Wickets:    *s.item.Wickets,
			Economy:    *s.item.Economy,
			StrikeRate: *s.item.StrikeRate,
			Matches:    matches,
			Distance:   s.distance,
		}
	}
	return out, rep
}

func (e *Engine) limit(n int) int {
	if n <= 0 {
		return e.defaultLimit
	}
	return n
}

// discounted applies the prominence discount to a raw distance.
func discounted[T any](item T, player string, distance float64, famous *Matcher, factor float64) scored[T] {
	s := scored[T]{item: item, distance: distance}
	if famous.Match(player) {
		s.famous = true
		s.distance *= factor
	}
	return s
}

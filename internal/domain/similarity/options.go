package similarity

import "github.com/okian/cricsim/internal/domain/model"

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithDiscount sets the factor applied to famous candidates' distances.
// Values outside (0, 1] are ignored.
func WithDiscount(factor float64) Option {
	return func(e *Engine) {
		if factor > 0 && factor <= 1 {
			e.discount = factor
		}
	}
}

// WithDefaultLimit sets the result size used when a call passes limit <= 0.
func WithDefaultLimit(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.defaultLimit = n
		}
	}
}

// WithBattingAllowList replaces the batting prominence fragments. An empty
// list keeps the built-in one.
func WithBattingAllowList(fragments []string) Option {
	return func(e *Engine) {
		if len(fragments) > 0 {
			e.battingFamous = NewMatcher(fragments)
		}
	}
}

// WithBowlingAllowList replaces the bowling prominence fragments.
func WithBowlingAllowList(fragments []string) Option {
	return func(e *Engine) {
		if len(fragments) > 0 {
			e.bowlingFamous = NewMatcher(fragments)
		}
	}
}

// WithBattingFallback replaces the batting fallback population.
func WithBattingFallback(records []model.BattingRecord) Option {
	return func(e *Engine) {
		if len(records) > 0 {
			e.battingFallback = append([]model.BattingRecord(nil), records...)
		}
	}
}

// WithBowlingFallback replaces the bowling fallback population.
func WithBowlingFallback(records []model.BowlingRecord) Option {
	return func(e *Engine) {
		if len(records) > 0 {
			e.bowlingFallback = append([]model.BowlingRecord(nil), records...)
		}
	}
}

// WithExtendedBowling forces five-feature bowling distance even when the
// query omits matches and career length.
func WithExtendedBowling(enabled bool) Option {
	return func(e *Engine) {
		e.extendedBowling = enabled
	}
}

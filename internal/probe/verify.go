package probe

import (
	"fmt"
	"math"
)

// checkRanking validates one response. Rows come in two tiers, discounted
// well-known players first, each ascending by distance, so a valid response
// has at most one place where the distance drops. A zero limit is checked
// against defaultLimit, the server's own fallback.
func checkRanking(rows []row, limit, defaultLimit int) error {
	if limit <= 0 {
		limit = defaultLimit
	}
	if len(rows) > limit {
		return fmt.Errorf("%w: %d > %d", ErrOversized, len(rows), limit)
	}

	drops := 0
	for i, r := range rows {
		if math.IsNaN(r.Distance) || math.IsInf(r.Distance, 0) || r.Distance < 0 {
			return fmt.Errorf("%w: %s has %v", ErrDistance, r.Player, r.Distance)
		}
		if i > 0 && r.Distance < rows[i-1].Distance {
			drops++
		}
	}
	if drops > 1 {
		return fmt.Errorf("%w: %d distance drops", ErrOrdering, drops)
	}
	return nil
}

// contains reports whether player appears in rows.
func contains(rows []row, player string) bool {
	for _, r := range rows {
		if r.Player == player {
			return true
		}
	}
	return false
}

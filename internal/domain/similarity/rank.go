package similarity

import (
	"cmp"
	"slices"
)

// scored pairs a candidate with its discounted distance and prominence tier.
type scored[T any] struct {
	item     T
	distance float64
	famous   bool
}

// rank orders famous candidates before the rest and, within a tier, by
// ascending distance. Equal keys keep input order. The result is cut to limit.
func rank[T any](items []scored[T], limit int) []scored[T] {
	slices.SortStableFunc(items, func(a, b scored[T]) int {
		if a.famous != b.famous {
			if a.famous {
				return -1
			}
			return 1
		}
		return cmp.Compare(a.distance, b.distance)
	})
	if limit < len(items) {
		items = items[:limit]
	}
	return items
}

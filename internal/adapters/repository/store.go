// Package repository holds the candidate player populations the similarity
// engine ranks against.
package repository

import (
	"context"

	"github.com/okian/cricsim/internal/domain/model"
)

// DefaultFetchLimit caps a single Batters or Bowlers call when the caller
// passes a non-positive limit.
const DefaultFetchLimit = 1000

// Counts reports how many players of each variant are stored.
type Counts struct {
	Batters int `json:"batters"`
	Bowlers int `json:"bowlers"`
}

// Store provides read/write access to the candidate populations.
type Store interface {
	// Batters returns up to limit batting records in storage order. Records
	// with a missing player, average or strike rate are skipped.
	Batters(ctx context.Context, limit int) ([]model.BattingRecord, error)
	// Bowlers returns up to limit bowling records in storage order. Records
	// with a missing player, wickets, economy or strike rate are skipped.
	Bowlers(ctx context.Context, limit int) ([]model.BowlingRecord, error)

	// UpsertBatter inserts or replaces the batting record for r.Player.
	UpsertBatter(ctx context.Context, r model.BattingRecord) error
	// UpsertBowler inserts or replaces the bowling record for r.Player.
	UpsertBowler(ctx context.Context, r model.BowlingRecord) error

	// Count returns the number of stored players per variant.
	Count(ctx context.Context) (Counts, error)

	Close() error
}

// Open returns a MemoryStore for an empty url, otherwise a SQLStore.
func Open(ctx context.Context, url string, opts ...Option) (Store, error) {
	if url == "" {
		return NewMemoryStore(ctx, opts...), nil
	}
	return NewSQLStore(ctx, url, opts...)
}

func fetchLimit(n int) int {
	if n <= 0 {
		return DefaultFetchLimit
	}
	return n
}

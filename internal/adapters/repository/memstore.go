package repository

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/cricsim/internal/domain/model"
	"github.com/okian/cricsim/pkg/metrics"
)

// MemoryStore is an in-process Store. Records are keyed by player name and
// returned in first-insertion order; an upsert keeps the original position.
type MemoryStore struct {
	mu sync.RWMutex

	batters     []model.BattingRecord
	batterIndex map[string]int
	bowlers     []model.BowlingRecord
	bowlerIndex map[string]int

	metricsUpdateInterval time.Duration

	wg       sync.WaitGroup
	stopChan chan struct{}
	stopOnce sync.Once
	closed   atomic.Bool
}

// NewMemoryStore constructs an empty store and starts its metrics updater.
func NewMemoryStore(ctx context.Context, opts ...Option) *MemoryStore {
	cfg := newSettings(opts)
	s := &MemoryStore{
		batterIndex:           make(map[string]int),
		bowlerIndex:           make(map[string]int),
		metricsUpdateInterval: cfg.metricsUpdateInterval,
		stopChan:              make(chan struct{}),
	}
	s.startMetricsUpdater(ctx)
	return s
}

// Batters implements Store.
func (s *MemoryStore) Batters(_ context.Context, limit int) ([]model.BattingRecord, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}
	limit = fetchLimit(limit)
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.BattingRecord, 0, min(limit, len(s.batters)))
	for _, r := range s.batters {
		if len(out) == limit {
			break
		}
		if r.Player == "" || r.Average == nil || r.StrikeRate == nil {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// Bowlers implements Store.
func (s *MemoryStore) Bowlers(_ context.Context, limit int) ([]model.BowlingRecord, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}
	limit = fetchLimit(limit)
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.BowlingRecord, 0, min(limit, len(s.bowlers)))
	for _, r := range s.bowlers {
		if len(out) == limit {
			break
		}
		if r.Player == "" || r.Wickets == nil || r.Economy == nil || r.StrikeRate == nil {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// UpsertBatter implements Store.
func (s *MemoryStore) UpsertBatter(_ context.Context, r model.BattingRecord) error {
	if s.closed.Load() {
		return ErrClosed
	}
	key := strings.TrimSpace(r.Player)
	if key == "" {
		return ErrEmptyPlayer
	}
	r.Player = key

	s.mu.Lock()
	defer s.mu.Unlock()
	if i, ok := s.batterIndex[key]; ok {
		s.batters[i] = r
		return nil
	}
	s.batterIndex[key] = len(s.batters)
	s.batters = append(s.batters, r)
	return nil
}

// UpsertBowler implements Store.
func (s *MemoryStore) UpsertBowler(_ context.Context, r model.BowlingRecord) error {
	if s.closed.Load() {
		return ErrClosed
	}
	key := strings.TrimSpace(r.Player)
	if key == "" {
		return ErrEmptyPlayer
	}
	r.Player = key

	s.mu.Lock()
	defer s.mu.Unlock()
	if i, ok := s.bowlerIndex[key]; ok {
		s.bowlers[i] = r
		return nil
	}
	s.bowlerIndex[key] = len(s.bowlers)
	s.bowlers = append(s.bowlers, r)
	return nil
}

// Count implements Store.
func (s *MemoryStore) Count(_ context.Context) (Counts, error) {
	if s.closed.Load() {
		return Counts{}, ErrClosed
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Counts{Batters: len(s.batters), Bowlers: len(s.bowlers)}, nil
}

// Close stops the metrics updater. Later calls on the store return
// ErrClosed. It is safe to call more than once.
func (s *MemoryStore) Close() error {
	s.stopOnce.Do(func() {
		s.closed.Store(true)
		close(s.stopChan)
	})
	s.wg.Wait()
	return nil
}

// startMetricsUpdater publishes stored player counts on a ticker.
func (s *MemoryStore) startMetricsUpdater(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.metricsUpdateInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				if c, err := s.Count(ctx); err == nil {
					publishCounts(c)
				}
			}
		}
	}()
}

func publishCounts(c Counts) {
	metrics.UpdatePlayersStored(string(model.Batting), c.Batters)
	metrics.UpdatePlayersStored(string(model.Bowling), c.Bowlers)
}

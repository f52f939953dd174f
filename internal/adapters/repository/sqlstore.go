package repository

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/cricsim/internal/domain/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// SQLStore is a Store backed by PostgreSQL or SQLite through gorm.
type SQLStore struct {
	db *gorm.DB

	metricsUpdateInterval time.Duration

	wg       sync.WaitGroup
	stopChan chan struct{}
	stopOnce sync.Once
	closed   atomic.Bool
}

// NewSQLStore opens url, verifies the connection and migrates both tables.
func NewSQLStore(ctx context.Context, url string, opts ...Option) (*SQLStore, error) {
	cfg := newSettings(opts)

	dialector, err := parseDialector(url)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(cfg.gormLogLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get underlying db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := db.WithContext(ctx).AutoMigrate(&battingRow{}, &bowlingRow{}); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	s := &SQLStore{
		db:                    db,
		metricsUpdateInterval: cfg.metricsUpdateInterval,
		stopChan:              make(chan struct{}),
	}
	s.startMetricsUpdater(ctx)
	return s, nil
}

// Batters implements Store.
func (s *SQLStore) Batters(ctx context.Context, limit int) ([]model.BattingRecord, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}
	var rows []battingRow
	err := s.db.WithContext(ctx).
		Where("player IS NOT NULL AND player <> '' AND avg IS NOT NULL AND sr IS NOT NULL").
		Order("id").
		Limit(fetchLimit(limit)).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("fetch batters: %w", err)
	}

	out := make([]model.BattingRecord, len(rows))
	for i, r := range rows {
		out[i] = r.toDomain()
	}
	return out, nil
}

// Bowlers implements Store.
func (s *SQLStore) Bowlers(ctx context.Context, limit int) ([]model.BowlingRecord, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}
	var rows []bowlingRow
	err := s.db.WithContext(ctx).
		Where("player IS NOT NULL AND player <> '' AND wickets IS NOT NULL AND econ IS NOT NULL AND sr IS NOT NULL").
		Order("id").
		Limit(fetchLimit(limit)).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("fetch bowlers: %w", err)
	}

	out := make([]model.BowlingRecord, len(rows))
	for i, r := range rows {
		out[i] = r.toDomain()
	}
	return out, nil
}

// UpsertBatter implements Store.
func (s *SQLStore) UpsertBatter(ctx context.Context, r model.BattingRecord) error {
	if s.closed.Load() {
		return ErrClosed
	}
	r.Player = strings.TrimSpace(r.Player)
	if r.Player == "" {
		return ErrEmptyPlayer
	}

	row := toBattingRow(r)
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "player"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"span", "mat", "runs", "avg", "sr", "fours", "sixes",
			"start_year", "end_year", "career_length", "predicted_category", "updated_at",
		}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("upsert batter: %w", err)
	}
	return nil
}

// UpsertBowler implements Store.
func (s *SQLStore) UpsertBowler(ctx context.Context, r model.BowlingRecord) error {
	if s.closed.Load() {
		return ErrClosed
	}
	r.Player = strings.TrimSpace(r.Player)
	if r.Player == "" {
		return ErrEmptyPlayer
	}

	row := toBowlingRow(r)
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "player"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"span", "mat", "wickets", "econ", "sr",
			"start_year", "end_year", "career_length", "predicted_category", "updated_at",
		}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("upsert bowler: %w", err)
	}
	return nil
}

// Count implements Store.
func (s *SQLStore) Count(ctx context.Context) (Counts, error) {
	if s.closed.Load() {
		return Counts{}, ErrClosed
	}
	var batters, bowlers int64
	if err := s.db.WithContext(ctx).Model(&battingRow{}).Count(&batters).Error; err != nil {
		return Counts{}, fmt.Errorf("count batters: %w", err)
	}
	if err := s.db.WithContext(ctx).Model(&bowlingRow{}).Count(&bowlers).Error; err != nil {
		return Counts{}, fmt.Errorf("count bowlers: %w", err)
	}
	return Counts{Batters: int(batters), Bowlers: int(bowlers)}, nil
}

// Close stops the metrics updater and closes the connection pool. Later
// calls on the store return ErrClosed.
func (s *SQLStore) Close() error {
	var closeErr error
	s.stopOnce.Do(func() {
		s.closed.Store(true)
		close(s.stopChan)
		s.wg.Wait()

		sqlDB, err := s.db.DB()
		if err != nil {
			closeErr = fmt.Errorf("get underlying db: %w", err)
			return
		}
		closeErr = sqlDB.Close()
	})
	return closeErr
}

func (s *SQLStore) startMetricsUpdater(ctx context.Context) {
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

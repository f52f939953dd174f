// Package service wires the candidate store, the similarity engine and the
// ingestion pipeline into the operations the HTTP API and CLI call.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	eventqueue "github.com/okian/cricsim/internal/adapters/mq/queue"
	workerpool "github.com/okian/cricsim/internal/adapters/mq/worker"
	"github.com/okian/cricsim/internal/adapters/repository"
	"github.com/okian/cricsim/internal/adapters/source"
	"github.com/okian/cricsim/internal/domain/model"
	"github.com/okian/cricsim/internal/domain/similarity"
	"github.com/okian/cricsim/internal/domain/types"
	"github.com/okian/cricsim/pkg/logger"
	"github.com/okian/cricsim/pkg/metrics"
)

// Service implements the API dependencies for the similarity system.
type Service struct {
	mu sync.RWMutex

	// Core components
	store      repository.Store
	ownsStore  bool
	source     *source.Source
	engine     *similarity.Engine
	queue      eventqueue.Queue
	workerPool *workerpool.Pool

	// Configuration
	workerCount     int
	queueSize       int
	candidateLimit  int
	databaseURL     string
	storeOpts       []repository.Option
	seedBattingCSV  string
	seedBowlingCSV  string
	fetchTimeout    time.Duration
	breakerFailures uint32
	breakerOpenFor  time.Duration
	engineOpts      []similarity.Option

	// State
	started   bool
	startedAt time.Time
	cancel    context.CancelFunc

	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		ownsStore:       true,
		workerCount:     runtime.NumCPU(),
		queueSize:       10_000,
		candidateLimit:  repository.DefaultFetchLimit,
		fetchTimeout:    2 * time.Second,
		breakerFailures: 5,
		breakerOpenFor:  30 * time.Second,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.engine = similarity.NewEngine(s.engineOpts...)

	return s
}

// Start opens the store, seeds it, and starts the ingestion workers.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	s.logger.Info(ctx, "starting similarity service...")

	// Background loops outlive the start request, so they get their own context.
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))

	if s.store == nil {
		store, err := repository.Open(runCtx, s.databaseURL, s.storeOpts...)
		if err != nil {
			cancel()
			return fmt.Errorf("open store: %w", err)
		}
		s.store = store
		s.ownsStore = true
	}

	if err := s.seed(ctx); err != nil {
		cancel()
		if s.ownsStore {
			_ = s.store.Close()
			s.store = nil
		}
		return err
	}

	s.source = source.New(s.store,
		source.WithLimit(s.candidateLimit),
		source.WithTimeout(s.fetchTimeout),
		source.WithBreaker(s.breakerFailures, s.breakerOpenFor),
		source.WithLogger(s.logger.Named("source")),
	)

	s.queue = eventqueue.NewInMemoryQueue(
		eventqueue.WithCapacity(s.queueSize),
		eventqueue.WithBufferSize(s.queueSize),
	)
	s.workerPool = workerpool.NewPool(s.workerCount, s.queue, s.store)
	s.workerPool.Start(runCtx)

	s.cancel = cancel
	s.started = true
	s.startedAt = time.Now()
	s.logger.Info(ctx, "similarity service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("candidateLimit", s.candidateLimit),
		logger.Bool("sqlStore", s.databaseURL != ""),
	)

	return nil
}

// seed imports the configured CSV files in parallel.
func (s *Service) seed(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	if s.seedBattingCSV != "" {
		g.Go(func() error {
			n, err := repository.ImportBattingCSV(gctx, s.store, s.seedBattingCSV)
			if err != nil {
				return fmt.Errorf("seed batting: %w", err)
			}
			s.logger.Info(ctx, "seeded batting records", logger.Int("count", n), logger.String("path", s.seedBattingCSV))
			return nil
		})
	}
	if s.seedBowlingCSV != "" {
		g.Go(func() error {
			n, err := repository.ImportBowlingCSV(gctx, s.store, s.seedBowlingCSV)
			if err != nil {
				return fmt.Errorf("seed bowling: %w", err)
			}
			s.logger.Info(ctx, "seeded bowling records", logger.Int("count", n), logger.String("path", s.seedBowlingCSV))
			return nil
		})
	}
	return g.Wait()
}

// Stop drains the ingestion queue and releases the store.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping similarity service...")

	if s.workerPool != nil {
		if err := s.workerPool.Shutdown(ctx); err != nil {
			s.logger.Warn(ctx, "worker pool shutdown incomplete", logger.Error(err))
		}
	}

	if s.store != nil && s.ownsStore {
		if err := s.store.Close(); err != nil {
			s.logger.Warn(ctx, "error closing store", logger.Error(err))
		}
		s.store = nil
	}

	if s.cancel != nil {
		s.cancel()
	}

	s.started = false
	s.logger.Info(ctx, "similarity service stopped")
}

func (s *Service) running() (*source.Source, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	return s.source, nil
}

// SimilarBatters ranks the stored batting population against q.
// limit <= 0 selects the engine's default limit.
func (s *Service) SimilarBatters(ctx context.Context, q model.BattingQuery, limit int) (types.BattingResult, error) {
	src, err := s.running()
	if err != nil {
		return types.BattingResult{}, err
	}

	start := time.Now()
	candidates, _ := src.Batters(ctx)
	results, rep := s.engine.RankBatters(q, candidates, limit)
	s.record(ctx, model.Batting, q.Player, start, rep, len(results))

	return types.BattingResult{Results: results, Fallback: rep.Fallback}, nil
}

// SimilarBowlers ranks the stored bowling population against q.
func (s *Service) SimilarBowlers(ctx context.Context, q model.BowlingQuery, limit int) (types.BowlingResult, error) {
	src, err := s.running()
	if err != nil {
		return types.BowlingResult{}, err
	}

	start := time.Now()
	candidates, _ := src.Bowlers(ctx)
	results, rep := s.engine.RankBowlers(q, candidates, limit)
	s.record(ctx, model.Bowling, q.Player, start, rep, len(results))

	return types.BowlingResult{Results: results, Fallback: rep.Fallback}, nil
}

func (s *Service) record(ctx context.Context, variant model.Variant, player string, start time.Time, rep similarity.Report, returned int) {
	v := string(variant)
	metrics.RecordRanking(v, float64(time.Since(start).Milliseconds()), rep.Scanned, rep.Usable)
	metrics.RecordFamousCandidates(v, rep.Famous)
	if rep.Fallback {
		metrics.RecordFallbackActivation(v)
		s.logger.Info(ctx, "no usable candidates, ranked fallback sample",
			logger.String("variant", v),
			logger.Int("scanned", rep.Scanned),
		)
	}
	s.logger.Debug(ctx, "similarity ranking computed",
		logger.String("variant", v),
		logger.String("player", player),
		logger.Int("scanned", rep.Scanned),
		logger.Int("usable", rep.Usable),
		logger.Int("famous", rep.Famous),
		logger.Int("returned", returned),
		logger.Bool("extended", rep.Extended),
	)
}

// IngestBatter queues r for validation and storage and returns the job id.
func (s *Service) IngestBatter(ctx context.Context, r model.BattingRecord) (string, error) {
	return s.enqueue(ctx, model.IngestJob{Variant: model.Batting, Batter: &r})
}

// IngestBowler queues r for validation and storage and returns the job id.
func (s *Service) IngestBowler(ctx context.Context, r model.BowlingRecord) (string, error) {
	return s.enqueue(ctx, model.IngestJob{Variant: model.Bowling, Bowler: &r})
}

func (s *Service) enqueue(ctx context.Context, job model.IngestJob) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return "", ErrNotStarted
	}

	job.JobID = uuid.NewString()
	job.ReceivedAt = time.Now()
	if !s.queue.Enqueue(ctx, job) {
		s.logger.Warn(ctx, "ingest queue rejected job",
			logger.String("variant", string(job.Variant)),
			logger.String("player", job.Player()),
		)
		return "", ErrQueueFull
	}

	metrics.RecordIngestEnqueued(string(job.Variant))
	s.logger.Debug(ctx, "ingest job queued",
		logger.String("job_id", job.JobID),
		logger.String("variant", string(job.Variant)),
		logger.String("player", job.Player()),
	)
	return job.JobID, nil
}

// Ping verifies the store answers.
func (s *Service) Ping(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return ErrNotStarted
	}
	_, err := s.store.Count(ctx)
	return err
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":        s.started,
		"workerCount":    s.workerCount,
		"queueSize":      s.queueSize,
		"candidateLimit": s.candidateLimit,
		"defaultLimit":   s.engine.DefaultLimit(),
		"famousDiscount": s.engine.Discount(),
	}

	if s.started {
		queueLen := s.queue.Len(ctx)
		stats["queueLength"] = queueLen
		stats["uptimeSeconds"] = int64(time.Since(s.startedAt).Seconds())
		stats["ingested"] = s.workerPool.Processed()
		stats["breakers"] = s.source.BreakerStates()

		if counts, err := s.store.Count(ctx); err == nil {
			stats["batters"] = counts.Batters
			stats["bowlers"] = counts.Bowlers
			metrics.UpdatePlayersStored(string(model.Batting), counts.Batters)
			metrics.UpdatePlayersStored(string(model.Bowling), counts.Bowlers)
		}

		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateWorkerCount(s.workerCount)
	}

	return stats
}

// Engine exposes the ranking engine for offline use such as the CLI.
func (s *Service) Engine() *similarity.Engine {
	return s.engine
}

// Package worker drains the ingestion queue and writes validated player
// records to the candidate store.
package worker

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/cricsim/internal/adapters/mq/queue"
	"github.com/okian/cricsim/internal/domain/model"
	"github.com/okian/cricsim/pkg/logger"
	"github.com/okian/cricsim/pkg/metrics"
)

// Default worker configuration constants.
const (
	metricsUpdateInterval = 5 * time.Second
	workerShutdownTimeout = 5 * time.Second
	poolShutdownTimeout   = 30 * time.Second
)

// Job abstracts what workers read off the queue.
type Job = queue.Job

// Writer persists player records.
type Writer interface {
	UpsertBatter(ctx context.Context, r model.BattingRecord) error
	UpsertBowler(ctx context.Context, r model.BowlingRecord) error
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Job
}

// Worker processes ingest jobs.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown stops the worker after the job in flight.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker for processing ingest jobs.
type InMemoryWorker struct {
	queue  Queue
	writer Writer
	name   string

	// processed is shared with the owning pool, nil when standalone.
	processed *atomic.Int64

	shutdown chan struct{}
	stopOnce sync.Once
	done     chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(queue Queue, writer Writer, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:    queue,
		writer:   writer,
		name:     "worker",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get().Named("worker"),
	}

	for _, opt := range opts {
		opt(w)
	}

	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}

	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			if err := w.processJob(ctx, job); err != nil {
				w.logger.Error(ctx, "error processing ingest job",
					logger.String("job_id", job.JobID),
					logger.Error(err),
				)
			}
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	w.stop()

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

func (w *InMemoryWorker) stop() {
	w.stopOnce.Do(func() { close(w.shutdown) })
}

// processJob validates the job's record and upserts it.
func (w *InMemoryWorker) processJob(ctx context.Context, job Job) error { //nolint:gocritic // hugeParam: Job is passed by value for channel semantics
	start := time.Now()
	defer func() {
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Milliseconds()))
	}()

	variant := string(job.Variant)
	err := w.write(ctx, job)
	if err != nil {
		reason := "store_error"
		if errors.Is(err, model.ErrInvalidRecord) {
			reason = "invalid_record"
		}
		metrics.RecordIngestFailed(variant, reason)
		return fmt.Errorf("ingest %s job %s: %w", variant, job.JobID, err)
	}

	metrics.RecordIngestProcessed(variant)
	if w.processed != nil {
		w.processed.Add(1)
	}
	w.logger.Debug(ctx, "player record stored",
		logger.String("job_id", job.JobID),
		logger.String("variant", variant),
		logger.String("player", job.Player()),
	)
	return nil
}

func (w *InMemoryWorker) write(ctx context.Context, job Job) error { //nolint:gocritic // hugeParam
	switch job.Variant {
	case model.Batting:
		if job.Batter == nil {
			return fmt.Errorf("%w: batting job without record", model.ErrInvalidRecord)
		}
		rec := *job.Batter
		if err := rec.Normalize(); err != nil {
			return err
		}
		return w.writer.UpsertBatter(ctx, rec)
	case model.Bowling:
		if job.Bowler == nil {
			return fmt.Errorf("%w: bowling job without record", model.ErrInvalidRecord)
		}
		rec := *job.Bowler
		if err := rec.Normalize(); err != nil {
			return err
		}
		return w.writer.UpsertBowler(ctx, rec)
	default:
		return fmt.Errorf("%w: unknown variant %q", model.ErrInvalidRecord, job.Variant)
	}
}

// Pool manages multiple workers.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue

	shutdown chan struct{}
	stopOnce sync.Once

	processed         atomic.Int64
	lastProcessedTime time.Time

	logger logger.Logger
}

// NewPool creates a new worker pool. A non-positive count uses one worker
// per CPU.
func NewPool(workerCount int, queue Queue, writer Writer, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}

	pool := &Pool{
		workers:           make([]*InMemoryWorker, workerCount),
		queue:             queue,
		shutdown:          make(chan struct{}),
		lastProcessedTime: time.Now(),
		logger:            logger.Get().Named("worker-pool"),
	}

	for i := 0; i < workerCount; i++ {
		workerOpts := append([]Option{WithName("worker-" + strconv.Itoa(i))}, opts...)
		w := NewInMemoryWorker(queue, writer, workerOpts...)
		w.processed = &pool.processed
		pool.workers[i] = w
	}

	metrics.UpdateWorkerCount(workerCount)

	return pool
}

// Size returns the number of workers.
func (p *Pool) Size() int {
	return len(p.workers)
}

// Processed returns the number of jobs stored since the pool was created.
func (p *Pool) Processed() int64 {
	return p.processed.Load()
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}

	go p.startMetricsUpdater(ctx)
}

func (p *Pool) startMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(metricsUpdateInterval)
	defer ticker.Stop()

	var last int64
	for {
		select {
		case <-ctx.Done():
			return
		case <-p.shutdown:
			return
		case now := <-ticker.C:
			current := p.processed.Load()
			if secs := now.Sub(p.lastProcessedTime).Seconds(); secs > 0 {
				p.logger.Debug(ctx, "ingest throughput",
					logger.Float64("jobs_per_second", float64(current-last)/secs),
				)
			}
			last = current
			p.lastProcessedTime = now
		}
	}
}

// Shutdown closes the queue, lets the workers drain it, and stops them.
// Workers still busy when ctx or the pool timeout expires are abandoned.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	var timedOut bool
	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-shutdownCtx.Done():
			timedOut = true
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}

	p.stopOnce.Do(func() { close(p.shutdown) })
	for _, w := range p.workers {
		w.stop()
	}

	if timedOut {
		return fmt.Errorf("worker pool shutdown: %w", shutdownCtx.Err())
	}
	return nil
}

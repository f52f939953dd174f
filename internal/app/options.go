package service

import (
	"time"

	"github.com/okian/cricsim/internal/adapters/repository"
	"github.com/okian/cricsim/internal/domain/similarity"
	"github.com/okian/cricsim/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of ingestion workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the ingestion queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStore injects a candidate store. The caller keeps ownership and must
// close it after Stop.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
			s.ownsStore = false
		}
	}
}

// WithDatabaseURL selects the store opened on Start when none is injected.
// An empty URL selects the in-memory store.
func WithDatabaseURL(url string) Option {
	return func(s *Service) {
		s.databaseURL = url
	}
}

// WithStoreOptions passes options to the store opened on Start.
func WithStoreOptions(opts ...repository.Option) Option {
	return func(s *Service) {
		s.storeOpts = append(s.storeOpts, opts...)
	}
}

// WithSeedCSV imports batting and bowling CSV files into the store on Start.
// Either path may be empty.
func WithSeedCSV(batting, bowling string) Option {
	return func(s *Service) {
		s.seedBattingCSV = batting
		s.seedBowlingCSV = bowling
	}
}

// WithCandidateLimit caps how many records one ranking reads from the store.
func WithCandidateLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.candidateLimit = n
		}
	}
}

// WithFetchTimeout bounds a single candidate store query.
func WithFetchTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.fetchTimeout = d
		}
	}
}

// WithBreaker configures the store circuit breakers.
func WithBreaker(failures int, openFor time.Duration) Option {
	return func(s *Service) {
		if failures > 0 {
			s.breakerFailures = uint32(failures)
		}
		if openFor > 0 {
			s.breakerOpenFor = openFor
		}
	}
}

// WithEngineOptions configures the similarity engine.
func WithEngineOptions(opts ...similarity.Option) Option {
	return func(s *Service) {
		s.engineOpts = append(s.engineOpts, opts...)
	}
}

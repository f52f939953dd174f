package source

import (
	"time"

	"github.com/okian/cricsim/pkg/logger"
)

// Option applies a configuration option to the Source.
type Option func(*Source)

// WithTimeout bounds a single store query.
func WithTimeout(d time.Duration) Option {
	return func(s *Source) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithLimit caps how many records one fetch returns.
func WithLimit(n int) Option {
	return func(s *Source) {
		if n > 0 {
			s.limit = n
		}
	}
}

// WithBreaker sets how many consecutive failures open the breaker and how
// long it stays open before a trial request.
func WithBreaker(failures uint32, openFor time.Duration) Option {
	return func(s *Source) {
		if failures > 0 {
			s.failureThreshold = failures
		}
		if openFor > 0 {
			s.openTimeout = openFor
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Source) {
		if l != nil {
			s.logger = l
		}
	}
}

package repository

import (
	"time"

	"gorm.io/gorm/logger"
)

// Option applies a configuration option to a store.
type Option func(*settings)

type settings struct {
	metricsUpdateInterval time.Duration
	gormLogLevel          logger.LogLevel
}

func newSettings(opts []Option) settings {
	s := settings{
		metricsUpdateInterval: 5 * time.Second,
		gormLogLevel:          logger.Silent,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// WithMetricsUpdateInterval sets the interval for background metrics updates.
func WithMetricsUpdateInterval(interval time.Duration) Option {
	return func(s *settings) {
		if interval > 0 {
			s.metricsUpdateInterval = interval
		}
	}
}

// WithSQLLogLevel sets the gorm logger verbosity of a SQLStore.
func WithSQLLogLevel(level logger.LogLevel) Option {
	return func(s *settings) {
		s.gormLogLevel = level
	}
}

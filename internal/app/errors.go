package service

import (
	"errors"

	eventqueue "github.com/okian/cricsim/internal/adapters/mq/queue"
)

// Sentinel kinds for service errors.
var (
	ErrNotStarted = errors.New("service not started")
	ErrQueueFull  = eventqueue.ErrQueueFull
)

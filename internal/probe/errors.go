package probe

import "errors"

// Sentinel errors reported by Run.
var (
	ErrUnhealthy  = errors.New("service is not healthy")
	ErrViolations = errors.New("ranking invariants violated")
	ErrOrdering   = errors.New("results out of order")
	ErrOversized  = errors.New("more results than requested")
	ErrDistance   = errors.New("invalid distance")
)

package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrBackpressure = errors.New("backpressure")
	ErrUnavailable  = errors.New("service unavailable")
	ErrLimitTooHigh = errors.New("limit exceeds maximum")
	ErrRateLimited  = errors.New("rate limit exceeded")
)

package repository

import "errors"

// Sentinel kinds for repository errors.
var (
	ErrEmptyPlayer       = errors.New("player name is required")
	ErrUnsupportedDriver = errors.New("unsupported database driver")
	ErrClosed            = errors.New("store is closed")
	ErrMalformedCSV      = errors.New("malformed csv")
)

package source

import "errors"

var (
	ErrInvalidConfig = errors.New("invalid source config")
	ErrNoReader      = errors.New("note reader is required")
	ErrStopped       = errors.New("note source is stopped")
)

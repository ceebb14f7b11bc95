package overlay

import "errors"

var (
	ErrUnknownPending = errors.New("no pending entry with this id")
	ErrPendingNote    = errors.New("note is not confirmed yet")
	ErrInvalidConfig  = errors.New("invalid overlay config")
)

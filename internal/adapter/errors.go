package adapter

import "errors"

var (
	// ErrUnavailable is a transient failure: the ledger could not be reached
	// or answered with a server side error. Reads are retried.
	ErrUnavailable = errors.New("ledger unavailable")
	// ErrRejected means the ledger refused the write.
	ErrRejected   = errors.New("ledger rejected the request")
	ErrNotFound   = errors.New("note not found")
	ErrBadRequest = errors.New("bad request")

	ErrInvalidConfig = errors.New("invalid adapter config")
)

package service

import "errors"

var (
	ErrVersionIsNotSpecified = errors.New("app version is not specified")
	ErrInvalidDataProvided   = errors.New("invalid data provided")

	ErrMutationUnsupported = errors.New("ledger does not support moving or deleting notes")
	ErrPendingNote         = errors.New("note is not confirmed yet")
	ErrUnknownNote         = errors.New("note is not on the board")
	ErrBoardClosed         = errors.New("board is closed")
	ErrBoardStarted        = errors.New("board already started")
	ErrBoardNotStarted     = errors.New("board is not started")
)

package placement

import "errors"

var (
	ErrEmptyContent      = errors.New("note content is empty")
	ErrInvalidColor      = errors.New("color is not in the palette")
	ErrOutsideCanvas     = errors.New("point is outside the canvas")
	ErrInvalidTransition = errors.New("operation not allowed in the current state")
	ErrWriteInFlight     = errors.New("a note write is still in flight")
)

package scheduler

import "errors"

var (
	ErrLoopClosed        = errors.New("event loop is closed")
	ErrSchedulerShutdown = errors.New("scheduler is shut down")
)

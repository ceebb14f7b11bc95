package scheduler

import "time"

// Dispatcher accepts continuations that must run on the event loop.
// Post returns false when the loop no longer accepts work.
type Dispatcher interface {
	Post(fn func()) bool
}

// Clock abstracts wall time so that timer driven code can be tested.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a stoppable one-shot timer created by a [Clock].
type Timer interface {
	Stop() bool
}

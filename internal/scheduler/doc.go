// Package scheduler provides the single event loop that serializes every
// state change of the board, and the timer scheduler that owns the
// cancellable handles for polling and retry.
//
// Blocking work never runs on the loop. It runs on its own goroutine and
// posts a continuation back with [Dispatcher.Post]. A continuation therefore
// always observes state that no other goroutine is changing.
//
// Timers follow the same rule: a fired timer only posts its callback. The
// callback runs on the loop and only if its [Handle] is still registered, so
// [Scheduler.Cancel] is effective even when the timer already fired and the
// callback is queued.
package scheduler

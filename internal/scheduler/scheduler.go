package scheduler

import (
	"sync"
	"time"
)

// Handle identifies a scheduled callback. The zero Handle is never issued.
type Handle uint64

// Scheduler owns every outstanding timer of one board. Callbacks run on the
// dispatcher, never on the timer goroutine.
type Scheduler struct {
	mu       sync.Mutex
	clock    Clock
	dispatch Dispatcher

	next   Handle
	timers map[Handle]Timer
	closed bool
}

// New creates a scheduler that posts fired callbacks to d.
func New(clock Clock, d Dispatcher) *Scheduler {
	if clock == nil {
		clock = SystemClock()
	}
	return &Scheduler{
		clock:    clock,
		dispatch: d,
		timers:   make(map[Handle]Timer),
	}
}

// Now returns the scheduler clock's current time.
func (s *Scheduler) Now() time.Time {
	return s.clock.Now()
}

// After schedules fn to run on the dispatcher once d has elapsed.
func (s *Scheduler) After(d time.Duration, fn func()) (Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, ErrSchedulerShutdown
	}

	s.next++
	h := s.next
	s.timers[h] = s.clock.AfterFunc(d, func() {
		s.dispatch.Post(func() {
			if s.claim(h) {
				fn()
			}
		})
	})
	return h, nil
}

// Cancel unregisters h. It reports whether h was still pending.
// A callback whose handle was cancelled never runs.
func (s *Scheduler) Cancel(h Handle) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.timers[h]
	if !ok {
		return false
	}
	t.Stop()
	delete(s.timers, h)
	return true
}

// Pending reports how many callbacks are scheduled and not yet run.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Shutdown cancels every pending callback and refuses new ones.
func (s *Scheduler) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for h, t := range s.timers {
		t.Stop()
		delete(s.timers, h)
	}
	s.closed = true
}

func (s *Scheduler) claim(h Handle) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.timers[h]; !ok {
		return false
	}
	delete(s.timers, h)
	return true
}

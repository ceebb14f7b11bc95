// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package source mirrors the authoritative note set.
//
// The Source is a state machine driven from the board's event loop:
//
//	Idle -> Fetching -> Ready | Failed -> Fetching -> ...
//
// Fetching is re-entered on the polling interval, on change notifications,
// on explicit refresh and on the retry timer. At most one fetch is in flight.
// Failures are recorded as state and retried with bounded exponential backoff.
// Every method must be called on the event loop.
package source

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/sticky-chain/internal/logger"
	"github.com/MKhiriev/sticky-chain/internal/retry"
	"github.com/MKhiriev/sticky-chain/internal/scheduler"
	"github.com/MKhiriev/sticky-chain/models"
)

// Trigger is the reason a fetch was requested.
type Trigger int

const (
	TriggerPoll Trigger = iota
	TriggerNotification
	TriggerRefresh
	TriggerRetry
)

func (t Trigger) String() string {
	switch t {
	case TriggerPoll:
		return "poll"
	case TriggerNotification:
		return "notification"
	case TriggerRefresh:
		return "refresh"
	case TriggerRetry:
		return "retry"
	}
	return "unknown"
}

// Config controls polling. A zero PollInterval disables polling.
type Config struct {
	PollInterval time.Duration
	FetchTimeout time.Duration
}

type Source struct {
	cfg      Config
	reader   NoteReader
	dispatch scheduler.Dispatcher
	timers   Timers
	policy   *retry.Policy
	spawn    Spawn

	ctx    context.Context
	cancel context.CancelFunc

	state     models.SourceState
	notes     []models.Note
	lastErr   error
	nextDelay time.Duration
	fetchedAt time.Time
	fetchSeq  uint64
	stale     bool

	fetching   bool
	rerun      bool
	generation uint64

	started     bool
	pollHandle  scheduler.Handle
	retryHandle scheduler.Handle

	listeners []func(models.SourceStatus)

	logger *logger.Logger
}

// New wires a source. Spawn defaults to starting a goroutine.
func New(
	cfg Config,
	reader NoteReader,
	dispatch scheduler.Dispatcher,
	timers Timers,
	policy *retry.Policy,
	spawn Spawn,
	log *logger.Logger,
) (*Source, error) {
	if reader == nil {
		return nil, ErrNoReader
	}
	if cfg.PollInterval < 0 || cfg.FetchTimeout < 0 {
		return nil, fmt.Errorf("%w: durations must not be negative", ErrInvalidConfig)
	}
	if policy == nil {
		return nil, fmt.Errorf("%w: retry policy is required", ErrInvalidConfig)
	}
	if spawn == nil {
		spawn = func(fn func()) { go fn() }
	}

	return &Source{
		cfg:      cfg,
		reader:   reader,
		dispatch: dispatch,
		timers:   timers,
		policy:   policy,
		spawn:    spawn,
		state:    models.SourceIdle,
		logger:   log,
	}, nil
}

// OnUpdate registers fn to be called with the new status after every change.
func (s *Source) OnUpdate(fn func(models.SourceStatus)) {
	s.listeners = append(s.listeners, fn)
}

// Start arms the polling timer and fetches right away. Fetches are bound
// to ctx; Start is a no-op when already started.
func (s *Source) Start(ctx context.Context) error {
	if s.state == models.SourceStopped {
		return ErrStopped
	}
	if s.started {
		return nil
	}
	s.started = true
	s.ctx, s.cancel = context.WithCancel(ctx)

	s.armPoll()
	s.Trigger(TriggerRefresh)
	return nil
}

// Trigger requests a fetch. Every trigger except a retry resets the retry
// policy. While a fetch is in flight the trigger is coalesced: notification
// and refresh triggers schedule exactly one follow-up fetch, poll triggers
// are dropped.
func (s *Source) Trigger(t Trigger) {
	if s.state == models.SourceStopped || !s.started {
		return
	}

	if t != TriggerRetry {
		s.policy.Reset()
		s.cancelRetry()
	}

	if s.fetching {
		if t == TriggerNotification || t == TriggerRefresh {
			s.rerun = true
		}
		s.logger.Debug().
			Str("func", "Source.Trigger").
			Stringer("trigger", t).
			Bool("rerun", s.rerun).
			Msg("fetch in flight, trigger coalesced")
		return
	}

	s.beginFetch(t)
}

// Seed installs notes read from a local cache. They are marked stale and
// are replaced by the first successful fetch. Seeding after a fetch has
// succeeded does nothing.
func (s *Source) Seed(notes []models.Note) {
	if s.fetchSeq > 0 || s.state == models.SourceStopped {
		return
	}
	s.notes = append([]models.Note(nil), notes...)
	s.stale = true
	s.notify()
}

// Status returns a copy of the current state.
func (s *Source) Status() models.SourceStatus {
	return models.SourceStatus{
		State:     s.state,
		Fetching:  s.fetching,
		Notes:     append([]models.Note(nil), s.notes...),
		LastErr:   s.lastErr,
		Attempt:   s.policy.Attempt(),
		Exhausted: s.state == models.SourceFailed && s.policy.Exhausted(),
		NextDelay: s.nextDelay,
		FetchedAt: s.fetchedAt,
		FetchSeq:  s.fetchSeq,
		Stale:     s.stale,
	}
}

// Notes returns the latest known authoritative set. The slice must not be modified.
func (s *Source) Notes() []models.Note {
	return s.notes
}

// Shutdown cancels the in-flight fetch and every timer. Results that arrive
// afterwards are ignored.
func (s *Source) Shutdown() {
	if s.state == models.SourceStopped {
		return
	}
	if s.cancel != nil {
		s.cancel()
	}
	s.cancelRetry()
	if s.pollHandle != 0 {
		s.timers.Cancel(s.pollHandle)
		s.pollHandle = 0
	}

	s.generation++
	s.fetching = false
	s.rerun = false
	s.state = models.SourceStopped
	s.notify()
}

func (s *Source) beginFetch(t Trigger) {
	s.generation++
	gen := s.generation

	s.fetching = true
	s.state = models.SourceFetching
	s.notify()

	ctx, cancel := s.ctx, context.CancelFunc(func() {})
	if s.cfg.FetchTimeout > 0 {
		ctx, cancel = context.WithTimeout(s.ctx, s.cfg.FetchTimeout)
	}

	log := s.logger
	log.Debug().
		Str("func", "Source.beginFetch").
		Stringer("trigger", t).
		Int("attempt", s.policy.Attempt()).
		Msg("fetching notes")

	reader, dispatch := s.reader, s.dispatch
	s.spawn(func() {
		defer cancel()
		records, err := reader.FetchNotes(ctx)
		if !dispatch.Post(func() { s.complete(gen, records, err) }) {
			log.Debug().Str("func", "Source.beginFetch").Msg("event loop closed, fetch result dropped")
		}
	})
}

func (s *Source) complete(gen uint64, records []models.NoteRecord, err error) {
	if gen != s.generation || s.state == models.SourceStopped {
		return
	}
	s.fetching = false

	if err != nil {
		s.fail(err)
	} else {
		s.succeed(records)
	}

	if s.rerun {
		s.rerun = false
		s.cancelRetry()
		s.notify()
		s.beginFetch(TriggerNotification)
		return
	}
	s.notify()
}

func (s *Source) succeed(records []models.NoteRecord) {
	notes := make([]models.Note, 0, len(records))
	for _, r := range records {
		notes = append(notes, s.toNote(r))
	}

	s.notes = notes
	s.state = models.SourceReady
	s.lastErr = nil
	s.nextDelay = 0
	s.stale = false
	s.fetchedAt = s.timers.Now()
	s.fetchSeq++
	s.policy.Reset()
}

func (s *Source) fail(err error) {
	s.lastErr = err
	s.state = models.SourceFailed

	delay, again := s.policy.Failure()
	s.nextDelay = delay

	ev := s.logger.Warn().
		Err(err).
		Str("func", "Source.fail").
		Int("attempt", s.policy.Attempt()).
		Int("max_attempts", s.policy.MaxAttempts())

	if !again {
		ev.Msg("fetch failed, retries exhausted")
		return
	}

	h, schedErr := s.timers.After(delay, func() {
		s.retryHandle = 0
		s.Trigger(TriggerRetry)
	})
	if schedErr != nil {
		ev.Msg("fetch failed, retry could not be scheduled")
		return
	}
	s.retryHandle = h
	ev.Dur("retry_in", delay).Msg("fetch failed, retry scheduled")
}

func (s *Source) armPoll() {
	if s.cfg.PollInterval <= 0 {
		return
	}
	h, err := s.timers.After(s.cfg.PollInterval, func() {
		s.pollHandle = 0
		s.armPoll()
		s.Trigger(TriggerPoll)
	})
	if err != nil {
		s.logger.Debug().Err(err).Str("func", "Source.armPoll").Msg("polling not armed")
		return
	}
	s.pollHandle = h
}

func (s *Source) cancelRetry() {
	if s.retryHandle != 0 {
		s.timers.Cancel(s.retryHandle)
		s.retryHandle = 0
	}
}

func (s *Source) notify() {
	if len(s.listeners) == 0 {
		return
	}
	st := s.Status()
	for _, fn := range s.listeners {
		fn(st)
	}
}

func (s *Source) toNote(r models.NoteRecord) models.Note {
	id := r.ID
	if id == "" {
		id = fmt.Sprintf("note-%d", r.Index)
	}

	color, ok := models.ParseColor(r.Color)
	if !ok {
		s.logger.Warn().
			Str("func", "Source.toNote").
			Str("note_id", id).
			Str("color", r.Color).
			Msg("unknown note color, using default")
	}

	return models.Note{
		ID:        id,
		Content:   r.Content,
		Position:  models.Point{X: r.X, Y: r.Y},
		Author:    r.Author,
		Color:     color,
		Timestamp: r.Timestamp,
		Origin:    models.OriginConfirmed,
		Receipt:   models.Receipt(r.Receipt),
	}
}

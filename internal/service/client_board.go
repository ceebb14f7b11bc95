// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MKhiriev/sticky-chain/internal/adapter"
	"github.com/MKhiriev/sticky-chain/internal/config"
	"github.com/MKhiriev/sticky-chain/internal/logger"
	"github.com/MKhiriev/sticky-chain/internal/overlay"
	"github.com/MKhiriev/sticky-chain/internal/placement"
	"github.com/MKhiriev/sticky-chain/internal/retry"
	"github.com/MKhiriev/sticky-chain/internal/scheduler"
	"github.com/MKhiriev/sticky-chain/internal/source"
	"github.com/MKhiriev/sticky-chain/internal/store"
	"github.com/MKhiriev/sticky-chain/internal/utils"
	"github.com/MKhiriev/sticky-chain/internal/viewport"
	"github.com/MKhiriev/sticky-chain/models"
)

const defaultSnapshotTimeout = 5 * time.Second

// BoardConfig collects the timing and matching knobs of a board.
type BoardConfig struct {
	Author string

	Source source.Config

	RetryMaxAttempts int
	RetryBaseDelay   time.Duration
	RetryCeiling     time.Duration

	Overlay overlay.Config

	// WriteTimeout bounds note writes and mutations. Zero means no bound.
	WriteTimeout time.Duration

	SnapshotTimeout time.Duration
}

// NewBoardConfig maps the worker settings onto a BoardConfig.
func NewBoardConfig(author string, w config.Workers) BoardConfig {
	return BoardConfig{
		Author: author,
		Source: source.Config{
			PollInterval: w.PollInterval,
			FetchTimeout: w.FetchTimeout,
		},
		RetryMaxAttempts: w.RetryMaxAttempts,
		RetryBaseDelay:   w.RetryBaseDelay,
		RetryCeiling:     w.RetryCeiling,
		Overlay: overlay.Config{
			MatchWindow:       w.MatchWindow,
			PositionTolerance: w.MatchTolerance,
			GracePeriod:       w.PendingGrace,
		},
		WriteTimeout:    w.WriteTimeout,
		SnapshotTimeout: defaultSnapshotTimeout,
	}
}

// BoardDeps are the collaborators of a board. Mutator and Snapshots are
// optional; Clock, IDs and Spawn have production defaults.
type BoardDeps struct {
	Reader    adapter.NoteReader
	Writer    adapter.NoteWriter
	Mutator   adapter.NoteMutator
	Snapshots store.SnapshotRepository

	Clock scheduler.Clock
	IDs   overlay.IDGenerator
	Spawn func(func())
}

// Board owns one event loop and everything it drives: the remote source,
// the optimistic overlay, the placement workflow and the viewport. Public
// methods may be called from any goroutine; they run on the loop and
// return once it has processed them. Every change is published as an
// immutable [models.BoardSnapshot].
type Board struct {
	cfg       BoardConfig
	mutator   adapter.NoteMutator
	snapshots store.SnapshotRepository
	spawn     func(func())

	loop     *scheduler.Loop
	timers   *scheduler.Scheduler
	source   *source.Source
	overlay  *overlay.Overlay
	workflow *placement.Workflow

	// loop owned
	viewport      models.Viewport
	canvas        models.Size
	mutationErr   error
	mutations     uint64
	mutationSeq   map[string]uint64
	reconciledSeq uint64
	saving        bool
	nextSave      *snapshotJob

	ctx       context.Context
	cancel    context.CancelFunc
	started   atomic.Bool
	closeOnce sync.Once
	inflight  sync.WaitGroup

	mu     sync.Mutex
	latest models.BoardSnapshot
	subs   map[chan models.BoardSnapshot]struct{}

	logger *logger.Logger
}

// publishingDispatcher posts continuations on the board loop and publishes
// a snapshot after each of them.
type publishingDispatcher struct {
	b *Board
}

func (d publishingDispatcher) Post(fn func()) bool {
	return d.b.loop.Post(func() {
		fn()
		d.b.publish()
	})
}

type snapshotJob struct {
	notes   []models.Note
	savedAt time.Time
}

// NewBoard wires a board. Nothing runs until Start.
func NewBoard(cfg BoardConfig, deps BoardDeps, log *logger.Logger) (*Board, error) {
	if deps.Reader == nil || deps.Writer == nil {
		return nil, fmt.Errorf("%w: note reader and writer are required", ErrInvalidDataProvided)
	}
	if deps.Clock == nil {
		deps.Clock = scheduler.SystemClock()
	}
	if deps.IDs == nil {
		deps.IDs = utils.NewUUIDGenerator()
	}
	if deps.Spawn == nil {
		deps.Spawn = func(fn func()) { go fn() }
	}
	if cfg.SnapshotTimeout <= 0 {
		cfg.SnapshotTimeout = defaultSnapshotTimeout
	}

	policy, err := retry.NewPolicy(cfg.RetryMaxAttempts, cfg.RetryBaseDelay, cfg.RetryCeiling)
	if err != nil {
		return nil, err
	}

	ov, err := overlay.New(cfg.Overlay, deps.Clock, deps.IDs, log.WithComponent("overlay"))
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	b := &Board{
		cfg:         cfg,
		mutator:     deps.Mutator,
		snapshots:   deps.Snapshots,
		overlay:     ov,
		viewport:    viewport.Identity(),
		mutationSeq: make(map[string]uint64),
		ctx:         ctx,
		cancel:      cancel,
		subs:        make(map[chan models.BoardSnapshot]struct{}),
		logger:      log,
	}

	spawn := deps.Spawn
	b.spawn = func(fn func()) {
		b.inflight.Add(1)
		spawn(func() {
			defer b.inflight.Done()
			fn()
		})
	}

	b.loop = scheduler.NewLoop(log.WithComponent("loop"))
	b.timers = scheduler.New(deps.Clock, b.loop)

	b.source, err = source.New(cfg.Source, deps.Reader, b.loop, b.timers, policy, b.spawn, log.WithComponent("source"))
	if err != nil {
		cancel()
		return nil, err
	}
	b.source.OnUpdate(b.onSourceUpdate)

	b.workflow = placement.New(ctx, placement.Config{
		Author:       cfg.Author,
		WriteTimeout: cfg.WriteTimeout,
	}, deps.Writer, ov, publishingDispatcher{b}, b.spawn, log.WithComponent("placement"))

	b.latest = b.buildSnapshot()
	return b, nil
}

// Start runs the event loop, seeds the source from the snapshot cache and
// starts fetching. The board closes itself when ctx is done.
func (b *Board) Start(ctx context.Context) error {
	if !b.started.CompareAndSwap(false, true) {
		return ErrBoardStarted
	}

	go b.loop.Run(b.ctx)
	go func() {
		select {
		case <-ctx.Done():
			b.Close()
		case <-b.loop.Done():
		}
	}()

	// seeding spawns I/O, so it runs on the loop where Close can order it
	return b.do(func() error {
		b.seedFromCache()
		return b.source.Start(b.ctx)
	})
}

// Close stops timers and the loop, cancels in-flight I/O and waits for it.
// Subscriber channels are closed. Close is idempotent.
func (b *Board) Close() {
	b.closeOnce.Do(func() {
		if b.started.Load() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			_ = b.loop.Call(ctx, func() {
				b.source.Shutdown()
				b.timers.Shutdown()
				b.publish()
			})
			cancel()
		}

		b.cancel()
		b.loop.Close()
		if b.started.Load() {
			<-b.loop.Done()
		}
		b.inflight.Wait()

		b.logger.Info().Str("func", "*Board.Close").Msg("board closed")
	})
}

// Compose starts a new draft.
func (b *Board) Compose() error {
	return b.do(b.workflow.Compose)
}

// SetDraft replaces the content and color of the draft.
func (b *Board) SetDraft(content string, color models.Color) error {
	return b.do(func() error { return b.workflow.SetDraft(content, color) })
}

// ConfirmDraft finishes composing; the next Place positions the note.
func (b *Board) ConfirmDraft() error {
	return b.do(b.workflow.ConfirmDraft)
}

// Place drops the confirmed draft at a screen position and submits it.
// It returns the temporary id of the pending note.
func (b *Board) Place(screen models.Point) (string, error) {
	var tempID string
	err := b.do(func() error {
		var err error
		tempID, err = b.workflow.Place(screen, b.viewport, b.canvas)
		return err
	})
	return tempID, err
}

// Cancel abandons the current draft. A submitted write still completes.
func (b *Board) Cancel() error {
	return b.do(b.workflow.Cancel)
}

// Pan shifts the viewport by a screen-space delta.
func (b *Board) Pan(delta models.Point) error {
	return b.do(func() error {
		b.viewport = viewport.ApplyPan(b.viewport, delta)
		return nil
	})
}

// Zoom scales the viewport by factor, keeping anchor fixed on screen.
func (b *Board) Zoom(anchor models.Point, factor float64) error {
	return b.do(func() error {
		b.viewport = viewport.ApplyZoom(b.viewport, anchor, factor)
		return nil
	})
}

// Resize records the canvas size used to reject placements off screen.
func (b *Board) Resize(size models.Size) error {
	return b.do(func() error {
		b.canvas = size
		return nil
	})
}

// Refresh fetches the authoritative set now.
func (b *Board) Refresh() error {
	return b.do(func() error {
		b.source.Trigger(source.TriggerRefresh)
		return nil
	})
}

// Notify reports a ledger change signal. It never blocks.
func (b *Board) Notify() {
	b.loop.Post(func() {
		b.source.Trigger(source.TriggerNotification)
		b.publish()
	})
}

// MoveNote moves a confirmed note so that its origin sits at the given
// screen position. The overlay shows the new position until the ledger
// reflects it; a failed move is rolled back.
func (b *Board) MoveNote(id string, screen models.Point) error {
	if b.mutator == nil {
		return ErrMutationUnsupported
	}
	return b.do(func() error {
		if err := b.checkConfirmed(id); err != nil {
			return err
		}
		to := viewport.WorldFromScreen(screen, b.viewport)
		if err := b.overlay.Move(id, to); err != nil {
			return err
		}
		b.mutate(id, "move", func(ctx context.Context) error {
			return b.mutator.MoveNote(ctx, id, to)
		})
		return nil
	})
}

// DeleteNote hides a confirmed note and deletes it on the ledger. A failed
// delete brings the note back.
func (b *Board) DeleteNote(id string) error {
	if b.mutator == nil {
		return ErrMutationUnsupported
	}
	return b.do(func() error {
		if err := b.checkConfirmed(id); err != nil {
			return err
		}
		if err := b.overlay.Hide(id); err != nil {
			return err
		}
		b.mutate(id, "delete", func(ctx context.Context) error {
			return b.mutator.DeleteNote(ctx, id)
		})
		return nil
	})
}

// Snapshot returns the latest published snapshot.
func (b *Board) Snapshot() models.BoardSnapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.latest
}

// Subscribe returns a channel that always holds the most recent snapshot.
// Intermediate snapshots are dropped for slow readers. The channel is closed
// when ctx is done or the board closes.
func (b *Board) Subscribe(ctx context.Context) <-chan models.BoardSnapshot {
	ch := make(chan models.BoardSnapshot, 1)

	b.mu.Lock()
	ch <- b.latest
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
		case <-b.ctx.Done():
		}
		b.mu.Lock()
		delete(b.subs, ch)
		close(ch)
		b.mu.Unlock()
	}()
	return ch
}

func (b *Board) do(fn func() error) error {
	if !b.started.Load() {
		return ErrBoardNotStarted
	}

	var err error
	if callErr := b.loop.Call(b.ctx, func() {
		err = fn()
		b.publish()
	}); callErr != nil {
		if errors.Is(callErr, scheduler.ErrLoopClosed) || b.ctx.Err() != nil {
			return ErrBoardClosed
		}
		return callErr
	}
	return err
}

func (b *Board) checkConfirmed(id string) error {
	if overlay.IsTempID(id) {
		return ErrPendingNote
	}
	for _, n := range b.source.Notes() {
		if n.ID == id {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownNote, id)
}

// mutate runs a remote move or delete. Only the latest mutation of a note
// may roll back its overlay entry. Sequence numbers are board wide, so a
// number is never handed out twice.
func (b *Board) mutate(id, op string, call func(ctx context.Context) error) {
	b.mutations++
	seq := b.mutations
	b.mutationSeq[id] = seq
	b.mutationErr = nil

	ctx, cancel := b.ctx, context.CancelFunc(func() {})
	if b.cfg.WriteTimeout > 0 {
		ctx, cancel = context.WithTimeout(b.ctx, b.cfg.WriteTimeout)
	}

	log := b.logger
	b.spawn(func() {
		defer cancel()
		err := call(ctx)
		if !b.loop.Post(func() { b.mutated(id, op, seq, err) }) {
			log.Debug().Str("func", "*Board.mutate").Str("note_id", id).Msg("event loop closed, mutation outcome dropped")
		}
	})
}

func (b *Board) mutated(id, op string, seq uint64, err error) {
	latest := b.mutationSeq[id] == seq
	if latest {
		delete(b.mutationSeq, id)
	}

	if err != nil {
		b.logger.Warn().
			Err(err).
			Str("func", "*Board.mutated").
			Str("note_id", id).
			Str("op", op).
			Bool("latest", latest).
			Msg("note mutation failed")
		if latest {
			b.overlay.Revert(id)
			b.mutationErr = fmt.Errorf("%s %s: %w", op, id, err)
		}
		b.publish()
		return
	}

	b.logger.Info().Str("func", "*Board.mutated").Str("note_id", id).Str("op", op).Msg("note mutation accepted")
	b.source.Trigger(source.TriggerRefresh)
	b.publish()
}

// onSourceUpdate runs on the loop after every source state change.
func (b *Board) onSourceUpdate(st models.SourceStatus) {
	if st.State == models.SourceReady && !st.Stale && st.FetchSeq != b.reconciledSeq {
		b.reconciledSeq = st.FetchSeq

		res := b.overlay.Reconcile(st.Notes)
		if len(res.Confirmed) > 0 || len(res.StillPending) > 0 {
			b.logger.Debug().
				Str("func", "*Board.onSourceUpdate").
				Int("confirmed", len(res.Confirmed)).
				Int("still_pending", len(res.StillPending)).
				Msg("overlay reconciled")
		}
		b.saveSnapshot(snapshotJob{notes: st.Notes, savedAt: st.FetchedAt})
	}
	b.publish()
}

func (b *Board) seedFromCache() {
	if b.snapshots == nil {
		return
	}
	repo, timeout, log := b.snapshots, b.cfg.SnapshotTimeout, b.logger

	b.spawn(func() {
		ctx, cancel := context.WithTimeout(b.ctx, timeout)
		defer cancel()

		notes, savedAt, err := repo.LoadSnapshot(ctx)
		if err != nil {
			log.Warn().Err(err).Str("func", "*Board.seedFromCache").Msg("snapshot cache not loaded")
			return
		}
		if len(notes) == 0 {
			return
		}

		b.loop.Post(func() {
			b.source.Seed(notes)
			log.Info().
				Str("func", "*Board.seedFromCache").
				Int("notes", len(notes)).
				Time("saved_at", savedAt).
				Msg("board seeded from snapshot cache")
			b.publish()
		})
	})
}

// saveSnapshot persists job, or queues it behind the save in progress so
// an older set never overwrites a newer one.
func (b *Board) saveSnapshot(job snapshotJob) {
	if b.snapshots == nil {
		return
	}
	if b.saving {
		b.nextSave = &job
		return
	}
	b.saving = true

	repo, timeout, log := b.snapshots, b.cfg.SnapshotTimeout, b.logger
	b.spawn(func() {
		ctx, cancel := context.WithTimeout(b.ctx, timeout)
		defer cancel()

		if err := repo.SaveSnapshot(ctx, job.notes, job.savedAt); err != nil {
			log.Warn().Err(err).Str("func", "*Board.saveSnapshot").Msg("snapshot not saved")
		}
		b.loop.Post(func() {
			b.saving = false
			if next := b.nextSave; next != nil {
				b.nextSave = nil
				b.saveSnapshot(*next)
			}
		})
	})
}

func (b *Board) publish() {
	snap := b.buildSnapshot()

	b.mu.Lock()
	defer b.mu.Unlock()

	b.latest = snap
	for ch := range b.subs {
		select {
		case <-ch:
		default:
		}
		ch <- snap
	}
}

func (b *Board) buildSnapshot() models.BoardSnapshot {
	st := b.source.Status()
	return models.BoardSnapshot{
		Notes:       b.overlay.Rendered(st.Notes),
		Source:      st,
		Workflow:    b.workflow.Status(),
		Pending:     b.overlay.Pending(),
		Viewport:    b.viewport,
		Canvas:      b.canvas,
		Author:      b.cfg.Author,
		MutationErr: b.mutationErr,
	}
}

package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/MKhiriev/sticky-chain/internal/adapter"
	"github.com/MKhiriev/sticky-chain/internal/config"
	"github.com/MKhiriev/sticky-chain/internal/logger"
	"github.com/MKhiriev/sticky-chain/internal/mock"
	"github.com/MKhiriev/sticky-chain/internal/overlay"
	"github.com/MKhiriev/sticky-chain/internal/placement"
	"github.com/MKhiriev/sticky-chain/internal/scheduler/schedulertest"
	"github.com/MKhiriev/sticky-chain/internal/source"
	"github.com/MKhiriev/sticky-chain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const (
	testAuthor = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
	waitFor    = 2 * time.Second
	tick       = 5 * time.Millisecond
)

type seqIDs struct{ n int }

func (s *seqIDs) Generate() string {
	s.n++
	return fmt.Sprintf("%d", s.n)
}

type boardFixture struct {
	board     *Board
	reader    *mock.MockNoteReader
	writer    *mock.MockNoteWriter
	mutator   *mock.MockNoteMutator
	snapshots *mock.MockSnapshotRepository
	clock     *schedulertest.Clock
}

type fixtureOption func(*BoardConfig, *BoardDeps)

func withoutMutator() fixtureOption {
	return func(_ *BoardConfig, d *BoardDeps) { d.Mutator = nil }
}

func withSnapshots(repo *mock.MockSnapshotRepository) fixtureOption {
	return func(_ *BoardConfig, d *BoardDeps) { d.Snapshots = repo }
}

func testBoardConfig() BoardConfig {
	return BoardConfig{
		Author:           testAuthor,
		Source:           source.Config{},
		RetryMaxAttempts: 3,
		RetryBaseDelay:   time.Second,
		RetryCeiling:     10 * time.Second,
		Overlay:          overlay.DefaultConfig(),
	}
}

func newBoardFixture(t *testing.T, ctrl *gomock.Controller, opts ...fixtureOption) *boardFixture {
	t.Helper()

	f := &boardFixture{
		reader:    mock.NewMockNoteReader(ctrl),
		writer:    mock.NewMockNoteWriter(ctrl),
		mutator:   mock.NewMockNoteMutator(ctrl),
		snapshots: mock.NewMockSnapshotRepository(ctrl),
		clock:     schedulertest.NewClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)),
	}

	cfg := testBoardConfig()
	deps := BoardDeps{
		Reader:  f.reader,
		Writer:  f.writer,
		Mutator: f.mutator,
		Clock:   f.clock,
		IDs:     &seqIDs{},
	}
	for _, opt := range opts {
		opt(&cfg, &deps)
	}

	b, err := NewBoard(cfg, deps, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(b.Close)
	f.board = b
	return f
}

func (f *boardFixture) start(t *testing.T) {
	t.Helper()
	require.NoError(t, f.board.Start(context.Background()))
}

func (f *boardFixture) eventually(t *testing.T, cond func(s models.BoardSnapshot) bool, msg string) models.BoardSnapshot {
	t.Helper()
	var last models.BoardSnapshot
	require.Eventually(t, func() bool {
		last = f.board.Snapshot()
		return cond(last)
	}, waitFor, tick, msg)
	return last
}

func isReady(s models.BoardSnapshot) bool {
	return s.Source.State == models.SourceReady
}

func TestNewBoard_Validation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	_, err := NewBoard(testBoardConfig(), BoardDeps{Writer: mock.NewMockNoteWriter(ctrl)}, logger.Nop())
	assert.ErrorIs(t, err, ErrInvalidDataProvided)

	cfg := testBoardConfig()
	cfg.RetryMaxAttempts = 0
	_, err = NewBoard(cfg, BoardDeps{Reader: mock.NewMockNoteReader(ctrl), Writer: mock.NewMockNoteWriter(ctrl)}, logger.Nop())
	assert.Error(t, err)
}

func TestNewBoardConfig(t *testing.T) {
	w := config.Workers{
		PollInterval:     time.Second,
		FetchTimeout:     2 * time.Second,
		WriteTimeout:     3 * time.Second,
		RetryMaxAttempts: 4,
		RetryBaseDelay:   time.Millisecond,
		RetryCeiling:     time.Minute,
		PendingGrace:     5 * time.Second,
		MatchWindow:      6 * time.Second,
		MatchTolerance:   0.5,
	}

	cfg := NewBoardConfig("alice", w)
	assert.Equal(t, "alice", cfg.Author)
	assert.Equal(t, source.Config{PollInterval: time.Second, FetchTimeout: 2 * time.Second}, cfg.Source)
	assert.Equal(t, overlay.Config{MatchWindow: 6 * time.Second, PositionTolerance: 0.5, GracePeriod: 5 * time.Second}, cfg.Overlay)
	assert.Equal(t, 4, cfg.RetryMaxAttempts)
	assert.Equal(t, 3*time.Second, cfg.WriteTimeout)
	assert.Equal(t, defaultSnapshotTimeout, cfg.SnapshotTimeout)
}

func TestBoard_OperationsBeforeStart(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newBoardFixture(t, ctrl)

	assert.ErrorIs(t, f.board.Compose(), ErrBoardNotStarted)
	assert.Equal(t, models.SourceIdle, f.board.Snapshot().Source.State)
	assert.Equal(t, testAuthor, f.board.Snapshot().Author)
}

func TestBoard_StartFetches(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newBoardFixture(t, ctrl)
	f.reader.EXPECT().FetchNotes(gomock.Any()).Return([]models.NoteRecord{
		{Index: 0, Content: "first", Color: "pink", Author: "bob"},
	}, nil)

	f.start(t)
	assert.ErrorIs(t, f.board.Start(context.Background()), ErrBoardStarted)

	snap := f.eventually(t, isReady, "source never became ready")
	require.Len(t, snap.Notes, 1)
	assert.Equal(t, "note-0", snap.Notes[0].ID)
	assert.Equal(t, models.ColorPink, snap.Notes[0].Color)
}

func TestBoard_HelloBlueScenario(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newBoardFixture(t, ctrl)

	gomock.InOrder(
		f.reader.EXPECT().FetchNotes(gomock.Any()).Return(nil, nil),
		f.reader.EXPECT().FetchNotes(gomock.Any()).Return([]models.NoteRecord{{
			ID:      "n1",
			Index:   0,
			Content: "hello",
			X:       100,
			Y:       50,
			Color:   "blue",
			Author:  testAuthor,
			Receipt: "0xbeef",
		}}, nil).MinTimes(1),
	)
	f.writer.EXPECT().SubmitNote(gomock.Any(), models.NoteDraft{
		Content: "hello",
		X:       100,
		Y:       50,
		Color:   models.ColorBlue,
		Author:  testAuthor,
	}).Return(models.Receipt("0xbeef"), nil)

	f.start(t)
	f.eventually(t, isReady, "initial fetch")

	require.NoError(t, f.board.Resize(models.Size{Width: 800, Height: 600}))
	require.NoError(t, f.board.Compose())
	require.NoError(t, f.board.SetDraft("hello", models.ColorBlue))
	require.NoError(t, f.board.ConfirmDraft())

	tempID, err := f.board.Place(models.Point{X: 100, Y: 50})
	require.NoError(t, err)
	assert.True(t, overlay.IsTempID(tempID))

	f.eventually(t, func(s models.BoardSnapshot) bool {
		return s.Workflow.State == models.WorkflowCommitted
	}, "write never committed")

	require.NoError(t, f.board.Refresh())

	snap := f.eventually(t, func(s models.BoardSnapshot) bool {
		return len(s.Notes) == 1 && !s.Notes[0].IsPending()
	}, "pending note never confirmed")
	assert.Equal(t, "n1", snap.Notes[0].ID)
	assert.Equal(t, models.Point{X: 100, Y: 50}, snap.Notes[0].Position)
	assert.Empty(t, snap.Pending)
}

func TestBoard_PlaceWhileWriting(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newBoardFixture(t, ctrl)
	entered := make(chan struct{})
	release := make(chan struct{})

	f.reader.EXPECT().FetchNotes(gomock.Any()).Return(nil, nil).AnyTimes()
	f.writer.EXPECT().SubmitNote(gomock.Any(), gomock.Any()).DoAndReturn(
		func(context.Context, models.NoteDraft) (models.Receipt, error) {
			close(entered)
			<-release
			return "0x01", nil
		},
	)

	f.start(t)
	require.NoError(t, f.board.Compose())
	require.NoError(t, f.board.SetDraft("busy", models.ColorYellow))
	require.NoError(t, f.board.ConfirmDraft())
	_, err := f.board.Place(models.Point{X: 1, Y: 1})
	require.NoError(t, err)

	// the pending note renders before the write returns
	snap := f.board.Snapshot()
	require.Len(t, snap.Notes, 1)
	assert.True(t, snap.Notes[0].IsPending())
	assert.Equal(t, models.WorkflowAwaitingWrite, snap.Workflow.State)

	assert.ErrorIs(t, f.board.Compose(), placement.ErrWriteInFlight)

	select {
	case <-entered:
	case <-time.After(waitFor):
		t.Fatal("write never submitted")
	}
	close(release)

	f.eventually(t, func(s models.BoardSnapshot) bool {
		return s.Workflow.State == models.WorkflowCommitted
	}, "write never committed")
}

func TestBoard_WriteFailureReverts(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newBoardFixture(t, ctrl)
	f.reader.EXPECT().FetchNotes(gomock.Any()).Return(nil, nil).AnyTimes()
	f.writer.EXPECT().SubmitNote(gomock.Any(), gomock.Any()).Return(models.Receipt(""), adapter.ErrRejected)

	f.start(t)
	require.NoError(t, f.board.Compose())
	require.NoError(t, f.board.SetDraft("doomed", models.ColorGreen))
	require.NoError(t, f.board.ConfirmDraft())
	_, err := f.board.Place(models.Point{X: 5, Y: 5})
	require.NoError(t, err)

	snap := f.eventually(t, func(s models.BoardSnapshot) bool {
		return s.Workflow.State == models.WorkflowWriteFailed
	}, "write never failed")
	assert.ErrorIs(t, snap.Workflow.LastErr, adapter.ErrRejected)
	assert.Empty(t, snap.Notes)
	assert.Empty(t, snap.Pending)
}

func TestBoard_WriteOutcomesArePublished(t *testing.T) {
	tests := []struct {
		name    string
		receipt models.Receipt
		err     error
		want    models.WorkflowState
		pending int
	}{
		{name: "committed", receipt: "0x01", want: models.WorkflowCommitted, pending: 1},
		{name: "failed", err: adapter.ErrRejected, want: models.WorkflowWriteFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			f := newBoardFixture(t, ctrl)
			f.reader.EXPECT().FetchNotes(gomock.Any()).Return(nil, nil).Times(1)
			f.writer.EXPECT().SubmitNote(gomock.Any(), gomock.Any()).Return(tt.receipt, tt.err)

			f.start(t)
			f.eventually(t, isReady, "initial fetch")

			updates := f.board.Subscribe(context.Background())
			require.NoError(t, f.board.Compose())
			require.NoError(t, f.board.SetDraft("outcome", models.ColorBlue))
			require.NoError(t, f.board.ConfirmDraft())
			_, err := f.board.Place(models.Point{X: 2, Y: 2})
			require.NoError(t, err)

			// nothing else touches the board; the write result alone must reach subscribers
			deadline := time.After(waitFor)
			for {
				select {
				case s := <-updates:
					if s.Workflow.State != tt.want {
						continue
					}
					assert.Len(t, s.Pending, tt.pending)
					assert.Len(t, s.Notes, tt.pending)
					return
				case <-deadline:
					t.Fatalf("workflow state %s never published", tt.want)
				}
			}
		})
	}
}

func TestBoard_BoundedRetry(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newBoardFixture(t, ctrl)
	f.reader.EXPECT().FetchNotes(gomock.Any()).Return(nil, adapter.ErrUnavailable).Times(3)

	f.start(t)

	snap := f.eventually(t, func(s models.BoardSnapshot) bool { return s.Source.Attempt == 1 && !s.Source.Fetching }, "first failure")
	assert.Equal(t, models.SourceFailed, snap.Source.State)
	assert.Equal(t, time.Second, snap.Source.NextDelay)

	f.clock.Advance(time.Second)
	snap = f.eventually(t, func(s models.BoardSnapshot) bool { return s.Source.Attempt == 2 && !s.Source.Fetching }, "second failure")
	assert.Equal(t, 2*time.Second, snap.Source.NextDelay)

	f.clock.Advance(2 * time.Second)
	snap = f.eventually(t, func(s models.BoardSnapshot) bool { return s.Source.Attempt == 3 && !s.Source.Fetching }, "third failure")
	assert.True(t, snap.Source.Exhausted)
	assert.Equal(t, 4*time.Second, snap.Source.NextDelay)
	assert.ErrorIs(t, snap.Source.LastErr, adapter.ErrUnavailable)
	assert.Empty(t, f.clock.Deadlines(), "no retry after exhaustion")
}

func confirmedNote() models.NoteRecord {
	return models.NoteRecord{ID: "a", Content: "x", Color: "blue", Author: "bob"}
}

func TestBoard_MoveNote(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newBoardFixture(t, ctrl)
	f.reader.EXPECT().FetchNotes(gomock.Any()).Return([]models.NoteRecord{confirmedNote()}, nil).AnyTimes()

	entered := make(chan struct{})
	release := make(chan struct{})
	f.mutator.EXPECT().MoveNote(gomock.Any(), "a", models.Point{X: 10, Y: 10}).DoAndReturn(
		func(context.Context, string, models.Point) error {
			close(entered)
			<-release
			return nil
		},
	)

	f.start(t)
	ready := f.eventually(t, isReady, "initial fetch")

	require.NoError(t, f.board.MoveNote("a", models.Point{X: 10, Y: 10}))

	snap := f.board.Snapshot()
	require.Len(t, snap.Notes, 1)
	assert.Equal(t, models.Point{X: 10, Y: 10}, snap.Notes[0].Position)
	require.Len(t, snap.Pending, 1)
	assert.Equal(t, models.PendingMove, snap.Pending[0].Kind)

	select {
	case <-entered:
	case <-time.After(waitFor):
		t.Fatal("move never submitted")
	}
	close(release)

	// a successful move refreshes; the ledger still reports the old position
	// here, so the override stays in place
	snap = f.eventually(t, func(s models.BoardSnapshot) bool {
		return isReady(s) && s.Source.FetchSeq > ready.Source.FetchSeq
	}, "refresh after move")
	assert.NoError(t, snap.MutationErr)
	require.Len(t, snap.Pending, 1)
	assert.Equal(t, models.Point{X: 10, Y: 10}, snap.Notes[0].Position)
}

func TestBoard_StaleMutationFailureKeepsLatest(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newBoardFixture(t, ctrl)
	f.reader.EXPECT().FetchNotes(gomock.Any()).Return([]models.NoteRecord{confirmedNote()}, nil).AnyTimes()

	firstEntered := make(chan struct{})
	releaseFirst := make(chan struct{})
	thirdEntered := make(chan struct{})
	releaseThird := make(chan struct{})
	defer close(releaseThird)

	gomock.InOrder(
		f.mutator.EXPECT().MoveNote(gomock.Any(), "a", models.Point{X: 10, Y: 10}).DoAndReturn(
			func(context.Context, string, models.Point) error {
				close(firstEntered)
				<-releaseFirst
				return adapter.ErrRejected
			},
		),
		f.mutator.EXPECT().MoveNote(gomock.Any(), "a", models.Point{X: 20, Y: 20}).Return(nil),
		f.mutator.EXPECT().MoveNote(gomock.Any(), "a", models.Point{X: 30, Y: 30}).DoAndReturn(
			func(context.Context, string, models.Point) error {
				close(thirdEntered)
				<-releaseThird
				return nil
			},
		),
	)

	f.start(t)
	ready := f.eventually(t, isReady, "initial fetch")

	require.NoError(t, f.board.MoveNote("a", models.Point{X: 10, Y: 10}))
	<-firstEntered

	require.NoError(t, f.board.MoveNote("a", models.Point{X: 20, Y: 20}))
	// the second move completes and clears its bookkeeping
	f.eventually(t, func(s models.BoardSnapshot) bool {
		return s.Source.FetchSeq > ready.Source.FetchSeq
	}, "refresh after second move")

	require.NoError(t, f.board.MoveNote("a", models.Point{X: 30, Y: 30}))
	<-thirdEntered

	// the first move fails late; the third is still in flight and owns the note
	close(releaseFirst)
	require.Never(t, func() bool {
		s := f.board.Snapshot()
		return s.MutationErr != nil || s.Notes[0].Position != (models.Point{X: 30, Y: 30})
	}, 100*time.Millisecond, tick, "a superseded failure must not roll back the latest move")

	snap := f.board.Snapshot()
	assert.NoError(t, snap.MutationErr)
	assert.Equal(t, models.Point{X: 30, Y: 30}, snap.Notes[0].Position)
}

func TestBoard_MoveNoteFailureRollsBack(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newBoardFixture(t, ctrl)
	f.reader.EXPECT().FetchNotes(gomock.Any()).Return([]models.NoteRecord{confirmedNote()}, nil).AnyTimes()
	f.mutator.EXPECT().MoveNote(gomock.Any(), "a", gomock.Any()).Return(adapter.ErrRejected)

	f.start(t)
	f.eventually(t, isReady, "initial fetch")

	require.NoError(t, f.board.MoveNote("a", models.Point{X: 10, Y: 10}))

	snap := f.eventually(t, func(s models.BoardSnapshot) bool { return s.MutationErr != nil }, "move never failed")
	assert.ErrorIs(t, snap.MutationErr, adapter.ErrRejected)
	assert.Equal(t, models.Point{}, snap.Notes[0].Position)
	assert.Empty(t, snap.Pending)
}

func TestBoard_MoveNoteRejections(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newBoardFixture(t, ctrl)
	f.reader.EXPECT().FetchNotes(gomock.Any()).Return([]models.NoteRecord{confirmedNote()}, nil).AnyTimes()

	f.start(t)
	f.eventually(t, isReady, "initial fetch")

	assert.ErrorIs(t, f.board.MoveNote(overlay.TempIDPrefix+"1", models.Point{}), ErrPendingNote)
	assert.ErrorIs(t, f.board.MoveNote("missing", models.Point{}), ErrUnknownNote)
	assert.ErrorIs(t, f.board.DeleteNote("missing"), ErrUnknownNote)
}

func TestBoard_DeleteNote(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newBoardFixture(t, ctrl)
	gomock.InOrder(
		f.reader.EXPECT().FetchNotes(gomock.Any()).Return([]models.NoteRecord{confirmedNote()}, nil),
		f.reader.EXPECT().FetchNotes(gomock.Any()).Return(nil, nil).AnyTimes(),
	)
	f.mutator.EXPECT().DeleteNote(gomock.Any(), "a").Return(nil)

	f.start(t)
	f.eventually(t, isReady, "initial fetch")

	require.NoError(t, f.board.DeleteNote("a"))
	assert.Empty(t, f.board.Snapshot().Notes, "deleted note is hidden right away")

	snap := f.eventually(t, func(s models.BoardSnapshot) bool {
		return isReady(s) && len(s.Source.Notes) == 0
	}, "refresh after delete")
	assert.Empty(t, snap.Notes)
	assert.Empty(t, snap.Pending, "hide is superseded once the note is gone")
}

func TestBoard_ReconcilesEveryFetchAtTheSameInstant(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// the manual clock never moves, so both fetches share one timestamp
	f := newBoardFixture(t, ctrl)
	gomock.InOrder(
		f.reader.EXPECT().FetchNotes(gomock.Any()).Return([]models.NoteRecord{confirmedNote()}, nil),
		f.reader.EXPECT().FetchNotes(gomock.Any()).Return(nil, nil),
	)
	f.mutator.EXPECT().DeleteNote(gomock.Any(), "a").Return(nil)

	f.start(t)
	first := f.eventually(t, isReady, "initial fetch")

	require.NoError(t, f.board.DeleteNote("a"))

	snap := f.eventually(t, func(s models.BoardSnapshot) bool {
		return s.Source.FetchSeq == first.Source.FetchSeq+1
	}, "refresh after delete")
	assert.True(t, snap.Source.FetchedAt.Equal(first.Source.FetchedAt))
	assert.Empty(t, snap.Pending, "the second fetch is reconciled")
}

func TestBoard_StartWithCancelledContext(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mock.NewMockSnapshotRepository(ctrl)
	f := newBoardFixture(t, ctrl, withSnapshots(repo))
	repo.EXPECT().LoadSnapshot(gomock.Any()).Return(nil, time.Time{}, nil).AnyTimes()
	repo.EXPECT().SaveSnapshot(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.reader.EXPECT().FetchNotes(gomock.Any()).Return(nil, nil).AnyTimes()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := f.board.Start(ctx)
	if err != nil {
		assert.ErrorIs(t, err, ErrBoardClosed)
	}

	require.Eventually(t, func() bool {
		return errors.Is(f.board.Refresh(), ErrBoardClosed)
	}, waitFor, tick)
	f.board.Close()
}

func TestBoard_MutationsUnsupported(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newBoardFixture(t, ctrl, withoutMutator())

	assert.ErrorIs(t, f.board.MoveNote("a", models.Point{}), ErrMutationUnsupported)
	assert.ErrorIs(t, f.board.DeleteNote("a"), ErrMutationUnsupported)
}

func TestBoard_ViewportOperations(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newBoardFixture(t, ctrl)
	f.reader.EXPECT().FetchNotes(gomock.Any()).Return(nil, nil).AnyTimes()
	f.writer.EXPECT().SubmitNote(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, d models.NoteDraft) (models.Receipt, error) {
			// screen (200,100) with offset (50,0) and zoom 2
			assert.Equal(t, 75.0, d.X)
			assert.Equal(t, 50.0, d.Y)
			return "0x01", nil
		},
	)

	f.start(t)
	require.NoError(t, f.board.Zoom(models.Point{}, 2))
	require.NoError(t, f.board.Pan(models.Point{X: 50}))
	assert.Equal(t, models.Viewport{Offset: models.Point{X: 50}, Zoom: 2}, f.board.Snapshot().Viewport)

	// out of range factors are ignored
	require.NoError(t, f.board.Zoom(models.Point{}, -1))
	assert.Equal(t, 2.0, f.board.Snapshot().Viewport.Zoom)

	require.NoError(t, f.board.Compose())
	require.NoError(t, f.board.SetDraft("zoomed", models.ColorPink))
	require.NoError(t, f.board.ConfirmDraft())
	_, err := f.board.Place(models.Point{X: 200, Y: 100})
	require.NoError(t, err)

	f.eventually(t, func(s models.BoardSnapshot) bool {
		return s.Workflow.State == models.WorkflowCommitted
	}, "write never committed")
}

func TestBoard_SeedsFromCacheAndSaves(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mock.NewMockSnapshotRepository(ctrl)
	f := newBoardFixture(t, ctrl, withSnapshots(repo))

	cached := []models.Note{{ID: "old", Content: "cached", Color: models.ColorYellow}}
	release := make(chan struct{})
	saved := make(chan []models.Note, 1)

	repo.EXPECT().LoadSnapshot(gomock.Any()).Return(cached, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), nil)
	f.reader.EXPECT().FetchNotes(gomock.Any()).DoAndReturn(
		func(ctx context.Context) ([]models.NoteRecord, error) {
			select {
			case <-release:
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			return []models.NoteRecord{{ID: "new", Content: "fresh", Color: "green"}}, nil
		},
	)
	repo.EXPECT().SaveSnapshot(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, notes []models.Note, _ time.Time) error {
			saved <- notes
			return nil
		},
	)

	f.start(t)

	snap := f.eventually(t, func(s models.BoardSnapshot) bool { return s.Source.Stale }, "cache never seeded")
	require.Len(t, snap.Notes, 1)
	assert.Equal(t, "old", snap.Notes[0].ID)

	close(release)
	snap = f.eventually(t, func(s models.BoardSnapshot) bool { return isReady(s) && !s.Source.Stale }, "fetch never completed")
	require.Len(t, snap.Notes, 1)
	assert.Equal(t, "new", snap.Notes[0].ID)

	select {
	case notes := <-saved:
		require.Len(t, notes, 1)
		assert.Equal(t, "new", notes[0].ID)
	case <-time.After(waitFor):
		t.Fatal("snapshot never saved")
	}
}

func TestBoard_CacheErrorIsNotFatal(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mock.NewMockSnapshotRepository(ctrl)
	f := newBoardFixture(t, ctrl, withSnapshots(repo))

	repo.EXPECT().LoadSnapshot(gomock.Any()).Return(nil, time.Time{}, errors.New("disk full"))
	repo.EXPECT().SaveSnapshot(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("disk full")).AnyTimes()
	f.reader.EXPECT().FetchNotes(gomock.Any()).Return(nil, nil).AnyTimes()

	f.start(t)
	f.eventually(t, isReady, "board must work without its cache")
}

func TestBoard_NotifyTriggersFetch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newBoardFixture(t, ctrl)
	gomock.InOrder(
		f.reader.EXPECT().FetchNotes(gomock.Any()).Return(nil, nil),
		f.reader.EXPECT().FetchNotes(gomock.Any()).Return([]models.NoteRecord{confirmedNote()}, nil),
	)

	f.start(t)
	f.eventually(t, isReady, "initial fetch")

	f.board.Notify()
	f.eventually(t, func(s models.BoardSnapshot) bool { return len(s.Notes) == 1 }, "notification fetch")
}

func TestBoard_SubscribeAndClose(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newBoardFixture(t, ctrl)
	f.reader.EXPECT().FetchNotes(gomock.Any()).Return(nil, nil).AnyTimes()

	ch := f.board.Subscribe(context.Background())
	first := <-ch
	assert.Equal(t, models.SourceIdle, first.Source.State)

	f.start(t)
	require.NoError(t, f.board.Pan(models.Point{X: 3}))

	require.Eventually(t, func() bool {
		select {
		case s := <-ch:
			return s.Viewport.Offset.X == 3
		default:
			return false
		}
	}, waitFor, tick)

	f.board.Close()
	f.board.Close()

	require.Eventually(t, func() bool {
		for {
			select {
			case _, ok := <-ch:
				if !ok {
					return true
				}
			default:
				return false
			}
		}
	}, waitFor, tick, "subscription must close with the board")

	assert.ErrorIs(t, f.board.Refresh(), ErrBoardClosed)
	assert.Equal(t, models.SourceStopped, f.board.Snapshot().Source.State)
}

func TestBoard_ClosesWithParentContext(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newBoardFixture(t, ctrl)
	f.reader.EXPECT().FetchNotes(gomock.Any()).Return(nil, nil).AnyTimes()

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, f.board.Start(ctx))
	cancel()

	require.Eventually(t, func() bool {
		return errors.Is(f.board.Refresh(), ErrBoardClosed)
	}, waitFor, tick)
}

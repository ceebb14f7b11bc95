package source

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/MKhiriev/sticky-chain/internal/logger"
	"github.com/MKhiriev/sticky-chain/internal/retry"
	"github.com/MKhiriev/sticky-chain/internal/scheduler"
	"github.com/MKhiriev/sticky-chain/internal/scheduler/schedulertest"
	"github.com/MKhiriev/sticky-chain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errNetwork = errors.New("connection reset")

type fetchResult struct {
	records []models.NoteRecord
	err     error
}

// scriptedReader отдаёт заранее заданные ответы по очереди.
type scriptedReader struct {
	mu      sync.Mutex
	results []fetchResult
	calls   int
	ctxs    []context.Context
}

func (r *scriptedReader) FetchNotes(ctx context.Context) ([]models.NoteRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	r.ctxs = append(r.ctxs, ctx)
	if len(r.results) == 0 {
		return nil, nil
	}
	res := r.results[0]
	r.results = r.results[1:]
	return res.records, res.err
}

func (r *scriptedReader) push(res ...fetchResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, res...)
}

func (r *scriptedReader) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

type harness struct {
	src    *Source
	reader *scriptedReader
	clock  *schedulertest.Clock
	queue  *schedulertest.Queue
	timers *scheduler.Scheduler
}

const baseDelay = 100 * time.Millisecond

func newHarness(t *testing.T, cfg Config, maxAttempts int) *harness {
	t.Helper()

	clock := schedulertest.NewClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	queue := &schedulertest.Queue{}
	timers := scheduler.New(clock, queue)
	policy, err := retry.NewPolicy(maxAttempts, baseDelay, 10*time.Second)
	require.NoError(t, err)

	reader := &scriptedReader{}
	// fetches run inline; their completion is queued like real I/O
	src, err := New(cfg, reader, queue, timers, policy, func(fn func()) { fn() }, logger.Nop())
	require.NoError(t, err)

	return &harness{src: src, reader: reader, clock: clock, queue: queue, timers: timers}
}

func (h *harness) advance(d time.Duration) {
	h.clock.Advance(d)
	h.queue.Drain()
}

func TestNew_Validation(t *testing.T) {
	policy, err := retry.NewPolicy(1, time.Second, time.Second)
	require.NoError(t, err)
	q := &schedulertest.Queue{}

	_, err = New(Config{}, nil, q, nil, policy, nil, logger.Nop())
	assert.ErrorIs(t, err, ErrNoReader)

	_, err = New(Config{PollInterval: -1}, &scriptedReader{}, q, nil, policy, nil, logger.Nop())
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = New(Config{}, &scriptedReader{}, q, nil, nil, nil, logger.Nop())
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestSource_StartFetchesAndConverts(t *testing.T) {
	h := newHarness(t, Config{}, 3)
	ts := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	h.reader.push(fetchResult{records: []models.NoteRecord{
		{Index: 0, Content: "gm", X: 10, Y: -4, Color: "PINK", Author: "0xabc", Timestamp: ts},
		{ID: "srv-7", Index: 1, Content: "odd", Color: "magenta", Author: "bob", Receipt: "0xfeed"},
	}})

	var updates []models.SourceStatus
	h.src.OnUpdate(func(st models.SourceStatus) { updates = append(updates, st) })

	require.NoError(t, h.src.Start(context.Background()))
	st := h.src.Status()
	assert.Equal(t, models.SourceFetching, st.State)
	assert.True(t, st.Fetching)

	h.queue.Drain()
	st = h.src.Status()
	assert.Equal(t, models.SourceReady, st.State)
	assert.False(t, st.Fetching)
	assert.NoError(t, st.LastErr)
	assert.Equal(t, h.clock.Now(), st.FetchedAt)
	assert.Equal(t, uint64(1), st.FetchSeq)

	require.Len(t, st.Notes, 2)
	assert.Equal(t, models.Note{
		ID:        "note-0",
		Content:   "gm",
		Position:  models.Point{X: 10, Y: -4},
		Author:    "0xabc",
		Color:     models.ColorPink,
		Timestamp: ts,
		Origin:    models.OriginConfirmed,
	}, st.Notes[0])
	assert.Equal(t, "srv-7", st.Notes[1].ID)
	assert.Equal(t, models.DefaultColor, st.Notes[1].Color)
	assert.Equal(t, models.Receipt("0xfeed"), st.Notes[1].Receipt)

	require.Len(t, updates, 2)
	assert.Equal(t, models.SourceFetching, updates[0].State)
	assert.Equal(t, models.SourceReady, updates[1].State)

	// a second Start is a no-op
	require.NoError(t, h.src.Start(context.Background()))
	assert.Equal(t, 1, h.reader.Calls())
}

func TestSource_FetchSeqAdvancesWithoutClock(t *testing.T) {
	h := newHarness(t, Config{}, 3)
	h.reader.push(fetchResult{}, fetchResult{})

	require.NoError(t, h.src.Start(context.Background()))
	h.queue.Drain()
	first := h.src.Status()

	h.src.Trigger(TriggerRefresh)
	h.queue.Drain()
	second := h.src.Status()

	assert.Equal(t, first.FetchedAt, second.FetchedAt, "the clock did not move")
	assert.Equal(t, first.FetchSeq+1, second.FetchSeq)
}

func TestSource_BoundedRetry(t *testing.T) {
	h := newHarness(t, Config{}, 3)
	h.reader.push(
		fetchResult{err: errNetwork},
		fetchResult{err: errNetwork},
		fetchResult{err: errNetwork},
	)

	require.NoError(t, h.src.Start(context.Background()))
	h.queue.Drain()

	st := h.src.Status()
	assert.Equal(t, models.SourceFailed, st.State)
	assert.ErrorIs(t, st.LastErr, errNetwork)
	assert.Equal(t, 1, st.Attempt)
	assert.False(t, st.Exhausted)
	assert.Equal(t, []time.Duration{baseDelay}, h.clock.Deadlines())

	h.advance(baseDelay)
	assert.Equal(t, 2, h.reader.Calls())
	assert.Equal(t, []time.Duration{2 * baseDelay}, h.clock.Deadlines())

	h.advance(2 * baseDelay)
	assert.Equal(t, 3, h.reader.Calls())

	st = h.src.Status()
	assert.Equal(t, models.SourceFailed, st.State)
	assert.True(t, st.Exhausted)
	assert.Equal(t, 3, st.Attempt)
	assert.Equal(t, 4*baseDelay, st.NextDelay)
	assert.Empty(t, h.clock.Deadlines())

	// nothing fetches again on its own
	h.advance(time.Hour)
	assert.Equal(t, 3, h.reader.Calls())

	// an explicit trigger resets the counter
	h.src.Trigger(TriggerRefresh)
	h.queue.Drain()
	assert.Equal(t, 4, h.reader.Calls())
	st = h.src.Status()
	assert.Equal(t, models.SourceReady, st.State)
	assert.Zero(t, st.Attempt)
	assert.False(t, st.Exhausted)
}

func TestSource_PollResetsAttempts(t *testing.T) {
	h := newHarness(t, Config{PollInterval: time.Minute}, 1)
	h.reader.push(fetchResult{err: errNetwork}, fetchResult{err: errNetwork})

	require.NoError(t, h.src.Start(context.Background()))
	h.queue.Drain()
	require.True(t, h.src.Status().Exhausted)

	h.advance(time.Minute)
	assert.Equal(t, 2, h.reader.Calls())
	st := h.src.Status()
	assert.Equal(t, 1, st.Attempt)
	assert.True(t, st.Exhausted)

	h.advance(time.Minute)
	assert.Equal(t, 3, h.reader.Calls())
	assert.Equal(t, models.SourceReady, h.src.Status().State)
}

func TestSource_Polling(t *testing.T) {
	h := newHarness(t, Config{PollInterval: 30 * time.Second}, 3)
	require.NoError(t, h.src.Start(context.Background()))
	h.queue.Drain()
	assert.Equal(t, 1, h.reader.Calls())

	h.advance(29 * time.Second)
	assert.Equal(t, 1, h.reader.Calls())

	h.advance(time.Second)
	assert.Equal(t, 2, h.reader.Calls())

	h.advance(30 * time.Second)
	assert.Equal(t, 3, h.reader.Calls())
	assert.Equal(t, 1, h.timers.Pending())
}

func TestSource_CoalescesTriggers(t *testing.T) {
	h := newHarness(t, Config{}, 3)
	require.NoError(t, h.src.Start(context.Background()))
	require.True(t, h.src.Status().Fetching)

	// several triggers while the first fetch is in flight
	h.src.Trigger(TriggerPoll)
	h.src.Trigger(TriggerNotification)
	h.src.Trigger(TriggerNotification)
	h.src.Trigger(TriggerRefresh)
	assert.Equal(t, 1, h.reader.Calls())

	h.queue.Drain()
	// exactly one follow-up fetch
	assert.Equal(t, 2, h.reader.Calls())
	assert.False(t, h.src.Status().Fetching)
}

func TestSource_PollDuringFetchIsDropped(t *testing.T) {
	h := newHarness(t, Config{}, 3)
	require.NoError(t, h.src.Start(context.Background()))

	h.src.Trigger(TriggerPoll)
	h.queue.Drain()
	assert.Equal(t, 1, h.reader.Calls())
}

func TestSource_RerunAfterFailureCancelsRetry(t *testing.T) {
	h := newHarness(t, Config{}, 3)
	h.reader.push(fetchResult{err: errNetwork})
	require.NoError(t, h.src.Start(context.Background()))

	h.src.Trigger(TriggerNotification)
	h.queue.Drain()

	assert.Equal(t, 2, h.reader.Calls())
	assert.Equal(t, models.SourceReady, h.src.Status().State)
	assert.Zero(t, h.timers.Pending())
}

func TestSource_TriggerBeforeStartIsIgnored(t *testing.T) {
	h := newHarness(t, Config{}, 3)
	h.src.Trigger(TriggerRefresh)
	h.queue.Drain()
	assert.Zero(t, h.reader.Calls())
	assert.Equal(t, models.SourceIdle, h.src.Status().State)
}

func TestSource_Seed(t *testing.T) {
	h := newHarness(t, Config{}, 3)
	cached := []models.Note{{ID: "note-0", Content: "cached", Color: models.ColorGreen}}

	h.src.Seed(cached)
	st := h.src.Status()
	assert.True(t, st.Stale)
	assert.Equal(t, cached, st.Notes)

	h.reader.push(fetchResult{records: []models.NoteRecord{{Index: 0, Content: "fresh", Color: "green"}}})
	require.NoError(t, h.src.Start(context.Background()))
	h.queue.Drain()

	st = h.src.Status()
	assert.False(t, st.Stale)
	assert.Equal(t, "fresh", st.Notes[0].Content)

	// seeding after a successful fetch is ignored
	h.src.Seed(cached)
	assert.Equal(t, "fresh", h.src.Status().Notes[0].Content)
}

func TestSource_FailureKeepsLastKnownNotes(t *testing.T) {
	h := newHarness(t, Config{}, 3)
	h.reader.push(
		fetchResult{records: []models.NoteRecord{{Index: 0, Content: "kept", Color: "blue"}}},
		fetchResult{err: errNetwork},
	)
	require.NoError(t, h.src.Start(context.Background()))
	h.queue.Drain()

	h.src.Trigger(TriggerRefresh)
	h.queue.Drain()

	st := h.src.Status()
	assert.Equal(t, models.SourceFailed, st.State)
	require.Len(t, st.Notes, 1)
	assert.Equal(t, "kept", st.Notes[0].Content)
}

func TestSource_Shutdown(t *testing.T) {
	h := newHarness(t, Config{PollInterval: time.Minute}, 3)
	h.reader.push(fetchResult{err: errNetwork})
	require.NoError(t, h.src.Start(context.Background()))

	// the failed fetch completes after shutdown and must be ignored
	h.src.Shutdown()
	h.queue.Drain()

	st := h.src.Status()
	assert.Equal(t, models.SourceStopped, st.State)
	assert.NoError(t, st.LastErr)
	assert.Zero(t, h.timers.Pending())

	require.Len(t, h.reader.ctxs, 1)
	assert.ErrorIs(t, h.reader.ctxs[0].Err(), context.Canceled)

	h.src.Trigger(TriggerRefresh)
	h.advance(time.Hour)
	assert.Equal(t, 1, h.reader.Calls())
	assert.ErrorIs(t, h.src.Start(context.Background()), ErrStopped)
}

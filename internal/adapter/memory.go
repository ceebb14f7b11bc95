package adapter

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/MKhiriev/sticky-chain/internal/config"
	"github.com/MKhiriev/sticky-chain/internal/utils"
	"github.com/MKhiriev/sticky-chain/models"
)

// MemoryLedger is an in-process ledger for demos and tests. Every call
// waits for the configured latency; with FailEvery > 0 every n-th write
// is rejected.
type MemoryLedger struct {
	mu      sync.Mutex
	records []models.NoteRecord
	writes  int
	subs    map[chan struct{}]struct{}

	latency   time.Duration
	failEvery int
	ids       *utils.UUIDGenerator
	now       func() time.Time
}

func NewMemoryLedger(cfg config.Memory) *MemoryLedger {
	return &MemoryLedger{
		subs:      make(map[chan struct{}]struct{}),
		latency:   cfg.Latency,
		failEvery: cfg.FailEvery,
		ids:       utils.NewUUIDGenerator(),
		now:       time.Now,
	}
}

// FetchNotes implements [NoteReader].
func (m *MemoryLedger) FetchNotes(ctx context.Context) ([]models.NoteRecord, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.NoteRecord(nil), m.records...), nil
}

// SubmitNote implements [NoteWriter].
func (m *MemoryLedger) SubmitNote(ctx context.Context, draft models.NoteDraft) (models.Receipt, error) {
	if err := m.wait(ctx); err != nil {
		return "", err
	}

	m.mu.Lock()
	m.writes++
	if m.failEvery > 0 && m.writes%m.failEvery == 0 {
		m.mu.Unlock()
		return "", fmt.Errorf("%w: simulated write failure #%d", ErrRejected, m.writes)
	}

	id, ts := m.ids.Generate(), m.now().UTC()
	receipt := models.ComputeReceipt(id, draft, ts)
	m.records = append(m.records, models.NoteRecord{
		ID:        id,
		Index:     int64(len(m.records)),
		Content:   draft.Content,
		X:         draft.X,
		Y:         draft.Y,
		Color:     string(draft.Color),
		Author:    draft.Author,
		Timestamp: ts,
		Receipt:   string(receipt),
	})
	m.broadcastLocked()
	m.mu.Unlock()

	return receipt, nil
}

// MoveNote implements [NoteMutator].
func (m *MemoryLedger) MoveNote(ctx context.Context, id string, to models.Point) error {
	if err := m.wait(ctx); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.indexLocked(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	m.records[i].X, m.records[i].Y = to.X, to.Y
	m.broadcastLocked()
	return nil
}

// DeleteNote implements [NoteMutator].
func (m *MemoryLedger) DeleteNote(ctx context.Context, id string) error {
	if err := m.wait(ctx); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.indexLocked(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	m.records = append(m.records[:i], m.records[i+1:]...)
	m.broadcastLocked()
	return nil
}

// Subscribe implements [ChangeNotifier]. The channel is closed when ctx ends.
func (m *MemoryLedger) Subscribe(ctx context.Context) (<-chan struct{}, error) {
	ch := make(chan struct{}, 1)

	m.mu.Lock()
	m.subs[ch] = struct{}{}
	m.mu.Unlock()

	go func() {
		<-ctx.Done()
		m.mu.Lock()
		delete(m.subs, ch)
		close(ch)
		m.mu.Unlock()
	}()
	return ch, nil
}

func (m *MemoryLedger) wait(ctx context.Context) error {
	if m.latency <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(m.latency)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (m *MemoryLedger) indexLocked(id string) int {
	for i, r := range m.records {
		if r.ID == id {
			return i
		}
	}
	return -1
}

func (m *MemoryLedger) broadcastLocked() {
	for ch := range m.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

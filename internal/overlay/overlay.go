// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package overlay keeps local edits that the authoritative ledger has not
// confirmed yet, and derives the rendered note set from both sources.
//
// Three kinds of entries exist. A pending create is a note written locally
// whose authoritative id is unknown. A pending move is a position override
// of a confirmed note. A pending delete hides a confirmed note. Reconcile
// retires entries the authoritative set already reflects. Rendered merges
// without mutating anything.
//
// An Overlay is not safe for concurrent use; the board drives it from its
// event loop.
package overlay

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/MKhiriev/sticky-chain/internal/logger"
	"github.com/MKhiriev/sticky-chain/models"
)

// TempIDPrefix marks ids that were assigned locally.
const TempIDPrefix = "pending-"

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// IDGenerator returns unique identifiers.
type IDGenerator interface {
	Generate() string
}

// Result reports the outcome of one Reconcile pass.
type Result struct {
	// Confirmed maps retired temporary ids to the authoritative note id.
	Confirmed map[string]string
	// StillPending lists pending creates that remain unmatched, in creation order.
	StillPending []string
	// Stale lists the subset of StillPending that is past the grace period.
	Stale []string
	// Superseded lists confirmed note ids whose move or delete is now reflected.
	Superseded []string
}

type pendingCreate struct {
	note      models.Note
	createdAt time.Time
	stale     bool
}

type pendingMutation struct {
	kind  models.PendingKind
	to    models.Point
	since time.Time
	stale bool
}

type Overlay struct {
	cfg   Config
	clock Clock
	ids   IDGenerator

	creates   []*pendingCreate
	mutations map[string]*pendingMutation
	// claimed holds authoritative ids that already confirmed a pending create,
	// so a second pass cannot hand the same note to another entry.
	claimed map[string]struct{}

	logger *logger.Logger
}

// New returns an empty overlay.
func New(cfg Config, clock Clock, ids IDGenerator, log *logger.Logger) (*Overlay, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Overlay{
		cfg:       cfg,
		clock:     clock,
		ids:       ids,
		mutations: make(map[string]*pendingMutation),
		claimed:   make(map[string]struct{}),
		logger:    log,
	}, nil
}

// AddPending inserts note as a pending create and returns its temporary id.
func (o *Overlay) AddPending(note models.Note) string {
	note.ID = TempIDPrefix + o.ids.Generate()
	note.Origin = models.OriginPending
	note.Author = strings.TrimSpace(note.Author)
	if note.Timestamp.IsZero() {
		note.Timestamp = o.clock.Now()
	}

	o.creates = append(o.creates, &pendingCreate{note: note, createdAt: note.Timestamp})
	return note.ID
}

// AttachReceipt records the write receipt of a pending create. Once the
// authoritative set carries the same receipt the entry is confirmed exactly.
func (o *Overlay) AttachReceipt(tempID string, receipt models.Receipt) error {
	pc := o.find(tempID)
	if pc == nil {
		return ErrUnknownPending
	}
	pc.note.Receipt = receipt
	return nil
}

// Discard removes a pending create. It reports whether the entry existed,
// so discarding twice is harmless.
func (o *Overlay) Discard(tempID string) bool {
	for i, pc := range o.creates {
		if pc.note.ID == tempID {
			o.creates = append(o.creates[:i], o.creates[i+1:]...)
			return true
		}
	}
	return false
}

// Move overrides the rendered position of a confirmed note until the
// authoritative set reflects it.
func (o *Overlay) Move(noteID string, to models.Point) error {
	if IsTempID(noteID) {
		return ErrPendingNote
	}
	o.mutations[noteID] = &pendingMutation{kind: models.PendingMove, to: to, since: o.clock.Now()}
	return nil
}

// Hide removes a confirmed note from the rendered set until the
// authoritative set no longer contains it.
func (o *Overlay) Hide(noteID string) error {
	if IsTempID(noteID) {
		return ErrPendingNote
	}
	o.mutations[noteID] = &pendingMutation{kind: models.PendingDelete, since: o.clock.Now()}
	return nil
}

// Revert drops a pending move or delete, typically after the remote
// mutation failed.
func (o *Overlay) Revert(noteID string) bool {
	if _, ok := o.mutations[noteID]; !ok {
		return false
	}
	delete(o.mutations, noteID)
	return true
}

// Reconcile retires every entry that authoritative already represents.
// Running it twice with the same authoritative set changes nothing the
// second time.
func (o *Overlay) Reconcile(authoritative []models.Note) Result {
	now := o.clock.Now()
	res := Result{Confirmed: make(map[string]string)}

	matches := o.match(authoritative)

	kept := o.creates[:0]
	for _, pc := range o.creates {
		if authID, ok := matches[pc.note.ID]; ok {
			res.Confirmed[pc.note.ID] = authID
			o.claimed[authID] = struct{}{}
			continue
		}

		pc.stale = now.Sub(pc.createdAt) > o.cfg.GracePeriod
		if pc.stale {
			res.Stale = append(res.Stale, pc.note.ID)
			o.logger.Warn().
				Str("func", "Overlay.Reconcile").
				Str("temp_id", pc.note.ID).
				Dur("age", now.Sub(pc.createdAt)).
				Msg("pending note still unconfirmed after grace period")
		}
		res.StillPending = append(res.StillPending, pc.note.ID)
		kept = append(kept, pc)
	}
	for i := len(kept); i < len(o.creates); i++ {
		o.creates[i] = nil
	}
	o.creates = kept

	byID := indexByID(authoritative)
	for noteID, m := range o.mutations {
		auth, present := byID[noteID]
		superseded := !present
		if m.kind == models.PendingMove && present {
			superseded = o.near(auth.Position, m.to)
		}
		if superseded {
			delete(o.mutations, noteID)
			res.Superseded = append(res.Superseded, noteID)
			continue
		}
		m.stale = now.Sub(m.since) > o.cfg.GracePeriod
	}
	sort.Strings(res.Superseded)

	// ids that left the authoritative set can no longer be claimed
	for id := range o.claimed {
		if _, ok := byID[id]; !ok {
			delete(o.claimed, id)
		}
	}

	return res
}

// Rendered merges authoritative with the overlay. Pending creates that
// would already match an authoritative note are left out so a confirmed
// note never appears twice. The overlay is not modified.
func (o *Overlay) Rendered(authoritative []models.Note) []models.Note {
	matches := o.match(authoritative)

	out := make([]models.Note, 0, len(authoritative)+len(o.creates))
	seen := make(map[string]struct{}, cap(out))

	for _, n := range authoritative {
		if _, dup := seen[n.ID]; dup {
			continue
		}
		if m, ok := o.mutations[n.ID]; ok {
			if m.kind == models.PendingDelete {
				continue
			}
			n.Position = m.to
		}
		seen[n.ID] = struct{}{}
		out = append(out, n)
	}

	for _, pc := range o.creates {
		if _, matched := matches[pc.note.ID]; matched {
			continue
		}
		if _, dup := seen[pc.note.ID]; dup {
			continue
		}
		seen[pc.note.ID] = struct{}{}
		out = append(out, pc.note)
	}
	return out
}

// Pending describes every overlay entry: creates in creation order,
// then mutations ordered by age.
func (o *Overlay) Pending() []models.PendingInfo {
	out := make([]models.PendingInfo, 0, len(o.creates)+len(o.mutations))
	for _, pc := range o.creates {
		out = append(out, models.PendingInfo{
			ID:    pc.note.ID,
			Kind:  models.PendingCreate,
			Since: pc.createdAt,
			Stale: pc.stale,
		})
	}

	muts := make([]models.PendingInfo, 0, len(o.mutations))
	for id, m := range o.mutations {
		muts = append(muts, models.PendingInfo{ID: id, Kind: m.kind, Since: m.since, Stale: m.stale})
	}
	sort.Slice(muts, func(i, j int) bool {
		if muts[i].Since.Equal(muts[j].Since) {
			return muts[i].ID < muts[j].ID
		}
		return muts[i].Since.Before(muts[j].Since)
	})
	return append(out, muts...)
}

// Note returns the pending create with tempID.
func (o *Overlay) Note(tempID string) (models.Note, bool) {
	if pc := o.find(tempID); pc != nil {
		return pc.note, true
	}
	return models.Note{}, false
}

// Len returns the number of overlay entries of all kinds.
func (o *Overlay) Len() int {
	return len(o.creates) + len(o.mutations)
}

// IsTempID reports whether id was assigned by AddPending.
func IsTempID(id string) bool {
	return strings.HasPrefix(id, TempIDPrefix)
}

// match pairs pending creates with unclaimed authoritative notes.
// Receipts are exact and take precedence. The heuristic only runs for
// entries a receipt did not resolve. Each authoritative note is used once.
func (o *Overlay) match(authoritative []models.Note) map[string]string {
	matches := make(map[string]string)
	used := make(map[string]struct{}, len(o.claimed))
	for id := range o.claimed {
		used[id] = struct{}{}
	}

	for _, pc := range o.creates {
		if pc.note.Receipt == "" {
			continue
		}
		for _, a := range authoritative {
			if _, taken := used[a.ID]; taken {
				continue
			}
			if a.Receipt == pc.note.Receipt {
				matches[pc.note.ID] = a.ID
				used[a.ID] = struct{}{}
				break
			}
		}
	}

	for _, pc := range o.creates {
		if _, done := matches[pc.note.ID]; done {
			continue
		}
		for _, a := range authoritative {
			if _, taken := used[a.ID]; taken {
				continue
			}
			if o.resembles(pc, a) {
				matches[pc.note.ID] = a.ID
				used[a.ID] = struct{}{}
				break
			}
		}
	}
	return matches
}

func (o *Overlay) resembles(pc *pendingCreate, a models.Note) bool {
	p := pc.note
	// a receipt mismatch rules the pair out even if everything else agrees
	if p.Receipt != "" && a.Receipt != "" && p.Receipt != a.Receipt {
		return false
	}
	if a.Content != p.Content || a.Color != p.Color {
		return false
	}
	if !strings.EqualFold(strings.TrimSpace(a.Author), p.Author) {
		return false
	}
	if !o.near(a.Position, p.Position) {
		return false
	}
	if a.Timestamp.IsZero() {
		return true
	}
	diff := a.Timestamp.Sub(pc.createdAt)
	if diff < 0 {
		diff = -diff
	}
	return diff <= o.cfg.MatchWindow
}

func (o *Overlay) near(a, b models.Point) bool {
	return math.Abs(a.X-b.X) <= o.cfg.PositionTolerance && math.Abs(a.Y-b.Y) <= o.cfg.PositionTolerance
}

func (o *Overlay) find(tempID string) *pendingCreate {
	for _, pc := range o.creates {
		if pc.note.ID == tempID {
			return pc
		}
	}
	return nil
}

func indexByID(notes []models.Note) map[string]models.Note {
	out := make(map[string]models.Note, len(notes))
	for _, n := range notes {
		out[n.ID] = n
	}
	return out
}

// Package placement implements the compose, place and write flow of a new note.
//
//	Composing -> AwaitingPlacement -> AwaitingWrite -> Committed | WriteFailed
//
// WriteFailed accepts the next Place exactly like AwaitingPlacement, so the
// user can retry by clicking again. Writes are never retried automatically.
// Cancel resets the local flow but never aborts a submitted write; the
// outcome of that write still reaches the overlay.
//
// A Workflow must be driven from the board's event loop.
package placement

import (
	"context"
	"strings"
	"time"

	"github.com/MKhiriev/sticky-chain/internal/logger"
	"github.com/MKhiriev/sticky-chain/internal/scheduler"
	"github.com/MKhiriev/sticky-chain/internal/viewport"
	"github.com/MKhiriev/sticky-chain/models"
)

type Config struct {
	// Author is stamped on every note written by this session.
	Author string
	// WriteTimeout bounds a single remote write. Zero means no bound.
	WriteTimeout time.Duration
}

type Workflow struct {
	cfg      Config
	writer   NoteWriter
	overlay  Overlay
	dispatch scheduler.Dispatcher
	spawn    func(func())
	ctx      context.Context

	state   models.WorkflowState
	content string
	color   models.Color
	tempID  string
	receipt models.Receipt
	lastErr error

	// attempt identifies the latest Place; older outcomes cannot change state
	attempt uint64

	logger *logger.Logger
}

func New(
	ctx context.Context,
	cfg Config,
	writer NoteWriter,
	overlay Overlay,
	dispatch scheduler.Dispatcher,
	spawn func(func()),
	log *logger.Logger,
) *Workflow {
	if spawn == nil {
		spawn = func(fn func()) { go fn() }
	}
	return &Workflow{
		cfg:      cfg,
		writer:   writer,
		overlay:  overlay,
		dispatch: dispatch,
		spawn:    spawn,
		ctx:      ctx,
		state:    models.WorkflowIdle,
		color:    models.DefaultColor,
		logger:   log,
	}
}

// Compose starts a new draft with empty content and the default color.
func (w *Workflow) Compose() error {
	if w.state == models.WorkflowAwaitingWrite {
		return ErrWriteInFlight
	}
	w.state = models.WorkflowComposing
	w.content = ""
	w.color = models.DefaultColor
	w.tempID = ""
	w.receipt = ""
	w.lastErr = nil
	return nil
}

// SetDraft replaces content and color of the draft being composed.
func (w *Workflow) SetDraft(content string, color models.Color) error {
	if w.state != models.WorkflowComposing {
		return ErrInvalidTransition
	}
	if !color.Valid() {
		return ErrInvalidColor
	}
	w.content = content
	w.color = color
	return nil
}

// ConfirmDraft moves to AwaitingPlacement. Content must not be blank.
func (w *Workflow) ConfirmDraft() error {
	if w.state != models.WorkflowComposing {
		return ErrInvalidTransition
	}
	if strings.TrimSpace(w.content) == "" {
		return ErrEmptyContent
	}
	w.state = models.WorkflowAwaitingPlacement
	return nil
}

// Place converts the pointer position to world space, adds a pending note
// to the overlay and submits the write. A point outside a known canvas is
// rejected and the workflow keeps waiting for placement.
func (w *Workflow) Place(screen models.Point, v models.Viewport, canvas models.Size) (string, error) {
	if w.state != models.WorkflowAwaitingPlacement && w.state != models.WorkflowWriteFailed {
		return "", ErrInvalidTransition
	}
	if canvas.Known() && !canvas.Contains(screen) {
		return "", ErrOutsideCanvas
	}

	world := viewport.WorldFromScreen(screen, v)
	draft := models.NoteDraft{
		Content: w.content,
		X:       world.X,
		Y:       world.Y,
		Color:   w.color,
		Author:  w.cfg.Author,
	}
	tempID := w.overlay.AddPending(models.Note{
		Content:  draft.Content,
		Position: world,
		Author:   draft.Author,
		Color:    draft.Color,
	})

	w.attempt++
	w.state = models.WorkflowAwaitingWrite
	w.tempID = tempID
	w.receipt = ""
	w.lastErr = nil

	w.logger.Info().
		Str("func", "Workflow.Place").
		Str("temp_id", tempID).
		Float64("x", world.X).
		Float64("y", world.Y).
		Msg("submitting note")

	w.submit(w.attempt, tempID, draft)
	return tempID, nil
}

// Cancel abandons the flow from any non-terminal state. A submitted write
// keeps running and its outcome is still applied to the overlay.
func (w *Workflow) Cancel() error {
	switch w.state {
	case models.WorkflowComposing, models.WorkflowAwaitingPlacement,
		models.WorkflowAwaitingWrite, models.WorkflowWriteFailed:
	default:
		return ErrInvalidTransition
	}
	w.state = models.WorkflowCancelled
	w.content = ""
	w.lastErr = nil
	return nil
}

// Status returns an immutable view of the workflow.
func (w *Workflow) Status() models.WorkflowStatus {
	return models.WorkflowStatus{
		State:   w.state,
		Content: w.content,
		Color:   w.color,
		TempID:  w.tempID,
		Receipt: w.receipt,
		LastErr: w.lastErr,
	}
}

func (w *Workflow) submit(attempt uint64, tempID string, draft models.NoteDraft) {
	ctx, cancel := w.ctx, context.CancelFunc(func() {})
	if w.cfg.WriteTimeout > 0 {
		ctx, cancel = context.WithTimeout(w.ctx, w.cfg.WriteTimeout)
	}

	writer, dispatch, log := w.writer, w.dispatch, w.logger
	w.spawn(func() {
		defer cancel()
		receipt, err := writer.SubmitNote(ctx, draft)
		if !dispatch.Post(func() { w.outcome(attempt, tempID, receipt, err) }) {
			log.Warn().
				Str("func", "Workflow.submit").
				Str("temp_id", tempID).
				Msg("event loop closed, write outcome dropped")
		}
	})
}

func (w *Workflow) outcome(attempt uint64, tempID string, receipt models.Receipt, err error) {
	current := attempt == w.attempt && w.state == models.WorkflowAwaitingWrite

	if err != nil {
		w.overlay.Discard(tempID)
		w.logger.Warn().
			Err(err).
			Str("func", "Workflow.outcome").
			Str("temp_id", tempID).
			Bool("current", current).
			Msg("note write failed, pending note discarded")

		if current {
			w.state = models.WorkflowWriteFailed
			w.lastErr = err
		}
	} else {
		// the note may already be confirmed by a fetch that raced the receipt
		if attachErr := w.overlay.AttachReceipt(tempID, receipt); attachErr != nil {
			w.logger.Debug().
				Err(attachErr).
				Str("func", "Workflow.outcome").
				Str("temp_id", tempID).
				Msg("receipt not attached")
		}
		w.logger.Info().
			Str("func", "Workflow.outcome").
			Str("temp_id", tempID).
			Str("receipt", string(receipt)).
			Msg("note write accepted")

		if current {
			w.state = models.WorkflowCommitted
			w.receipt = receipt
			w.content = ""
		}
	}
}

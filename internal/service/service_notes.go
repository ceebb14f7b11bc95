package service

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/sticky-chain/internal/logger"
	"github.com/MKhiriev/sticky-chain/internal/store"
	"github.com/MKhiriev/sticky-chain/models"
)

// IDGenerator issues note ids.
type IDGenerator interface {
	Generate() string
}

type noteService struct {
	noteRepository store.NoteRepository
	publisher      EventPublisher
	ids            IDGenerator
	now            func() time.Time

	logger *logger.Logger
}

func NewNoteService(noteRepository store.NoteRepository, publisher EventPublisher, ids IDGenerator, logger *logger.Logger) NoteService {
	return &noteService{
		noteRepository: noteRepository,
		publisher:      publisher,
		ids:            ids,
		now:            time.Now,
		logger:         logger,
	}
}

func (s *noteService) ListNotes(ctx context.Context) ([]models.NoteRecord, error) {
	return s.noteRepository.ListNotes(ctx)
}

// CreateNote assigns the id and the server timestamp, then derives the
// receipt from the canonical note so clients can correlate their pending copy.
func (s *noteService) CreateNote(ctx context.Context, draft models.NoteDraft) (models.CreateNoteResponse, error) {
	log := logger.FromContext(ctx)

	id := s.ids.Generate()
	ts := s.now().UTC()
	receipt := models.ComputeReceipt(id, draft, ts)

	record, err := s.noteRepository.CreateNote(ctx, models.NoteRecord{
		ID:        id,
		Content:   draft.Content,
		X:         draft.X,
		Y:         draft.Y,
		Color:     string(draft.Color),
		Author:    draft.Author,
		Timestamp: ts,
		Receipt:   string(receipt),
	})
	if err != nil {
		return models.CreateNoteResponse{}, fmt.Errorf("error saving note: %w", err)
	}

	log.Info().
		Str("func", "*noteService.CreateNote").
		Str("note_id", record.ID).
		Int64("index", record.Index).
		Str("receipt", string(receipt)).
		Msg("note created")

	s.publish(models.EventNoteCreated, record.ID)
	return models.CreateNoteResponse{ID: record.ID, Receipt: receipt, Timestamp: ts}, nil
}

func (s *noteService) MoveNote(ctx context.Context, id string, req models.MoveNoteRequest) error {
	if err := s.noteRepository.MoveNote(ctx, id, models.Point{X: req.X, Y: req.Y}); err != nil {
		return fmt.Errorf("error moving note: %w", err)
	}
	s.publish(models.EventNoteMoved, id)
	return nil
}

func (s *noteService) DeleteNote(ctx context.Context, id string) error {
	if err := s.noteRepository.DeleteNote(ctx, id); err != nil {
		return fmt.Errorf("error deleting note: %w", err)
	}
	s.publish(models.EventNoteDeleted, id)
	return nil
}

func (s *noteService) publish(kind, id string) {
	if s.publisher == nil {
		return
	}
	s.publisher.Send(models.NoteEvent{Type: kind, NoteID: id})
}

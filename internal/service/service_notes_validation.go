package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/sticky-chain/internal/validators"
	"github.com/MKhiriev/sticky-chain/models"
)

// NoteValidationService rejects malformed requests before they reach the
// wrapped NoteService.
type NoteValidationService struct {
	inner     NoteService
	validator validators.Validator
}

func NewNoteValidationService(validator validators.Validator) NoteServiceWrapper {
	return &NoteValidationService{validator: validator}
}

func (v *NoteValidationService) ListNotes(ctx context.Context) ([]models.NoteRecord, error) {
	return v.inner.ListNotes(ctx)
}

func (v *NoteValidationService) CreateNote(ctx context.Context, draft models.NoteDraft) (models.CreateNoteResponse, error) {
	if err := v.validator.Validate(ctx, draft); err != nil {
		return models.CreateNoteResponse{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}
	return v.inner.CreateNote(ctx, draft)
}

func (v *NoteValidationService) MoveNote(ctx context.Context, id string, req models.MoveNoteRequest) error {
	if err := v.validator.Validate(ctx, id); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}
	if err := v.validator.Validate(ctx, req); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}
	return v.inner.MoveNote(ctx, id, req)
}

func (v *NoteValidationService) DeleteNote(ctx context.Context, id string) error {
	if err := v.validator.Validate(ctx, id); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}
	return v.inner.DeleteNote(ctx, id)
}

func (v *NoteValidationService) Wrap(inner NoteService) NoteService {
	v.inner = inner
	return v
}

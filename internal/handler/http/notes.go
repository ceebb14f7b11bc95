package http

import (
	"encoding/json"
	"net/http"

	"github.com/MKhiriev/sticky-chain/internal/app"
	"github.com/MKhiriev/sticky-chain/internal/logger"
	"github.com/MKhiriev/sticky-chain/internal/utils"
	"github.com/MKhiriev/sticky-chain/models"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) listNotes(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	notes, err := h.services.NoteService.ListNotes(r.Context())
	if err != nil {
		log.Err(err).Str("func", "*Handler.listNotes").Msg("error listing notes")
		utils.WriteError(w, app.MsgListNotesFailed, statusFromError(err))
		return
	}
	if notes == nil {
		notes = []models.NoteRecord{}
	}

	if _, err = utils.WriteJSON(w, notes, http.StatusOK); err != nil {
		log.Err(err).Str("func", "*Handler.listNotes").Msg("error writing response")
	}
}

func (h *Handler) createNote(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var draft models.NoteDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		log.Err(err).Str("func", "*Handler.createNote").Msg("invalid JSON was passed")
		utils.WriteError(w, app.MsgInvalidJSON, http.StatusBadRequest)
		return
	}

	created, err := h.services.NoteService.CreateNote(r.Context(), draft)
	if err != nil {
		log.Err(err).Str("func", "*Handler.createNote").Msg("error creating note")
		writeServiceError(w, err)
		return
	}

	if _, err = utils.WriteJSON(w, created, http.StatusCreated); err != nil {
		log.Err(err).Str("func", "*Handler.createNote").Msg("error writing response")
	}
}

func (h *Handler) moveNote(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	id := chi.URLParam(r, "id")

	var req models.MoveNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Str("func", "*Handler.moveNote").Msg("invalid JSON was passed")
		utils.WriteError(w, app.MsgInvalidJSON, http.StatusBadRequest)
		return
	}

	if err := h.services.NoteService.MoveNote(r.Context(), id, req); err != nil {
		log.Err(err).Str("func", "*Handler.moveNote").Str("note_id", id).Msg("error moving note")
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) deleteNote(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	id := chi.URLParam(r, "id")

	if err := h.services.NoteService.DeleteNote(r.Context(), id); err != nil {
		log.Err(err).Str("func", "*Handler.deleteNote").Str("note_id", id).Msg("error deleting note")
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// writeServiceError reports client errors verbatim and hides the details of
// server side failures.
func writeServiceError(w http.ResponseWriter, err error) {
	status := statusFromError(err)
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		msg = app.MsgInternalServerError
	}
	utils.WriteError(w, msg, status)
}

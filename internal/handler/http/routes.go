package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID, h.withLogging)

	router.Get("/api/version", h.getServerVersion)

	// the websocket upgrade needs the raw connection, so no gzip here
	router.Get("/api/notes/events", h.noteEvents)

	router.Group(func(r chi.Router) {
		r.Use(withCompression(), withGzipBody)
		if h.requestTimeout > 0 {
			r.Use(middleware.Timeout(h.requestTimeout))
		}

		r.Get("/api/notes", h.listNotes)

		r.Group(func(r chi.Router) {
			if h.checkHashes {
				r.Use(h.withHashCheck)
			}
			r.Post("/api/notes", h.createNote)
			r.Put("/api/notes/{id}/position", h.moveNote)
			r.Delete("/api/notes/{id}", h.deleteNote)
		})
	})

	router.MethodNotAllowed(notFound)
	router.NotFound(notFound)

	return router
}

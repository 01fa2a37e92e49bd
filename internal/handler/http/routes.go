package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)
	router.Use(withGZip)

	// liveness and build info, no authentication
	router.Group(func(r chi.Router) {
		r.Get("/api/health", h.health)
		r.Get("/api/version", h.getServerVersion)
	})

	// the sync API requires the shared API key
	router.Group(func(r chi.Router) {
		r.Use(h.auth)
		r.Post("/api/sync/{table}", h.reconcileBatch)
	})

	return router
}

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	r.Route("/api", func(r chi.Router) {
		// Health check (no auth required)
		r.Get("/health", s.handleHealth)

		// Auth endpoints
		r.Post("/auth/login", s.handleLogin)
		r.Post("/auth/refresh", s.handleRefresh)

		// Routes for any authenticated account
		r.Group(func(r chi.Router) {
			r.Use(s.requireUser)
			r.Get("/auth/me", s.handleMe)
		})

		// Public content reads
		r.Get("/sections", s.handleListSections)
		r.Get("/posts", s.handleListPosts)
		r.Get("/posts/{id}", s.handleGetPost)

		// Admin-only management
		r.Group(func(r chi.Router) {
			r.Use(s.requireAdmin)

			r.Route("/admin", func(r chi.Router) {
				r.Get("/users", s.handleListUsers)
				r.Post("/users", s.handleCreateUser)
				r.Get("/users/{id}", s.handleGetUser)
				r.Get("/audit", s.handleListAuditEvents)
			})

			r.Post("/sections", s.handleCreateSection)
			r.Delete("/sections/{id}", s.handleDeleteSection)

			r.Post("/posts", s.handleCreatePost)
			r.Patch("/posts/{id}", s.handleUpdatePost)
			r.Delete("/posts/{id}", s.handleDeletePost)
		})
	})

	return r
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
	})
}

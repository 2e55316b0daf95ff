// Package web provides the HTTP API over open table documents.
package web

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/shapestone/shape-table/internal/config"
	"github.com/shapestone/shape-table/internal/export/pgcopy"
	"github.com/shapestone/shape-table/internal/session"
)

// Server is the HTTP server for the table API.
type Server struct {
	registry *session.Registry
	cfg      *config.Config
	db       pgcopy.DB
	router   *chi.Mux
	server   *http.Server
}

// NewServer creates a Server. db may be nil, which disables the copy
// endpoint.
func NewServer(registry *session.Registry, cfg *config.Config, db pgcopy.DB) *Server {
	s := &Server{
		registry: registry,
		cfg:      cfg,
		db:       db,
		router:   chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(s.cfg.Server.RequestTimeout))
	s.router.Use(securityHeaders)
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/documents", s.handleListDocuments)
		r.Post("/documents", s.handleUpload)

		r.Route("/documents/{id}", func(r chi.Router) {
			r.Get("/", s.handleInfo)
			r.Delete("/", s.handleClose)

			r.Get("/rows", s.handleRows)
			r.Post("/rows", s.handleInsertRow)
			r.Delete("/rows", s.handleDeleteRows)

			r.Post("/columns", s.handleInsertColumn)
			r.Delete("/columns", s.handleDeleteColumns)
			r.Post("/columns/move", s.handleMoveColumns)

			r.Put("/cells/{row}/{col}", s.handleSetCell)
			r.Post("/sort", s.handleSort)

			r.Get("/csv", s.handleDownloadCSV)
			r.Get("/json", s.handleDownloadJSON)
			r.Post("/copy", s.handleCopy)
		})
	})
}

// Start begins listening for HTTP requests on the configured address.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// securityHeaders adds security headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Content-Security-Policy", "default-src 'none'")
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"documents": s.registry.Len(),
		"database":  s.db != nil,
		"time":      time.Now().UTC(),
	})
}

// Package api exposes the run archive over a small JSON API.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"audival/domain/core"
	"audival/internal/logging"
	"audival/ports"
)

// Server serves the archive endpoints
type Server struct {
	router  *chi.Mux
	archive ports.RunArchive
	logger  *logging.Logger
}

// NewServer creates the API server around a run archive.
func NewServer(archive ports.RunArchive, logger *logging.Logger) *Server {
	s := &Server{
		router:  chi.NewRouter(),
		archive: archive,
		logger:  logger,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures HTTP middleware
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
}

// setupRoutes configures the API endpoints
func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)
	s.router.Get("/api/runs", s.handleListRuns)
	s.router.Get("/api/runs/{id}", s.handleGetRun)
}

// Start begins serving on the given port.
func (s *Server) Start(port string) error {
	s.logger.Info("API listening on :%s", port)
	return http.ListenAndServe(":"+port, s.router)
}

// Handler returns the underlying router, used by tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	kind := core.RunKind(r.URL.Query().Get("kind"))
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	runs, err := s.archive.List(r.Context(), kind, limit)
	if err != nil {
		s.logger.Error("Listing runs: %v", err)
		s.writeError(w, http.StatusInternalServerError, "failed to list runs")
		return
	}
	if runs == nil {
		runs = []*core.Run{}
	}
	s.writeJSON(w, http.StatusOK, runs)
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	id := core.RunID(chi.URLParam(r, "id"))
	if id.IsEmpty() {
		s.writeError(w, http.StatusBadRequest, "missing run id")
		return
	}

	run, err := s.archive.GetByID(r.Context(), id)
	if err != nil {
		s.writeError(w, http.StatusNotFound, "run not found")
		return
	}
	s.writeJSON(w, http.StatusOK, run)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("Encoding response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

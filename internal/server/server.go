// Package server exposes a small read-only HTTP API over the nexus
// database, for dashboards and scripting against a local instance.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/nexuskb/nexus/internal/store"
)

// Server is the nexus HTTP API server.
type Server struct {
	db      *store.DB
	router  chi.Router
	version string
	started time.Time
}

// New creates a new Server with the given database and version string.
func New(db *store.DB, version string) *Server {
	s := &Server{
		db:      db,
		version: version,
		started: time.Now(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/cards/due", s.handleDueCards)
		r.Get("/cards/{cardID}", s.handleGetCard)
		r.Get("/records/{recordID}", s.handleGetRecord)
		r.Get("/stats", s.handleStats)
		r.Get("/mutations/pending", s.handlePendingMutations)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	dbOK := s.db != nil && s.db.Ping() == nil

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":  "ok",
		"version": s.version,
		"db":      dbOK,
		"uptime":  time.Since(s.started).Round(time.Second).String(),
	})
}

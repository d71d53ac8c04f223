// Package api implements the HTTP API server for prrev.
package api

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/sprite-ai/prrev/internal/config"
	"github.com/sprite-ai/prrev/internal/engine"
)

// Server is the prrev HTTP API server.
type Server struct {
	addr      string
	cfg       config.Config
	mux       *http.ServeMux
	server    *http.Server
	newEngine func() (*engine.Engine, error)
}

// New creates a new API server. A fresh engine is built per request
// so concurrent reviews never share progress state.
func New(addr string, cfg config.Config) *Server {
	return newServer(addr, cfg, func() (*engine.Engine, error) {
		return engine.New(cfg)
	})
}

// NewWithEngine creates a server that reuses one prepared engine.
// Meant for tests and offline runs with a single client.
func NewWithEngine(addr string, cfg config.Config, e *engine.Engine) *Server {
	return newServer(addr, cfg, func() (*engine.Engine, error) {
		return e, nil
	})
}

func newServer(addr string, cfg config.Config, factory func() (*engine.Engine, error)) *Server {
	s := &Server{addr: addr, cfg: cfg, newEngine: factory}
	s.mux = http.NewServeMux()
	s.registerRoutes()
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("POST /api/review", s.handleReview)
	s.mux.HandleFunc("POST /api/score", s.handleScore)
	s.mux.HandleFunc("GET /api/ws", s.handleWebSocket)
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	log.Printf("prrev API server listening on %s", s.addr)
	return s.server.ListenAndServe()
}

// Handler returns the HTTP handler for testing.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		log.Printf("json encode error: %v", err)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// readJSON decodes a JSON request body into v.
func readJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return fmt.Errorf("empty request body")
	}
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	return dec.Decode(v)
}

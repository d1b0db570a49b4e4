// Package server provides the HTTP server for AirSketch.
package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/airsketch/internal/render"
	"github.com/ayusman/airsketch/internal/server/api"
	"github.com/ayusman/airsketch/internal/session"
	"github.com/ayusman/airsketch/internal/store"
	"github.com/ayusman/airsketch/internal/suggest"
)

// DefaultStreamFPS is the MJPEG frame rate.
const DefaultStreamFPS = 15

// Engine is the live drawing engine behind the API.
type Engine interface {
	api.Engine
	// Subscribe streams published views until cancel is called.
	Subscribe() (views <-chan session.View, cancel func())
	// Composite returns the latest frame with the scene drawn on it. The
	// caller closes it.
	Composite() gocv.Mat
}

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Store     *store.Store
	Engine    Engine
	// Namer backs /api/recommend-shapes.
	Namer     suggest.Namer
	StreamFPS int
}

// Server represents the HTTP server for AirSketch.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	if config.StreamFPS <= 0 {
		config.StreamFPS = DefaultStreamFPS
	}
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)
	s.mux.Handle("/api/recommend-shapes", api.NewRecommendHandler(s.config.Namer))

	if s.config.Engine != nil {
		sessionHandler := api.NewSessionHandler(s.config.Engine, s.config.Store)
		for _, path := range []string{
			"/api/scene", "/api/undo", "/api/redo", "/api/clear",
			"/api/settings", "/api/suggestions", "/api/suggestions/insert",
		} {
			s.mux.Handle(path, sessionHandler)
		}
		s.mux.Handle("/api/scene/ws", NewSceneHandler(s.config.Engine))
		s.mux.Handle("/api/stream", NewStreamHandler(s.config.Engine, s.config.StreamFPS))
		s.mux.Handle("/api/export.pdf", api.NewExportHandler(s.config.Engine))
	}

	if s.config.Store != nil && s.config.Engine != nil {
		drawings := api.NewDrawingHandler(s.config.Store, s.config.Engine)
		s.mux.Handle("/api/drawings", drawings)
		s.mux.Handle("/api/drawings/", drawings)

		snapshots := api.NewSnapshotHandler(s.config.Store, s.capture)
		s.mux.Handle("/api/snapshots", snapshots)
		s.mux.Handle("/api/snapshots/", snapshots)
	}

	// Serve static files if StaticDir is configured
	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// capture encodes the current composite as PNG.
func (s *Server) capture() ([]byte, int, int, error) {
	frame := s.config.Engine.Composite()
	defer frame.Close()

	png, err := render.EncodePNG(frame)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("capture: %w", err)
	}
	return png, frame.Cols(), frame.Rows(), nil
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(s.start)

	response := map[string]any{
		"status": "ok",
		"uptime": uptime.String(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}

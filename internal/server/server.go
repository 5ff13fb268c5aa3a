package server

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/ayusman/wristwear/internal/asset"
	"github.com/ayusman/wristwear/internal/capture"
	"github.com/ayusman/wristwear/internal/detector"
	"github.com/ayusman/wristwear/internal/server/api"
	"github.com/ayusman/wristwear/internal/session"
	"github.com/ayusman/wristwear/internal/store"
)

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Store     *store.Store
	Assets    *asset.Cache

	// NewDetector builds one detector per consumer: each websocket
	// connection gets its own, and the single-shot and kiosk endpoints
	// share one.
	NewDetector func() (detector.Detector, error)

	// Camera enables the kiosk preview stream when set.
	Camera capture.Camera

	// Mode is the default delivery mode for try-on sessions.
	Mode        session.Mode
	JPEGQuality int
	MaxUpload   int64
}

// Server represents the HTTP server for the wristwear application.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time

	// shared is the detector used by the stateless endpoints.
	shared detector.Detector
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}

	if config.NewDetector != nil {
		det, err := config.NewDetector()
		if err != nil {
			log.Printf("shared detector unavailable: %v", err)
		} else {
			s.shared = det
		}
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	// Register catalog API handler if Store is configured
	if s.config.Store != nil {
		watchHandler := api.NewWatchHandler(s.config.Store)
		s.mux.Handle("/api/watches", watchHandler)
		s.mux.Handle("/api/watches/", watchHandler)
	}

	if s.config.Assets != nil {
		wsHandler := NewTryOnWSHandler(s.config.Assets, s.config.NewDetector, s.config.Mode, s.config.JPEGQuality, s.config.MaxUpload)
		s.mux.Handle("/api/tryon/ws", wsHandler)

		tryOnHandler := api.NewTryOnHandler(s.config.Assets, s.shared, s.config.JPEGQuality, s.config.MaxUpload)
		s.mux.Handle("/api/tryon", tryOnHandler)

		// Register kiosk stream endpoint if Camera is configured
		if s.config.Camera != nil {
			streamHandler := NewStreamHandler(s.config.Camera, s.shared, s.config.Assets, s.config.JPEGQuality)
			s.mux.Handle("/api/stream", streamHandler)
		}
	}

	// Serve static files if StaticDir is configured
	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
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

	response := map[string]interface{}{
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

// Close releases the shared detector.
func (s *Server) Close() error {
	if s.shared != nil {
		return s.shared.Close()
	}
	return nil
}

// Package server provides the HTTP server for the Mudra gesture engine: the
// template API, view control, the landmark feed and the event stream.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/ayusman/mudra/internal/hand"
	"github.com/ayusman/mudra/internal/server/api"
	"github.com/ayusman/mudra/internal/store"
	"github.com/ayusman/mudra/internal/tracker"
)

// Overlay is the drawing layer listeners paint on.
type Overlay interface {
	PNG() ([]byte, error)
}

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Store     *store.Store
	Tracker   *tracker.Tracker
	// Frames receives frames pushed to /api/landmarks.
	Frames  chan<- hand.Frame
	Overlay Overlay
	// OnTemplatesChanged runs after a template has been edited or retrained.
	OnTemplatesChanged func()
	Logger             *slog.Logger
}

// Server represents the HTTP server for the Mudra application.
type Server struct {
	config Config
	log    *slog.Logger
	mux    *http.ServeMux
	start  time.Time
	events *EventsHandler
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	s := &Server{
		config: config,
		log:    config.Logger,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	if s.config.Store != nil {
		templateHandler := api.NewTemplateHandler(s.config.Store, s.config.OnTemplatesChanged)
		samplesHandler := api.NewSamplesHandler(s.config.Store, s.config.OnTemplatesChanged)

		// Route between templates and samples: /api/templates/{id}/samples
		templateRouter := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasSuffix(r.URL.Path, "/samples") {
				samplesHandler.ServeHTTP(w, r)
				return
			}
			templateHandler.ServeHTTP(w, r)
		})

		s.mux.Handle("/api/templates", templateRouter)
		s.mux.Handle("/api/templates/", templateRouter)
	}

	if s.config.Tracker != nil {
		s.mux.HandleFunc("GET /api/views", s.handleViews)
		s.mux.HandleFunc("POST /api/views/{name}/activate", s.handleActivate)
		s.mux.HandleFunc("POST /api/views/{name}/reset", s.handleReset)

		s.events = NewEventsHandler(s.config.Tracker, s.log.With("handler", "events"))
		s.mux.Handle("/api/events", s.events)
	}

	if s.config.Frames != nil {
		s.mux.Handle("/api/landmarks", NewLandmarksHandler(s.config.Frames, s.log.With("handler", "landmarks")))
	}

	if s.config.Overlay != nil {
		s.mux.HandleFunc("GET /api/overlay.png", s.handleOverlay)
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

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]any{
		"status": "ok",
		"uptime": time.Since(s.start).String(),
	}
	if t := s.config.Tracker; t != nil {
		response["enabled"] = t.Enabled()
		response["activeView"] = t.Active()
	}
	if s.events != nil {
		response["eventClients"] = s.events.Clients()
	}

	writeJSON(w, http.StatusOK, response)
}

func (s *Server) handleViews(w http.ResponseWriter, r *http.Request) {
	snap, err := s.config.Tracker.Snapshot(r.Context())
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "Tracker unavailable")
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleActivate(w http.ResponseWriter, r *http.Request) {
	s.viewCall(w, r, s.config.Tracker.SetActiveView)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.viewCall(w, r, s.config.Tracker.ResetView)
}

func (s *Server) viewCall(w http.ResponseWriter, r *http.Request, fn func(context.Context, string) error) {
	name := r.PathValue("name")
	if err := fn(r.Context(), name); err != nil {
		if errors.Is(err, tracker.ErrUnknownView) {
			writeError(w, http.StatusNotFound, "View not found")
			return
		}
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "view": name})
}

func (s *Server) handleOverlay(w http.ResponseWriter, r *http.Request) {
	png, err := s.config.Overlay.PNG()
	if err != nil {
		s.log.Error("failed to render overlay", "error", err)
		http.Error(w, "Failed to render overlay", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(png)
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if s.events != nil {
		go s.events.Run(ctx)
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	s.log.Info("http server listening", "addr", addr)
	if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Events returns the event stream handler, or nil without a tracker.
func (s *Server) Events() *EventsHandler {
	return s.events
}

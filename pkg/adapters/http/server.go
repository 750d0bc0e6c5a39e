// Package http exposes the booking wizard over HTTP: a JSON event endpoint
// for web front-ends and tests, a small session admin API, health and metrics.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/charter/internal/logging"
	"github.com/aretw0/charter/pkg/domain"
	"github.com/aretw0/charter/pkg/ports"
	"github.com/aretw0/charter/pkg/runner"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Engine is the part of the application the HTTP surface drives.
type Engine interface {
	Handle(ctx context.Context, ev domain.Event) ([]domain.Action, error)
	Session(ctx context.Context, userID string) (*domain.Session, error)
	Sessions(ctx context.Context) ([]string, error)
	Reset(ctx context.Context, userID string) error
	Delivered(ctx context.Context, userID string) error
}

// Server holds the HTTP handlers.
type Server struct {
	Engine  Engine
	Streams *StreamManager
	Version string

	metrics http.Handler
	logger  *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithMetrics mounts a metrics handler (usually promhttp.Handler()) at /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithVersion sets the version reported by /info.
func WithVersion(v string) Option {
	return func(s *Server) {
		s.Version = v
	}
}

// EventsResponse is the body returned by POST /v1/events.
// Document bytes are base64 encoded by encoding/json.
type EventsResponse struct {
	Actions []domain.Action `json:"actions"`
}

// SessionsResponse is the body returned by GET /v1/sessions.
type SessionsResponse struct {
	Sessions []string `json:"sessions"`
}

// NewHandler creates the HTTP handler for the engine.
func NewHandler(engine Engine, opts ...Option) http.Handler {
	s := &Server{
		Engine:  engine,
		Streams: NewStreamManager(),
		Version: "dev",
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Get("/healthz", s.GetHealth)
	r.Get("/info", s.GetInfo)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	r.Route("/v1", func(r chi.Router) {
		r.Post("/events", s.PostEvent)
		r.Get("/events/stream", s.SubscribeEvents)
		r.Get("/sessions", s.ListSessions)
		r.Get("/sessions/{id}", s.GetSession)
		r.Delete("/sessions/{id}", s.DeleteSession)
	})
	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// PostEvent handles POST /v1/events.
func (s *Server) PostEvent(w http.ResponseWriter, r *http.Request) {
	var ev domain.Event
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("PostEvent: invalid request body", "err", err)
		return
	}
	if err := checkEvent(ev); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	actions, err := s.Engine.Handle(r.Context(), ev)
	if err != nil {
		if errors.Is(err, runner.ErrInputTooLarge) || errors.Is(err, runner.ErrInvalidUTF8) {
			http.Error(w, fmt.Sprintf("Invalid input: %v", err), http.StatusBadRequest)
			return
		}
		http.Error(w, fmt.Sprintf("Handle error: %v", err), http.StatusInternalServerError)
		s.logger.Error("PostEvent: handle failed", "user_id", ev.UserID, "err", err)
		return
	}
	if actions == nil {
		actions = []domain.Action{}
	}

	if payload, err := json.Marshal(actions); err == nil {
		s.Streams.Broadcast(ev.UserID, string(payload))
	}
	if err := writeJSON(w, s.logger, http.StatusOK, EventsResponse{Actions: actions}); err != nil {
		return
	}
	// The booking is closed only once the document reached the client.
	if err := ports.ConfirmDelivery(r.Context(), s.Engine, ev.UserID, actions); err != nil {
		s.logger.Error("PostEvent: delivery confirmation failed", "user_id", ev.UserID, "err", err)
	}
}

func checkEvent(ev domain.Event) error {
	if strings.TrimSpace(ev.UserID) == "" {
		return errors.New("user_id is required")
	}
	switch ev.Type {
	case domain.EventCommand:
		if ev.Name == "" {
			return errors.New("command event needs a name")
		}
	case domain.EventText:
	case domain.EventButton:
		if ev.Token == "" {
			return errors.New("button event needs a token")
		}
	default:
		return fmt.Errorf("unknown event type %q", ev.Type)
	}
	return nil
}

// ListSessions handles GET /v1/sessions.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Engine.Sessions(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("List error: %v", err), http.StatusInternalServerError)
		s.logger.Error("ListSessions failed", "err", err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, s.logger, http.StatusOK, SessionsResponse{Sessions: ids})
}

// GetSession handles GET /v1/sessions/{id}.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sess, err := s.Engine.Session(r.Context(), id)
	if errors.Is(err, domain.ErrSessionNotFound) {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, fmt.Sprintf("Load error: %v", err), http.StatusInternalServerError)
		s.logger.Error("GetSession failed", "user_id", id, "err", err)
		return
	}
	writeJSON(w, s.logger, http.StatusOK, sess)
}

// DeleteSession handles DELETE /v1/sessions/{id}.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.Engine.Reset(r.Context(), id); err != nil {
		http.Error(w, fmt.Sprintf("Delete error: %v", err), http.StatusInternalServerError)
		s.logger.Error("DeleteSession failed", "user_id", id, "err", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetHealth handles GET /healthz.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.logger, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.logger, http.StatusOK, map[string]string{
		"app":     "charter-http",
		"version": strings.TrimSpace(s.Version),
	})
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("response encode failed", "err", err)
		return err
	}
	return nil
}

// Package http implements the client-facing ingress: the SSE session stream
// that carries surface models and patches to the browser, and the client
// event endpoint that feeds the orchestrator.
package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/digilab/a2ui/internal/logging"
	"github.com/digilab/a2ui/internal/metrics"
	"github.com/digilab/a2ui/internal/orchestrator"
	"github.com/digilab/a2ui/pkg/session"
)

// Server routes the A2UI protocol endpoints.
type Server struct {
	hub    *session.Hub
	orch   *orchestrator.Orchestrator
	logger *slog.Logger
	mux    chi.Router
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer wires the ingress routes.
func NewServer(hub *session.Hub, orch *orchestrator.Orchestrator, opts ...Option) *Server {
	s := &Server{
		hub:    hub,
		orch:   orch,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	mux := chi.NewRouter()
	mux.Use(corsMiddleware)
	mux.Get("/events", s.handleEvents)
	mux.Post("/api/client-event", s.handleClientEvent)
	mux.Get("/health", s.handleHealth)
	mux.Method(http.MethodGet, "/metrics", promhttp.Handler())
	s.mux = mux
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Serve starts the ingress on addr and blocks until ctx is cancelled or the
// listener fails.
func (s *Server) Serve(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:    addr,
		Handler: s.mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("ingress listening", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

// handleEvents is the session stream. Each connection is one session: the
// session is created on connect, its home surface is opened, and every
// queued message is written as an SSE data frame until the client goes away.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	sess := s.hub.Create()
	metrics.ActiveSessions.Inc()
	defer func() {
		s.hub.Drop(sess.ID)
		metrics.ActiveSessions.Dec()
	}()

	s.orch.OpenSurface(sess.ID, orchestrator.SurfaceHome)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, ok := <-sess.Messages():
			if !ok {
				return
			}
			data, err := json.Marshal(msg)
			if err != nil {
				s.logger.Error("marshal stream message", "error", err, "kind", msg.Kind)
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", data)
			flusher.Flush()
		}
	}
}

// handleClientEvent is the intake endpoint. The ack only says whether the
// event was accepted; flow progress arrives on the session stream.
func (s *Server) handleClientEvent(w http.ResponseWriter, r *http.Request) {
	var ev orchestrator.Event
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid request body"})
		return
	}
	if ev.SessionID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "sessionId is required"})
		return
	}

	ack := s.orch.Handle(r.Context(), ev)
	if !ack.OK {
		writeJSON(w, http.StatusNotFound, ack)
		return
	}
	writeJSON(w, http.StatusOK, ack)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "sessions": s.hub.Len()})
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

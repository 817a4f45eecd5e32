// Package agents bundles the three A2A demo agents (toeslagen, bezwaar,
// genui) into one HTTP service. Each agent keeps its own router and agent
// card; an optional Gemini delegate powers the generative capabilities.
package agents

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/digilab/a2ui/internal/logging"
)

// Service mounts the agent routers under /toeslagen/, /bezwaar/ and /genui/.
type Service struct {
	mux    chi.Router
	logger *slog.Logger
}

// ServiceOption configures the Service.
type ServiceOption func(*serviceConfig)

type serviceConfig struct {
	logger *slog.Logger
	gemini *Gemini
}

// WithServiceLogger sets the service logger.
func WithServiceLogger(l *slog.Logger) ServiceOption {
	return func(c *serviceConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithGemini attaches the generative delegate. Without it the agents run
// their deterministic paths only.
func WithGemini(g *Gemini) ServiceOption {
	return func(c *serviceConfig) { c.gemini = g }
}

// NewService wires the three agents.
func NewService(opts ...ServiceOption) *Service {
	cfg := serviceConfig{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(&cfg)
	}

	mux := chi.NewRouter()
	mux.Use(corsMiddlewareChi)
	mux.Mount("/toeslagen", NewToeslagenRouter(cfg.logger.With("agent", "toeslagen")))
	mux.Mount("/bezwaar", NewBezwaarRouter(cfg.logger.With("agent", "bezwaar"), cfg.gemini))
	mux.Mount("/genui", NewGenuiRouter(cfg.logger.With("agent", "genui"), cfg.gemini))
	mux.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	return &Service{mux: mux, logger: cfg.logger}
}

func (s *Service) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Serve starts the service on addr and blocks until ctx is cancelled or the
// listener fails.
func (s *Service) Serve(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:    addr,
		Handler: s.mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("agent service listening", "address", addr)
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

func corsMiddlewareChi(next http.Handler) http.Handler {
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

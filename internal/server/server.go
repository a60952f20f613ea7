// Package server implements the HTTP server that exposes the filter
// resolution pipeline via a small REST API. The server is started by the
// `filterchat serve` CLI command.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/filterchat/filterchat-go/internal/logging"
	"github.com/filterchat/filterchat-go/internal/pipeline"
	"github.com/filterchat/filterchat-go/internal/store"
)

// New constructs a Server from the provided pipeline runner and config.
// history may be nil to disable turn persistence.
func New(runner pipeline.Runner, history store.HistoryStore, cfg *Config) (*Server, error) {
	if runner == nil {
		return nil, fmt.Errorf("server: pipeline runner must not be nil")
	}
	if cfg == nil {
		cfg = &Config{}
	}
	if cfg.Host == "" {
		cfg.Host = "127.0.0.1"
	}
	if cfg.Port == 0 {
		cfg.Port = 8080
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = 30 * time.Second
	}
	if cfg.WriteTimeout == 0 {
		// The pipeline makes several model calls per request; allow for slow backends.
		cfg.WriteTimeout = 2 * time.Minute
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	if cfg.RateLimit == 0 {
		cfg.RateLimit = defaultRateLimit
	}
	if cfg.RateBurst == 0 {
		cfg.RateBurst = defaultRateBurst
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.New()
	}

	var reg prometheus.Registerer = prometheus.DefaultRegisterer
	metricsHandler := promhttp.Handler()
	if cfg.Registry != nil {
		reg = cfg.Registry
		metricsHandler = promhttp.HandlerFor(cfg.Registry, promhttp.HandlerOpts{})
	}

	s := &Server{
		runner:  runner,
		history: history,
		cfg:     cfg,
		log:     cfg.Logger,
		pingers: cfg.Pingers,
		metrics: newServerMetrics(reg),
	}

	rl, stopRL := newRateLimiter(cfg.RateLimit, cfg.RateBurst, cfg.Logger)
	s.stopRL = stopRL

	if cfg.APIKey == "" {
		cfg.Logger.Warn("API authentication disabled: FILTERCHAT_API_KEY is not set")
	}

	protect := func(name string, h http.HandlerFunc) http.Handler {
		return authMiddleware(cfg.APIKey, rl.middleware(s.instrument(name, h)))
	}

	mux := http.NewServeMux()
	mux.Handle("POST /api/chat", protect("chat", s.handleChat))
	mux.Handle("GET /api/health", s.instrument("health", http.HandlerFunc(s.handleHealth)))
	mux.Handle("GET /api/ready", s.instrument("ready", http.HandlerFunc(s.handleReady)))
	mux.Handle("GET /metrics", metricsHandler)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      requestLogger(cfg.Logger, mux),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return s, nil
}

// Start begins listening and serving HTTP requests. It blocks until the
// context is cancelled, then performs a graceful shutdown.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		s.log.Info("server listening", slog.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		s.stopRL()
		return fmt.Errorf("server: listen error: %w", err)
	case <-ctx.Done():
		s.stopRL()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server: graceful shutdown failed: %w", err)
		}
		return nil
	}
}

// handleChat handles POST /api/chat: runs the full pipeline over the
// caller-supplied query and filter state and returns the updated state.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	start := time.Now()
	s.metrics.chatActiveRequests.Inc()
	defer s.metrics.chatActiveRequests.Dec()

	state, err := s.runner.Run(r.Context(), pipeline.State{
		Query:         req.Query,
		ActiveFilters: req.ActiveFilters,
		SessionID:     req.SessionID,
	})
	if err != nil {
		// The caller's filter set is never mutated by a failed run; the raw
		// error rides along for diagnostics, never a stack trace.
		log.Error("pipeline run failed", slog.Any("error", err))
		s.metrics.observeChat("error", time.Since(start))
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error:   err.Error(),
			Message: errorMessage,
		})
		return
	}

	s.metrics.observeChat("ok", time.Since(start))

	if s.history != nil {
		turn := store.Turn{
			Query:          req.Query,
			Message:        state.Message,
			AppliedFilters: len(state.ActiveFilters),
		}
		if err := s.history.Append(r.Context(), state.SessionID, turn); err != nil {
			log.Warn("failed to persist chat turn", slog.Any("error", err))
		}
	}

	writeJSON(w, http.StatusOK, chatResponse{
		ActiveFilters:        emptyIfNil(state.ActiveFilters),
		ClarificationRequest: emptyClarIfNil(state.ClarificationRequest),
		Message:              state.Message,
		SessionID:            state.SessionID,
	})
}

// handleHealth handles GET /api/health for liveness checks.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// emptyIfNil keeps JSON responses shaped as [] rather than null.
func emptyIfNil(f []pipeline.ActiveFilter) []pipeline.ActiveFilter {
	if f == nil {
		return []pipeline.ActiveFilter{}
	}
	return f
}

func emptyClarIfNil(c []pipeline.FilterSuggestion) []pipeline.FilterSuggestion {
	if c == nil {
		return []pipeline.FilterSuggestion{}
	}
	return c
}

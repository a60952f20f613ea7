package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/filterchat/filterchat-go/internal/pipeline"
	"github.com/filterchat/filterchat-go/internal/store"
)

// Config holds the HTTP server configuration.
type Config struct {
	// Host is the address to bind to (default: 127.0.0.1).
	Host string
	// Port is the TCP port to listen on (default: 8080).
	Port int
	// ReadTimeout is the maximum duration for reading the request.
	ReadTimeout time.Duration
	// WriteTimeout is the maximum duration for writing the response.
	WriteTimeout time.Duration
	// ShutdownTimeout is the maximum duration for a graceful shutdown.
	ShutdownTimeout time.Duration
	// Logger is the structured logger used by the server and its handlers.
	// If nil, [logging.New] is used.
	Logger *slog.Logger
	// Pingers is the ordered list of dependency probes run by GET /api/ready.
	// If empty, /api/ready returns 200 with no checks (liveness-only mode).
	Pingers []Pinger
	// RateLimit is the sustained request rate allowed per IP on rate-limited
	// endpoints (requests/second). Defaults to 10 if zero.
	RateLimit float64
	// RateBurst is the maximum instantaneous burst per IP. Defaults to 20 if zero.
	RateBurst int
	// APIKey is the Bearer token required on all protected /api/* routes.
	// If empty, authentication is disabled (development mode).
	APIKey string
	// Registry receives the server's Prometheus metrics. If nil, the default
	// registry is used.
	Registry *prometheus.Registry
}

// Server exposes the filter-resolution pipeline over HTTP.
type Server struct {
	// runner executes the pipeline for each chat request.
	runner pipeline.Runner
	// history persists chat turns per session. Optional; nil disables history.
	history store.HistoryStore
	// cfg holds the resolved server configuration.
	cfg *Config
	// httpServer is the underlying net/http server.
	httpServer *http.Server
	// log is the structured logger for this server instance.
	log *slog.Logger
	// pingers is the ordered list of dependency probes for GET /api/ready.
	pingers []Pinger
	// metrics holds this server's Prometheus instruments.
	metrics *serverMetrics
	// stopRL stops the rate limiter's background eviction goroutine on shutdown.
	stopRL func()
}

// chatRequest is the JSON body for POST /api/chat. The caller supplies the
// prior active-filter set each turn; the server holds no filter state.
type chatRequest struct {
	// Query is the user's free-text filter query.
	Query string `json:"query"`
	// ActiveFilters is the session's current applied-filter list.
	ActiveFilters []pipeline.ActiveFilter `json:"active_filters"`
	// SessionID identifies the conversation. Generated when absent.
	SessionID string `json:"session_id,omitempty"`
}

// chatResponse is the JSON body returned by POST /api/chat.
type chatResponse struct {
	// ActiveFilters is the updated applied-filter list.
	ActiveFilters []pipeline.ActiveFilter `json:"active_filters"`
	// ClarificationRequest lists concepts needing the user's choice.
	ClarificationRequest []pipeline.FilterSuggestion `json:"clarification_request"`
	// Message is the human-readable summary of what happened.
	Message string `json:"message"`
	// SessionID identifies the conversation for the next turn.
	SessionID string `json:"session_id"`
}

// errorResponse is the JSON body for failed requests. Error carries the raw
// error string for diagnostics; Message is the user-facing apology.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// errorMessage is the user-facing text accompanying any aborting failure.
const errorMessage = "Sorry, I encountered an error processing your request."

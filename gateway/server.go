// Package gateway exposes the tool surface over JSON HTTP: caps parsing and
// negotiation, element lookup, pipeline validation, lifecycle operations,
// graph export, recipes, and a websocket status stream per instance.
package gateway

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/c360/pipewright/docs"
	"github.com/c360/pipewright/element"
	"github.com/c360/pipewright/errors"
	"github.com/c360/pipewright/launch"
	"github.com/c360/pipewright/metric"
	"github.com/c360/pipewright/negotiate"
	"github.com/c360/pipewright/pipeline"
)

// Config wires the gateway's collaborators
type Config struct {
	Registry       element.Registry
	Pipelines      *pipeline.Registry
	Fetcher        *docs.Fetcher
	Metrics        *metric.MetricsRegistry
	Logger         *slog.Logger
	RequestTimeout time.Duration
	// StatusInterval paces the websocket status stream
	StatusInterval time.Duration
}

// Server handles the HTTP tool surface
type Server struct {
	registry       element.Registry
	negotiator     *negotiate.Negotiator
	validator      *launch.Validator
	pipelines      *pipeline.Registry
	fetcher        *docs.Fetcher
	metrics        *metric.MetricsRegistry
	logger         *slog.Logger
	upgrader       websocket.Upgrader
	requestTimeout time.Duration
	statusInterval time.Duration
}

// New creates a gateway server. Registry and Pipelines are required.
func New(cfg Config) (*Server, error) {
	if cfg.Registry == nil {
		return nil, errors.WrapFatal(errors.ErrMissingConfig, "Server", "New",
			"an element registry is required")
	}
	if cfg.Pipelines == nil {
		return nil, errors.WrapFatal(errors.ErrMissingConfig, "Server", "New",
			"a pipeline registry is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	requestTimeout := cfg.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = 30 * time.Second
	}
	statusInterval := cfg.StatusInterval
	if statusInterval <= 0 {
		statusInterval = 250 * time.Millisecond
	}

	return &Server{
		registry:       cfg.Registry,
		negotiator:     negotiate.New(cfg.Registry),
		validator:      launch.NewValidator(cfg.Registry),
		pipelines:      cfg.Pipelines,
		fetcher:        cfg.Fetcher,
		metrics:        cfg.Metrics,
		logger:         logger,
		requestTimeout: requestTimeout,
		statusInterval: statusInterval,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
	}, nil
}

// Handler returns the routed HTTP handler
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /v1/caps/parse", s.handleParseCaps)
	mux.HandleFunc("POST /v1/caps/check", s.handleCheckCaps)
	mux.HandleFunc("POST /v1/caps/converters", s.handleSuggestConverters)

	mux.HandleFunc("GET /v1/elements", s.handleListElements)
	mux.HandleFunc("GET /v1/elements/{name}", s.handleGetElement)
	mux.HandleFunc("GET /v1/elements/{name}/docs", s.handleElementDocs)
	mux.HandleFunc("POST /v1/elements/can-link", s.handleCanLink)

	mux.HandleFunc("GET /v1/plugins", s.handleListPlugins)
	mux.HandleFunc("GET /v1/plugins/{name}", s.handleGetPlugin)

	mux.HandleFunc("POST /v1/pipelines/validate", s.handleValidate)
	mux.HandleFunc("POST /v1/pipelines/graph", s.handleGraphFromText)
	mux.HandleFunc("POST /v1/pipelines", s.handleRunPipeline)
	mux.HandleFunc("GET /v1/pipelines", s.handleListPipelines)
	mux.HandleFunc("GET /v1/pipelines/{id}", s.handlePipelineStatus)
	mux.HandleFunc("GET /v1/pipelines/{id}/graph", s.handlePipelineGraph)
	mux.HandleFunc("GET /v1/pipelines/{id}/events", s.handlePipelineEvents)
	mux.HandleFunc("POST /v1/pipelines/{id}/stop", s.handleStopPipeline)
	mux.HandleFunc("POST /v1/pipelines/{id}/pause", s.handlePausePipeline)
	mux.HandleFunc("POST /v1/pipelines/{id}/resume", s.handleResumePipeline)

	mux.HandleFunc("GET /v1/recipes", s.handleRecipes)

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	if s.metrics != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(
			s.metrics.PrometheusRegistry(),
			promhttp.HandlerOpts{EnableOpenMetrics: true},
		))
	}

	return s.withRequestID(mux)
}

// getOrGenerateRequestID extracts the request ID header or generates one
func getOrGenerateRequestID(r *http.Request) string {
	if reqID := r.Header.Get("X-Request-ID"); reqID != "" {
		return reqID
	}
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("req-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b)
}

func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := getOrGenerateRequestID(r)
		w.Header().Set("X-Request-ID", reqID)
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request handled",
			"request_id", reqID,
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start))
	})
}

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Warn("response encoding failed", "error", err)
	}
}

// writeError maps classified errors onto HTTP status codes
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case stderrors.Is(err, errors.ErrInstanceNotFound),
		stderrors.Is(err, errors.ErrElementNotFound),
		stderrors.Is(err, errors.ErrPluginNotFound):
		status = http.StatusNotFound
	case stderrors.Is(err, errors.ErrInvalidTransition),
		stderrors.Is(err, errors.ErrAlreadyRunning):
		status = http.StatusConflict
	case errors.IsInvalid(err):
		status = http.StatusBadRequest
	case errors.IsTransient(err):
		status = http.StatusServiceUnavailable
	}
	s.writeJSON(w, status, errorResponse{
		Error:     err.Error(),
		RequestID: w.Header().Get("X-Request-ID"),
	})
	if status >= 500 {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errors.WrapInvalid(err, "Server", "decodeJSON", "send a valid JSON request body")
	}
	return nil
}

func (s *Server) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), s.requestTimeout)
}

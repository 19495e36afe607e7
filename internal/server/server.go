// internal/server/server.go

// Package server exposes the assistant over HTTP: customer message
// processing, text analysis, templated response generation, and the
// operational probes.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"restaurant-ai-service/internal/assistant/agent"
	"restaurant-ai-service/internal/assistant/intent"
	"restaurant-ai-service/internal/assistant/respond"
	"restaurant-ai-service/internal/assistant/sentiment"
	"restaurant-ai-service/internal/common/config"
	"restaurant-ai-service/internal/common/errors"
	"restaurant-ai-service/internal/common/logger"
	"restaurant-ai-service/internal/common/metrics"
	"restaurant-ai-service/internal/common/observability"
	"restaurant-ai-service/internal/store"
)

// Options carries the dependencies of the HTTP boundary. Observability
// and Dependencies are optional.
type Options struct {
	Config        *config.Config
	Agents        *agent.Manager
	Classifier    *intent.Classifier
	Analyzer      *sentiment.Analyzer
	Generator     *respond.Generator
	Cache         *store.ResponseCache
	Conversations *store.ConversationStore
	Dependencies  []Dependency
	Observability *observability.Observability
	Logger        logger.Logger
}

// Server routes customer traffic to the assistant components.
type Server struct {
	httpServer    *http.Server
	agents        *agent.Manager
	classifier    *intent.Classifier
	analyzer      *sentiment.Analyzer
	generator     *respond.Generator
	cache         *store.ResponseCache
	conversations *store.ConversationStore
	deps          []Dependency
	obs           *observability.Observability
	errors        *errors.ErrorHandler
	logger        logger.Logger
}

func New(opts Options) *Server {
	log := opts.Logger.WithFields(map[string]interface{}{"component": "http-server"})

	s := &Server{
		agents:        opts.Agents,
		classifier:    opts.Classifier,
		analyzer:      opts.Analyzer,
		generator:     opts.Generator,
		cache:         opts.Cache,
		conversations: opts.Conversations,
		deps:          opts.Dependencies,
		obs:           opts.Observability,
		errors:        errors.NewErrorHandler(log),
		logger:        log,
	}

	s.httpServer = &http.Server{
		Addr:         opts.Config.Server.GetAddr(),
		Handler:      s.Handler(),
		ReadTimeout:  config.GetDuration(opts.Config.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(opts.Config.Server.WriteTimeout),
	}
	return s
}

// Handler builds the route table wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /process", s.handleProcess)
	mux.HandleFunc("POST /analyze-sentiment", s.handleAnalyzeSentiment)
	mux.HandleFunc("POST /generate-response", s.handleGenerateResponse)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /ready", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())

	var handler http.Handler = mux
	handler = s.recoverPanics(handler)
	handler = s.logRequests(handler)
	handler = requestID(handler)
	handler = cors(handler)
	return handler
}

// Start blocks until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("http server listening", map[string]interface{}{"addr": s.httpServer.Addr})
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// failRequest counts the failure and writes the JSON error envelope.
func (s *Server) failRequest(w http.ResponseWriter, r *http.Request, err error) {
	metrics.MessagesFailed.WithLabelValues(string(errors.CodeOf(err))).Inc()
	s.errors.HandleRequestError(w, r, err)
}

func (s *Server) observe(ctx context.Context, start time.Time, status string) {
	if s.obs == nil {
		return
	}
	s.obs.RecordMessageProcessed(ctx, status)
	s.obs.RecordMessageDuration(ctx, time.Since(start), status)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeRawJSON writes a payload that is already encoded, such as a cached
// process response.
func writeRawJSON(w http.ResponseWriter, status int, payload []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(payload)
}

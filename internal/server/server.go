// internal/server/server.go
package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"creator-pilot/internal/common/config"
	apperrors "creator-pilot/internal/common/errors"
	"creator-pilot/internal/common/logger"
	"creator-pilot/internal/common/metrics"
	"creator-pilot/internal/session"
	"creator-pilot/pkg/registry"
)

const requestIDHeader = "X-Request-ID"

// Pinger is a dependency checked by /ready.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Options struct {
	Controller *session.Controller
	Registry   *registry.CapabilityRegistry
	Redis      Pinger // nil when the sequence backend is in memory
	Version    string
	Logger     logger.Logger
}

// Server exposes the session controller as a JSON API.
type Server struct {
	controller *session.Controller
	registry   *registry.CapabilityRegistry
	redis      Pinger
	version    string
	errors     *apperrors.ErrorHandler
	logger     logger.Logger
}

func New(opts Options) *Server {
	log := opts.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	log = log.WithFields(map[string]interface{}{"component": "server"})
	return &Server{
		controller: opts.Controller,
		registry:   opts.Registry,
		redis:      opts.Redis,
		version:    opts.Version,
		errors:     apperrors.NewErrorHandler(log),
		logger:     log,
	}
}

// Handler returns the routed API with request logging and metrics.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /ready", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/state", s.handleState)
	mux.HandleFunc("GET /api/capabilities", s.handleCapabilities)
	mux.HandleFunc("POST /api/navigate", s.handleNavigate)

	mux.HandleFunc("PATCH /api/onboarding", s.handleUpdateOnboarding)
	mux.HandleFunc("PUT /api/onboarding/step", s.handleOnboardingStep)
	mux.HandleFunc("POST /api/onboarding/complete", s.handleCompleteOnboarding)

	mux.HandleFunc("POST /api/insights/{id}/toggle", s.handleToggleInsight)
	mux.HandleFunc("POST /api/insights/analyze", s.handleAnalyzeInsight)
	mux.HandleFunc("PUT /api/constraints", s.handleConstraints)
	mux.HandleFunc("POST /api/reflection/apply", s.handleApplyLearning)
	mux.HandleFunc("DELETE /api/reflection", s.handleDismissReflection)

	mux.HandleFunc("POST /api/ideas/generate", s.handleGenerateIdeas)
	mux.HandleFunc("POST /api/ideas/refine", s.handleRefineIdea)
	mux.HandleFunc("PUT /api/ideas/selection", s.handleSelectIdea)
	mux.HandleFunc("DELETE /api/ideas/selection", s.handleClearSelection)
	mux.HandleFunc("PUT /api/ideas/{id}/status", s.handleIdeaStatus)
	mux.HandleFunc("POST /api/ideas/{id}/lock", s.handleLockDirection)
	mux.HandleFunc("PUT /api/refinement", s.handleRefinement)
	mux.HandleFunc("POST /api/context-rail", s.handleContextAction)
	mux.HandleFunc("DELETE /api/context-rail", s.handleCloseContextRail)
	mux.HandleFunc("PUT /api/direction-lock/approach", s.handleApproach)

	mux.HandleFunc("POST /api/draft", s.handleTurnIntoDraft)
	mux.HandleFunc("PUT /api/draft/{section}", s.handleUpdateDraft)
	mux.HandleFunc("POST /api/draft/{section}/rewrite", s.handleRewrite)
	mux.HandleFunc("PUT /api/voice", s.handleVoice)
	mux.HandleFunc("PUT /api/voice/match-my-posts", s.handleMatchMyPosts)
	mux.HandleFunc("GET /api/preflight", s.handlePreFlight)
	mux.HandleFunc("PUT /api/publish-intent", s.handlePublishIntent)

	mux.HandleFunc("POST /api/calendar", s.handleSaveToCalendar)
	mux.HandleFunc("PUT /api/calendar/{id}/status", s.handlePostStatus)
	mux.HandleFunc("POST /api/session/return", s.handleReturnToDashboard)

	mux.HandleFunc("POST /api/trend", s.handleTrend)
	mux.HandleFunc("POST /api/chat", s.handleChat)

	return s.instrument(mux)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// instrument tags each request with an ID, logs it and records metrics by
// matched route pattern.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		elapsed := time.Since(start)
		metrics.HTTPRequests.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
		metrics.HTTPDuration.WithLabelValues(route).Observe(elapsed.Seconds())

		if route != "GET /metrics" && route != "GET /health" {
			s.logger.Debug("request handled", map[string]interface{}{
				"requestId":  id,
				"route":      route,
				"status":     rec.status,
				"durationMs": elapsed.Milliseconds(),
			})
		}
	})
}

// NewHTTPServer applies the configured address and timeouts.
func NewHTTPServer(cfg config.ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Address,
		Handler:           handler,
		ReadTimeout:       config.GetDuration(cfg.ReadTimeout),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      config.GetDuration(cfg.WriteTimeout),
	}
}

// Run serves until ctx is cancelled, then shuts down within timeout.
func Run(ctx context.Context, srv *http.Server, timeout time.Duration, log logger.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", map[string]interface{}{"address": srv.Addr})
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		log.Info("shutting down http server", nil)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// Package server provides the HTTP REST API for editing, rendering and exporting a CV document.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/cv-builder/internal/export"
	"github.com/jonathan/cv-builder/internal/metrics"
	"github.com/jonathan/cv-builder/internal/rendering"
	"github.com/jonathan/cv-builder/internal/server/ratelimit"
	"github.com/jonathan/cv-builder/internal/store"
)

// maxBodyBytes bounds request bodies; profile images may arrive as data URIs.
const maxBodyBytes = 8 << 20

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	store       *store.DocumentStore
	exporter    *export.Exporter
	metrics     *metrics.Metrics
	registry    *prometheus.Registry
	rateLimiter *ratelimit.Limiter
	logger      zerolog.Logger
	newID       store.IDGenerator
}

// Config holds server configuration
type Config struct {
	Port        int
	Store       *store.DocumentStore // nil starts from an empty document
	Renderer    *rendering.Renderer  // nil uses the built-in template
	Printer     export.Printer
	RateLimit   *ratelimit.Config // nil uses ratelimit defaults
	IDGenerator store.IDGenerator // nil uses random UUIDs
	Logger      zerolog.Logger
}

// New creates a new server instance
func New(cfg Config) (*Server, error) {
	if cfg.Printer == nil {
		return nil, fmt.Errorf("server config: printer is required")
	}

	newID := cfg.IDGenerator
	if newID == nil {
		newID = uuid.NewString
	}

	docStore := cfg.Store
	if docStore == nil {
		docStore = store.New(store.WithIDGenerator(newID))
	}

	renderer := cfg.Renderer
	if renderer == nil {
		var err error
		renderer, err = rendering.NewRenderer()
		if err != nil {
			return nil, fmt.Errorf("failed to load template: %w", err)
		}
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	s := &Server{
		store:       docStore,
		exporter:    export.NewExporter(renderer, cfg.Printer, m, cfg.Logger),
		metrics:     m,
		registry:    registry,
		rateLimiter: ratelimit.NewLimiter(cfg.RateLimit),
		logger:      cfg.Logger,
		newID:       newID,
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // PDF export waits on a headless browser
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the routed handler wrapped in middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	// Document
	mux.HandleFunc("GET /cv", s.handleGetDocument)
	mux.HandleFunc("PUT /cv", s.handleReplaceDocument)
	mux.HandleFunc("GET /cv/status", s.handleStatus)
	mux.HandleFunc("PUT /cv/personal-info", s.handleUpdatePersonalInfo)

	// Experience endpoints
	mux.HandleFunc("POST /cv/experiences", s.handleCreateExperience)
	mux.HandleFunc("PUT /cv/experiences/{id}", s.handleUpdateExperience)
	mux.HandleFunc("DELETE /cv/experiences/{id}", s.handleDeleteExperience)

	// Education endpoints
	mux.HandleFunc("POST /cv/education", s.handleCreateEducation)
	mux.HandleFunc("PUT /cv/education/{id}", s.handleUpdateEducation)
	mux.HandleFunc("DELETE /cv/education/{id}", s.handleDeleteEducation)

	// Skill endpoints
	mux.HandleFunc("POST /cv/skills", s.handleCreateSkill)
	mux.HandleFunc("PUT /cv/skills/{id}", s.handleUpdateSkill)
	mux.HandleFunc("DELETE /cv/skills/{id}", s.handleDeleteSkill)

	// Output
	mux.HandleFunc("GET /cv/render", s.handleRender)
	mux.HandleFunc("GET /cv/export", s.handleExport)

	return s.withRateLimit(s.withLogging(s.withCORS(mux)))
}

// Start listens until ctx is cancelled or the process receives SIGINT/SIGTERM, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info().Str("addr", s.httpServer.Addr).Msg("server starting")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		s.logger.Info().Msg("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		defer s.rateLimiter.Stop()

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		s.logger.Info().Msg("server stopped")
		return nil
	})

	return g.Wait()
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Expose-Headers", "Content-Disposition, X-Request-ID")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	n, err := r.ResponseWriter.Write(b)
	r.bytes += n
	return n, err
}

// withLogging tags each request with an id and logs its outcome
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)

		logger := s.logger.With().Str("request_id", requestID).Logger()
		r = r.WithContext(logger.WithContext(r.Context()))

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		event := logger.Info()
		if rec.status >= http.StatusInternalServerError {
			event = logger.Error()
		}
		event.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("remote", r.RemoteAddr).
			Int("status", rec.status).
			Int("bytes", rec.bytes).
			Dur("took", time.Since(start)).
			Msg("request completed")
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)

		if !allowed {
			s.rateLimitResponse(w, r, info)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error().Err(err).Msg("failed to encode JSON response")
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// failure maps err to a status code and writes it, with field details for validation errors.
func (s *Server) failure(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	}

	if fields := errorFields(err); fields != nil {
		s.jsonResponse(w, status, map[string]any{
			"error":  err.Error(),
			"fields": fields,
		})
		return
	}
	s.errorResponse(w, status, err.Error())
}

// decodeJSON decodes a bounded request body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		return &ErrInvalidBody{Cause: err}
	}
	return nil
}

// extractClientID extracts the client identifier (IP address) from the request.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, r *http.Request, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		retryAfter := int(info.RetryAfter.Round(time.Second).Seconds())
		response["retry_after"] = retryAfter
		w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
	}

	s.logger.Warn().
		Str("path", r.URL.Path).
		Str("client", s.extractClientID(r)).
		Int("limit", info.Limit).
		Msg("rate limit exceeded")

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}

// Package server provides the HTTP REST API for resume analysis and optimization.
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
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/ats-optimizer/internal/config"
	"github.com/jonathan/ats-optimizer/internal/db"
	"github.com/jonathan/ats-optimizer/internal/server/ratelimit"
	"github.com/jonathan/ats-optimizer/internal/types"
	"github.com/sirupsen/logrus"
)

// Extractor turns an uploaded document into normalized text.
type Extractor interface {
	ExtractFile(ctx context.Context, filename string, data []byte) (*types.ExtractionResult, error)
}

// Matcher analyzes a resume against job requirements.
type Matcher interface {
	Match(ctx context.Context, resumeText string, job types.JobData) (*types.MatchResult, error)
}

// Optimizer rewrites a resume around selected keywords.
type Optimizer interface {
	Optimize(ctx context.Context, req types.OptimizeRequest) *types.OptimizationResult
}

// Scorer computes the weighted ATS breakdown.
type Scorer interface {
	Breakdown(ctx context.Context, in types.AtsScoreInputs) types.ScoreBreakdown
}

// Store persists analysis and optimization results. A nil Store disables persistence.
type Store interface {
	SaveAnalysis(ctx context.Context, resumeText, jobTitle string, result *types.MatchResult) (uuid.UUID, error)
	GetAnalysis(ctx context.Context, id uuid.UUID) (*db.Analysis, error)
	ListAnalyses(ctx context.Context, limit int) ([]db.Analysis, error)
	SaveOptimization(ctx context.Context, analysisID *uuid.UUID, jobTitle string, result *types.OptimizationResult) (uuid.UUID, error)
	GetOptimization(ctx context.Context, id uuid.UUID) (*db.Optimization, error)
	Close()
}

// Deps are the services behind the API.
type Deps struct {
	Extractor Extractor
	Matcher   Matcher
	Optimizer Optimizer
	Scorer    Scorer
	Store     Store
	RateLimit *ratelimit.Config // nil loads RATE_LIMIT_* from the environment
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	cfg         *config.Config
	extractor   Extractor
	matcher     Matcher
	optimizer   Optimizer
	scorer      Scorer
	store       Store
	rateLimiter *ratelimit.Limiter
	log         logrus.FieldLogger
}

// New creates a new server instance
func New(cfg *config.Config, deps Deps, log logrus.FieldLogger) *Server {
	rl := deps.RateLimit
	if rl == nil {
		rl = ratelimit.LoadConfig()
	}

	s := &Server{
		cfg:         cfg,
		extractor:   deps.Extractor,
		matcher:     deps.Matcher,
		optimizer:   deps.Optimizer,
		scorer:      deps.Scorer,
		store:       deps.Store,
		rateLimiter: ratelimit.NewLimiter(rl),
		log:         log.WithField("component", "server"),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST "+ratelimit.ExtractPath, s.handleExtractText)
	mux.HandleFunc("POST "+ratelimit.AnalyzePath, s.handleAnalyzeKeywords)
	mux.HandleFunc("POST "+ratelimit.OptimizePath, s.handleOptimizeResume)
	mux.HandleFunc("POST "+ratelimit.ScorePath, s.handleScore)
	mux.HandleFunc("GET /api/analyses", s.handleListAnalyses)
	mux.HandleFunc("GET /api/analyses/{id}", s.handleGetAnalysis)
	mux.HandleFunc("GET /api/optimizations/{id}", s.handleGetOptimization)
	mux.HandleFunc("GET "+ratelimit.HealthPath, s.handleHealth)

	s.httpServer = &http.Server{
		Addr:         cfg.Addr(),
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(mux))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 180 * time.Second, // LLM rewrites are slow
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler returns the fully wrapped request handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start serves until SIGINT or SIGTERM, then shuts down gracefully.
func (s *Server) Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.Run(ctx)
}

// Run serves until ctx is done, then drains in-flight requests and releases resources.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", s.httpServer.Addr).Info("Server starting")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		s.close()
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	err := s.httpServer.Shutdown(shutdownCtx)
	s.close()
	if err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.log.Info("Server stopped")
	return nil
}

func (s *Server) close() {
	s.rateLimiter.Stop()
	if s.store != nil {
		s.store.Close()
	}
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
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

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		entry := s.log.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start).String(),
		})
		if rec.status >= http.StatusInternalServerError {
			entry.Warn("Request failed")
			return
		}
		entry.Info("Request completed")
	})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.WithError(err).Error("Error encoding JSON response")
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// handleError writes err with the status HTTPStatus assigns it. Validation errors carry
// their own message; anything else is prefixed with the failed operation.
func (s *Server) handleError(w http.ResponseWriter, op string, err error) {
	status := HTTPStatus(err)

	var (
		validation *ErrValidation
		request    *types.RequestError
	)
	switch {
	case errors.As(err, &validation):
		s.errorResponse(w, status, validation.Message)
	case errors.As(err, &request):
		s.errorResponse(w, status, request.Message)
	case status == http.StatusInternalServerError:
		s.log.WithError(err).WithField("op", op).Error("Request failed")
		s.errorResponse(w, status, fmt.Sprintf("%s failed: %v", op, err))
	default:
		s.errorResponse(w, status, err.Error())
	}
}

// extractClientID extracts the client identifier from the request.
// This uses the IP address from RemoteAddr; X-Forwarded-For is not trusted.
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
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, r *http.Request, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
	}
	if !info.ResetTime.IsZero() {
		response["reset_at"] = info.ResetTime.Format(time.RFC3339)
	}

	if info.RetryAfter > 0 {
		seconds := int((info.RetryAfter + time.Second - 1) / time.Second)
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", fmt.Sprintf("%d", seconds))
	}

	s.log.WithFields(logrus.Fields{
		"client": s.extractClientID(r),
		"path":   r.URL.Path,
		"limit":  info.Limit,
	}).Warn("Rate limit exceeded")

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}

// Package web serves the browser UI and JSON API for PDF analysis.
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/core/domain"
	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/core/ports/driving"
	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/logger"
)

//go:embed templates/*.html
var templateFS embed.FS

// ErrMissingAnalysisService is returned when the analysis service is not provided.
var ErrMissingAnalysisService = errors.New("web: analysis service is required")

// Server limits.
const (
	// maxFormBytes bounds form and JSON request bodies.
	maxFormBytes = 1 << 20

	// shutdownTimeout bounds graceful shutdown.
	shutdownTimeout = 10 * time.Second
)

// Config configures the web server.
type Config struct {
	// Addr is the listen address (default: 127.0.0.1:8501).
	Addr string

	// RateLimit is the sustained number of analysis requests per second.
	// Zero disables throttling.
	RateLimit float64

	// Burst is the number of analysis requests allowed at once (default: 1).
	Burst int
}

// Server serves the analysis UI and API.
type Server struct {
	analysis driving.AnalysisService
	addr     string
	limiter  *rate.Limiter
	tmpl     *template.Template
}

// NewServer creates a web server for analysis.
func NewServer(analysis driving.AnalysisService, cfg Config) (*Server, error) {
	if analysis == nil {
		return nil, ErrMissingAnalysisService
	}
	if cfg.Addr == "" {
		cfg.Addr = domain.DefaultServerAddr
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	tmpl, err := template.New("index.html").Funcs(template.FuncMap{
		"inc": func(i int) int { return i + 1 },
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	return &Server{
		analysis: analysis,
		addr:     cfg.Addr,
		limiter:  limiter,
		tmpl:     tmpl,
	}, nil
}

// Handler returns the HTTP handler with all routes and middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.Handle("POST /analyze", s.throttle(http.HandlerFunc(s.handleAnalyze)))
	mux.Handle("POST /api/answer", s.throttle(http.HandlerFunc(s.handleAPIAnswer)))
	mux.Handle("POST /api/batch", s.throttle(http.HandlerFunc(s.handleAPIBatch)))
	mux.HandleFunc("POST /api/invalidate", s.handleAPIInvalidate)
	mux.HandleFunc("GET /api/stats", s.handleAPIStats)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	return withRequestID(mux)
}

// Run listens on the configured address until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	return s.Serve(ctx, listener)
}

// Serve handles connections on listener until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	// Graceful shutdown when context is cancelled
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		httpServer.Shutdown(shutdownCtx) //nolint:errcheck
	}()

	logger.Info("Web UI listening on http://%s", listener.Addr())
	err := httpServer.Serve(listener)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

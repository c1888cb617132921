// Package server exposes interview actions over HTTP.
//
// Routes (also mounted under /api):
//
//	POST /interview?action=generate|evaluate|analyze
//	GET  /health
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/timvw/interview-coach/internal/interview"
)

// MaxBodyBytes caps request bodies.
const MaxBodyBytes = 1 << 20

const serviceName = "interview-coach"

// Options configures a Server.
type Options struct {
	// Provider and Model are reported by /health.
	Provider string
	Model    string
	// HasKey reports whether a credential is configured.
	HasKey  bool
	Offline bool

	// WriteTimeout should exceed the per-request gateway timeout.
	// Zero means 60s.
	WriteTimeout time.Duration

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Server routes HTTP requests to an Interviewer.
type Server struct {
	interviewer interview.Interviewer
	opts        Options
	logger      *slog.Logger
	router      *gin.Engine
}

// New builds the router. gin's mode is left to the caller.
func New(iv interview.Interviewer, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = 60 * time.Second
	}
	s := &Server{
		interviewer: iv,
		opts:        opts,
		logger:      opts.Logger,
	}
	s.initRouter()
	return s
}

func (s *Server) initRouter() {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Recovery())
	r.Use(requestID())
	r.Use(otelgin.Middleware(serviceName))
	r.Use(requestLogger(s.logger))
	r.Use(cors())
	r.Use(limitBody(MaxBodyBytes))

	for _, g := range []*gin.RouterGroup{&r.RouterGroup, r.Group("/api")} {
		g.POST("/interview", s.handleInterview)
		g.OPTIONS("/interview", preflight)
		g.GET("/health", s.handleHealth)
	}

	r.NoMethod(methodNotAllowed)
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})
	s.router = r
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      s.opts.WriteTimeout,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("interview server listening", "addr", addr,
			"provider", s.opts.Provider, "model", s.opts.Model, "offline", s.opts.Offline)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down interview server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/rickgao/thirteenf/internal/locator"
	"github.com/rickgao/thirteenf/internal/metrics"
	"github.com/rickgao/thirteenf/internal/model"
)

// Comparer is the subset of service.Comparer the handlers use.
type Comparer interface {
	Compare(ctx context.Context, fundID string) (*model.Comparison, error)
	Refresh(ctx context.Context, fundID string) (*model.Comparison, error)
	Locate(ctx context.Context, fundID string) (*locator.Located, error)
}

// StatsSource provides runtime counters for /api/stats.
type StatsSource interface {
	Collect() metrics.Snapshot
}

// HealthCheck reports the health of one component. A nil error is healthy.
type HealthCheck func(ctx context.Context) error

// Config holds server configuration.
type Config struct {
	Addr              string
	AllowOrigins      []string
	MaxRows           int           // Row limit for Markdown reports
	ReadHeaderTimeout time.Duration
	HealthTimeout     time.Duration
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Addr:              ":8080",
		MaxRows:           1000,
		ReadHeaderTimeout: 10 * time.Second,
		HealthTimeout:     5 * time.Second,
	}
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithHealthCheck adds a named component to /api/health.
func WithHealthCheck(name string, check HealthCheck) Option {
	return func(s *Server) {
		s.checks[name] = check
	}
}

// WithStats enables /api/stats.
func WithStats(src StatsSource) Option {
	return func(s *Server) {
		s.stats = src
	}
}

// Server serves the HTTP API.
type Server struct {
	cfg      Config
	comparer Comparer
	logger   *slog.Logger
	checks   map[string]HealthCheck
	stats    StatsSource
	engine   *gin.Engine

	mu       sync.Mutex
	http     *http.Server
	listener net.Listener
	wg       sync.WaitGroup
}

// New creates a Server and registers its routes.
func New(cfg Config, comparer Comparer, opts ...Option) *Server {
	defaults := DefaultConfig()
	if cfg.Addr == "" {
		cfg.Addr = defaults.Addr
	}
	if cfg.MaxRows <= 0 {
		cfg.MaxRows = defaults.MaxRows
	}
	if cfg.ReadHeaderTimeout <= 0 {
		cfg.ReadHeaderTimeout = defaults.ReadHeaderTimeout
	}
	if cfg.HealthTimeout <= 0 {
		cfg.HealthTimeout = defaults.HealthTimeout
	}

	s := &Server{
		cfg:      cfg,
		comparer: comparer,
		checks:   make(map[string]HealthCheck),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	s.engine = s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestID(), requestLogger(s.logger))
	if c, ok := corsConfig(s.cfg.AllowOrigins); ok {
		r.Use(cors.New(c))
	}

	api := r.Group("/api")
	api.GET("/health", s.health)
	api.GET("/compare/:cik", s.compare)
	api.GET("/filings/:cik", s.filings)
	if s.stats != nil {
		api.GET("/stats", func(c *gin.Context) {
			c.JSON(http.StatusOK, s.stats.Collect())
		})
	}

	r.NoRoute(func(c *gin.Context) {
		writeError(c, http.StatusNotFound, "route not found")
	})
	return r
}

func corsConfig(origins []string) (cors.Config, bool) {
	if len(origins) == 0 {
		return cors.Config{}, false
	}
	c := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", headerRequestID},
		ExposeHeaders: []string{"Content-Length", headerRequestID},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			c.AllowAllOrigins = true
			return c, true
		}
	}
	c.AllowOrigins = origins
	return c, true
}

// Start listens on the configured address and serves in the background.
// Listen errors are returned immediately.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.http != nil {
		return errors.New("server already started")
	}

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
	}

	s.listener = ln
	s.http = &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: s.cfg.ReadHeaderTimeout,
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("http server error", "err", err)
		}
	}()

	s.logger.Info("http server started", "addr", ln.Addr().String())
	return nil
}

// Addr returns the listening address, or the configured one before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.cfg.Addr
}

// Stop shuts the server down, waiting for in-flight requests until ctx ends.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	srv := s.http
	s.mu.Unlock()

	if srv == nil {
		return nil
	}

	s.logger.Info("stopping http server")
	err := srv.Shutdown(ctx)
	s.wg.Wait()

	if err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.logger.Info("http server stopped")
	return nil
}

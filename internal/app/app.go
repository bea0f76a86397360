package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rickgao/thirteenf/internal/cache"
	"github.com/rickgao/thirteenf/internal/config"
	"github.com/rickgao/thirteenf/internal/edgar"
	"github.com/rickgao/thirteenf/internal/locator"
	"github.com/rickgao/thirteenf/internal/ratelimit"
	"github.com/rickgao/thirteenf/internal/service"
	"github.com/rickgao/thirteenf/internal/store"
)

// App holds the wired components.
type App struct {
	Client    *edgar.Client
	Locator   *locator.Locator
	Cache     cache.Cache
	Documents *store.Documents // nil when the database is disabled
	Comparer  *service.Comparer

	pool *pgxpool.Pool
}

// NewLimiter builds the outbound limiter for cfg.
func NewLimiter(cfg config.RateLimitConfig) ratelimit.Limiter {
	switch cfg.Kind {
	case config.RateLimitNone:
		return ratelimit.Nop{}
	case config.RateLimitTokenBucket:
		return ratelimit.NewTokenBucket(cfg.Requests, cfg.Period)
	default:
		return ratelimit.NewWindow(cfg.Requests, cfg.Period)
	}
}

// NewCache builds the snapshot cache. MaxEntries of -1 disables caching.
func NewCache(cfg config.CacheConfig) cache.Cache {
	if cfg.MaxEntries < 0 {
		return cache.Nop{}
	}
	return cache.NewMemory(cache.Config{TTL: cfg.TTL, MaxEntries: cfg.MaxEntries})
}

// New wires the pipeline. cfg must already be validated. When the database
// is enabled New connects and creates the document table.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	a := &App{}

	a.Client = edgar.NewClient(
		cfg.Edgar.DataURL,
		cfg.Edgar.ArchivesURL,
		cfg.Edgar.UserAgent,
		edgar.WithTimeout(cfg.Edgar.Timeout),
		edgar.WithLimiter(NewLimiter(cfg.RateLimit)),
		edgar.WithLogger(logger),
	)

	a.Locator = locator.New(locator.Config{
		FormType:      cfg.Edgar.FormType,
		InfoTableName: cfg.Edgar.InfoTableName,
	}, a.Client, logger)

	a.Cache = NewCache(cfg.Cache)

	opts := []service.Option{
		service.WithCache(a.Cache),
		service.WithLogger(logger),
	}

	if cfg.Database.Enabled {
		logger.Info("connecting to database",
			"host", cfg.Database.Host,
			"port", cfg.Database.Port,
			"database", cfg.Database.Name,
		)
		pool, err := store.Connect(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		a.pool = pool

		a.Documents = store.NewDocuments(pool, logger)
		if err := a.Documents.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("ensure schema: %w", err)
		}
		opts = append(opts, service.WithStore(a.Documents))
		logger.Info("document store enabled")
	}

	a.Comparer = service.New(a.Locator, a.Client, opts...)
	return a, nil
}

// Ping checks the database connection. It succeeds when the database is
// disabled.
func (a *App) Ping(ctx context.Context) error {
	if a.pool == nil {
		return nil
	}
	return a.pool.Ping(ctx)
}

// Close releases the database pool.
func (a *App) Close() {
	if a.pool != nil {
		a.pool.Close()
	}
}

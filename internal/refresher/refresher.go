package refresher

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rickgao/thirteenf/internal/model"
)

// Comparer refreshes one fund.
type Comparer interface {
	Refresh(ctx context.Context, fundID string) (*model.Comparison, error)
}

// ResultHandler receives refreshed comparisons.
type ResultHandler interface {
	HandleComparison(c *model.Comparison) error
}

// ResultHandlerFunc is a function adapter for ResultHandler.
type ResultHandlerFunc func(*model.Comparison) error

func (f ResultHandlerFunc) HandleComparison(c *model.Comparison) error {
	return f(c)
}

// Config holds refresher configuration.
type Config struct {
	Interval    time.Duration // Refresh interval (default: 6h)
	Concurrency int           // Max funds refreshed at once (default: 2)
	Timeout     time.Duration // Per-fund timeout (default: 2m)
	Watchlist   []string      // Fund CIKs
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Interval:    6 * time.Hour,
		Concurrency: 2,
		Timeout:     2 * time.Minute,
	}
}

// Stats summarizes the last completed cycle.
type Stats struct {
	Cycles    int64     `json:"cycles"`
	Refreshed int64     `json:"refreshed"`
	Errors    int64     `json:"errors"`
	LastRun   time.Time `json:"last_run"`
}

// Refresher periodically refreshes every fund in the watchlist.
type Refresher struct {
	cfg      Config
	comparer Comparer
	handler  ResultHandler
	logger   *slog.Logger

	mu    sync.Mutex
	stats Stats

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a new Refresher. handler may be nil.
func New(cfg Config, comparer Comparer, handler ResultHandler, logger *slog.Logger) *Refresher {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultConfig().Interval
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	return &Refresher{
		cfg:      cfg,
		comparer: comparer,
		handler:  handler,
		logger:   logger,
	}
}

// Start begins the refresh loop. It does nothing when the watchlist is empty.
func (r *Refresher) Start(ctx context.Context) error {
	if len(r.cfg.Watchlist) == 0 {
		r.logger.Info("refresher disabled, empty watchlist")
		return nil
	}

	r.ctx, r.cancel = context.WithCancel(ctx)

	r.wg.Add(1)
	go r.run()

	r.logger.Info("refresher started",
		"interval", r.cfg.Interval,
		"concurrency", r.cfg.Concurrency,
		"funds", len(r.cfg.Watchlist),
	)

	return nil
}

// Stop gracefully shuts down the refresher.
func (r *Refresher) Stop(ctx context.Context) error {
	if r.cancel != nil {
		r.cancel()
	}

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		r.logger.Info("refresher stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stats returns counters accumulated over all cycles.
func (r *Refresher) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}

// run is the main refresh loop.
func (r *Refresher) run() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()

	// Refresh immediately on start.
	r.refreshAll(r.ctx)

	for {
		select {
		case <-r.ctx.Done():
			return
		case <-ticker.C:
			r.refreshAll(r.ctx)
		}
	}
}

// refreshAll refreshes every watched fund with bounded concurrency.
func (r *Refresher) refreshAll(ctx context.Context) {
	start := time.Now()

	// Semaphore for bounded concurrency.
	sem := make(chan struct{}, r.cfg.Concurrency)
	var wg sync.WaitGroup
	var refreshed, errors atomic.Int64

	for _, fundID := range r.cfg.Watchlist {
		wg.Add(1)
		go func(fundID string) {
			defer wg.Done()

			// Acquire semaphore slot.
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				return
			}

			if err := r.refreshFund(ctx, fundID); err != nil {
				r.logger.Warn("failed to refresh fund",
					"cik", fundID,
					"err", err,
				)
				errors.Add(1)
				return
			}

			refreshed.Add(1)
		}(fundID)
	}

	wg.Wait()

	r.mu.Lock()
	r.stats.Cycles++
	r.stats.Refreshed += refreshed.Load()
	r.stats.Errors += errors.Load()
	r.stats.LastRun = start
	r.mu.Unlock()

	r.logger.Info("refresh cycle complete",
		"funds", len(r.cfg.Watchlist),
		"refreshed", refreshed.Load(),
		"errors", errors.Load(),
		"duration", time.Since(start),
	)
}

// refreshFund refreshes a single fund and hands the result to the handler.
func (r *Refresher) refreshFund(ctx context.Context, fundID string) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	c, err := r.comparer.Refresh(ctx, fundID)
	if err != nil {
		return err
	}

	if r.handler != nil {
		if err := r.handler.HandleComparison(c); err != nil {
			return err
		}
	}

	return nil
}

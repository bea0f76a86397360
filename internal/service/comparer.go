package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/rickgao/thirteenf/internal/cache"
	"github.com/rickgao/thirteenf/internal/compare"
	"github.com/rickgao/thirteenf/internal/holdings"
	"github.com/rickgao/thirteenf/internal/locator"
	"github.com/rickgao/thirteenf/internal/model"
	"github.com/rickgao/thirteenf/internal/store"
)

// Locator finds the two latest filings of a fund.
type Locator interface {
	LocateTwoFilings(ctx context.Context, fundID string) (*locator.Located, error)
}

// Fetcher downloads raw documents.
type Fetcher interface {
	FetchDocument(ctx context.Context, url string) ([]byte, error)
}

// DocumentStore keeps raw documents by accession number.
type DocumentStore interface {
	Get(ctx context.Context, accession string) (store.Document, bool, error)
	Put(ctx context.Context, doc store.Document) error
}

// DefaultLoadTimeout bounds a shared load once it is detached from the
// caller that started it.
const DefaultLoadTimeout = 2 * time.Minute

// Option configures a Comparer.
type Option func(*Comparer)

// WithCache sets the snapshot cache. The default never caches.
func WithCache(c cache.Cache) Option {
	return func(s *Comparer) {
		s.cache = c
	}
}

// WithStore enables the document store.
func WithStore(ds DocumentStore) Option {
	return func(s *Comparer) {
		s.store = ds
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Comparer) {
		s.logger = logger
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Comparer) {
		s.now = now
	}
}

// WithLoadTimeout bounds each shared load.
func WithLoadTimeout(d time.Duration) Option {
	return func(s *Comparer) {
		s.loadTimeout = d
	}
}

// Comparer produces comparisons for funds. Safe for concurrent use.
type Comparer struct {
	locator Locator
	fetcher Fetcher
	cache   cache.Cache
	store   DocumentStore
	logger  *slog.Logger
	now     func() time.Time

	loadTimeout time.Duration
	group       singleflight.Group
}

// New creates a Comparer.
func New(loc Locator, fetcher Fetcher, opts ...Option) *Comparer {
	c := &Comparer{
		locator: loc,
		fetcher: fetcher,
		cache:   cache.Nop{},
		logger:  slog.Default(),
		now:     time.Now,

		loadTimeout: DefaultLoadTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compare returns the comparison of the two latest filings of fundID,
// reconciling cached snapshots when available.
//
// Failures are *model.StageError values; use errors.Is with the model
// sentinels to classify them.
func (c *Comparer) Compare(ctx context.Context, fundID string) (*model.Comparison, error) {
	cik, err := normalize(fundID)
	if err != nil {
		return nil, err
	}

	if pair, ok := c.cache.Get(cik); ok {
		c.logger.Debug("snapshot cache hit", "cik", cik)
		return c.build(pair, true), nil
	}

	pair, err := c.load(ctx, cik)
	if err != nil {
		return nil, err
	}
	return c.build(pair, false), nil
}

// Refresh discards any cached snapshots for fundID and compares again.
func (c *Comparer) Refresh(ctx context.Context, fundID string) (*model.Comparison, error) {
	cik, err := normalize(fundID)
	if err != nil {
		return nil, err
	}

	c.cache.Evict(cik)

	pair, err := c.load(ctx, cik)
	if err != nil {
		return nil, err
	}
	return c.build(pair, false), nil
}

// Locate resolves the two latest filings without fetching them.
func (c *Comparer) Locate(ctx context.Context, fundID string) (*locator.Located, error) {
	return c.locator.LocateTwoFilings(ctx, fundID)
}

// Snapshots returns the parsed snapshot pair for fundID, from cache when
// possible. The bool reports a cache hit.
func (c *Comparer) Snapshots(ctx context.Context, fundID string) (model.SnapshotPair, bool, error) {
	cik, err := normalize(fundID)
	if err != nil {
		return model.SnapshotPair{}, false, err
	}
	if pair, ok := c.cache.Get(cik); ok {
		return pair, true, nil
	}
	pair, err := c.load(ctx, cik)
	return pair, false, err
}

// load fetches and parses both filings. Concurrent loads of the same fund
// share one execution and its result. The shared execution does not inherit
// the starting caller's cancellation; each caller stops waiting when its own
// ctx is done.
func (c *Comparer) load(ctx context.Context, cik string) (model.SnapshotPair, error) {
	ch := c.group.DoChan(cik, func() (any, error) {
		lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.loadTimeout)
		defer cancel()
		return c.fetchPair(lctx, cik)
	})

	select {
	case <-ctx.Done():
		return model.SnapshotPair{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return model.SnapshotPair{}, res.Err
		}
		if res.Shared {
			c.logger.Debug("joined in-flight load", "cik", cik)
		}
		return res.Val.(model.SnapshotPair), nil
	}
}

func (c *Comparer) fetchPair(ctx context.Context, cik string) (model.SnapshotPair, error) {
	start := c.now()

	loc, err := c.locator.LocateTwoFilings(ctx, cik)
	if err != nil {
		return model.SnapshotPair{}, err
	}

	var current, prior model.Snapshot
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		current, err = c.snapshot(gctx, loc.Current)
		return err
	})
	g.Go(func() error {
		var err error
		prior, err = c.snapshot(gctx, loc.Prior)
		return err
	})
	if err := g.Wait(); err != nil {
		return model.SnapshotPair{}, err
	}

	pair := model.SnapshotPair{
		FundID:          loc.FundID,
		FundName:        loc.FundName,
		Current:         current,
		Prior:           prior,
		Meta:            loc.Meta,
		CurrentLocation: loc.Current,
		PriorLocation:   loc.Prior,
		FetchedAt:       c.now(),
	}
	c.cache.Put(pair)

	c.logger.Info("loaded filings",
		"cik", cik,
		"current_positions", len(current),
		"prior_positions", len(prior),
		"duration", c.now().Sub(start),
	)

	return pair, nil
}

// snapshot fetches and parses one information table.
func (c *Comparer) snapshot(ctx context.Context, loc model.DocumentLocation) (model.Snapshot, error) {
	raw, err := c.document(ctx, loc)
	if err != nil {
		return nil, &model.StageError{
			FundID:    loc.FundID,
			Stage:     model.StageFetch,
			Accession: loc.AccessionNumber,
			Err:       fmt.Errorf("%w: %w", model.ErrRetrieval, err),
		}
	}

	snap, err := holdings.Parse(raw)
	if err != nil {
		return nil, &model.StageError{
			FundID:    loc.FundID,
			Stage:     model.StageParse,
			Accession: loc.AccessionNumber,
			Err:       err,
		}
	}
	return snap, nil
}

// document returns the raw document, from the store when possible. Store
// failures are logged and never fail the request.
func (c *Comparer) document(ctx context.Context, loc model.DocumentLocation) ([]byte, error) {
	if c.store != nil {
		doc, ok, err := c.store.Get(ctx, loc.AccessionNumber)
		switch {
		case err != nil:
			c.logger.Warn("document store read failed", "accession", loc.AccessionNumber, "err", err)
		case ok:
			c.logger.Debug("document store hit", "accession", loc.AccessionNumber)
			return doc.Content, nil
		}
	}

	raw, err := c.fetcher.FetchDocument(ctx, loc.URL)
	if err != nil {
		return nil, err
	}

	if c.store != nil {
		err := c.store.Put(ctx, store.Document{
			AccessionNumber: loc.AccessionNumber,
			FundID:          loc.FundID,
			URL:             loc.URL,
			Content:         raw,
			FetchedAt:       c.now(),
		})
		if err != nil {
			c.logger.Warn("document store write failed", "accession", loc.AccessionNumber, "err", err)
		}
	}

	return raw, nil
}

func (c *Comparer) build(pair model.SnapshotPair, cached bool) *model.Comparison {
	rows, summary := compare.Reconcile(pair.Current, pair.Prior)
	return &model.Comparison{
		RunID:       uuid.New(),
		FundID:      pair.FundID,
		FundName:    pair.FundName,
		Meta:        pair.Meta,
		Summary:     summary,
		Rows:        rows,
		Cached:      cached,
		GeneratedAt: c.now(),
	}
}

func normalize(fundID string) (string, error) {
	cik, err := locator.NormalizeFundID(fundID)
	if err != nil {
		return "", &model.StageError{FundID: fundID, Stage: model.StageLocate, Err: err}
	}
	return cik, nil
}

package metrics

import (
	"time"

	"github.com/rickgao/thirteenf/internal/refresher"
	"github.com/rickgao/thirteenf/internal/store"
)

// CacheSource reports the number of cached funds.
type CacheSource interface {
	Len() int
}

// StoreSource reports document store counters.
type StoreSource interface {
	Stats() store.Metrics
}

// RefresherSource reports refresher counters.
type RefresherSource interface {
	Stats() refresher.Stats
}

// Snapshot is a point-in-time view of all registered sources. Sections for
// unregistered sources are omitted.
type Snapshot struct {
	StartedAt     time.Time        `json:"started_at"`
	UptimeSeconds int64            `json:"uptime_seconds"`
	CacheEntries  *int             `json:"cache_entries,omitempty"`
	Store         *store.Metrics   `json:"store,omitempty"`
	Refresher     *refresher.Stats `json:"refresher,omitempty"`
}

// Option configures a Collector.
type Option func(*Collector)

// WithCache registers the snapshot cache.
func WithCache(c CacheSource) Option {
	return func(m *Collector) { m.cache = c }
}

// WithStore registers the document store.
func WithStore(s StoreSource) Option {
	return func(m *Collector) { m.store = s }
}

// WithRefresher registers the refresher.
func WithRefresher(r RefresherSource) Option {
	return func(m *Collector) { m.refresher = r }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Collector) { m.now = now }
}

// Collector reads counters from its sources on demand.
type Collector struct {
	cache     CacheSource
	store     StoreSource
	refresher RefresherSource
	now       func() time.Time
	startedAt time.Time
}

// NewCollector creates a Collector. Uptime is measured from this call.
func NewCollector(opts ...Option) *Collector {
	m := &Collector{now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	m.startedAt = m.now()
	return m
}

// Collect reads every registered source.
func (m *Collector) Collect() Snapshot {
	s := Snapshot{
		StartedAt:     m.startedAt,
		UptimeSeconds: int64(m.now().Sub(m.startedAt) / time.Second),
	}
	if m.cache != nil {
		n := m.cache.Len()
		s.CacheEntries = &n
	}
	if m.store != nil {
		st := m.store.Stats()
		s.Store = &st
	}
	if m.refresher != nil {
		rs := m.refresher.Stats()
		s.Refresher = &rs
	}
	return s
}

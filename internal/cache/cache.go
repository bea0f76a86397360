package cache

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/rickgao/thirteenf/internal/model"
)

// Defaults for the in-memory cache.
const (
	DefaultTTL        = 6 * time.Hour
	DefaultMaxEntries = 256
)

// Cache stores snapshot pairs keyed by normalized fund identifier.
type Cache interface {
	Get(fundID string) (model.SnapshotPair, bool)
	Put(pair model.SnapshotPair)
	Evict(fundID string)
	Len() int
}

// Config holds cache configuration.
type Config struct {
	TTL        time.Duration // Zero disables expiry
	MaxEntries int           // Zero means unbounded
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		TTL:        DefaultTTL,
		MaxEntries: DefaultMaxEntries,
	}
}

// Option configures a Memory cache.
type Option func(*Memory)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Memory) {
		m.now = now
	}
}

type entry struct {
	pair     model.SnapshotPair
	storedAt time.Time
}

// Memory is a TTL and LRU bounded cache backed by an expirable LRU. Expiry is
// also checked against the configured clock on Get. Safe for concurrent use.
type Memory struct {
	cfg Config
	now func() time.Time
	lru *expirable.LRU[string, entry]
}

// NewMemory creates an empty Memory cache.
func NewMemory(cfg Config, opts ...Option) *Memory {
	m := &Memory{
		cfg: cfg,
		now: time.Now,
		lru: expirable.NewLRU[string, entry](cfg.MaxEntries, nil, cfg.TTL),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Get returns the pair for fundID if present and not expired.
func (m *Memory) Get(fundID string) (model.SnapshotPair, bool) {
	e, ok := m.lru.Get(fundID)
	if !ok {
		return model.SnapshotPair{}, false
	}
	if m.cfg.TTL > 0 && m.now().Sub(e.storedAt) >= m.cfg.TTL {
		m.lru.Remove(fundID)
		return model.SnapshotPair{}, false
	}
	return e.pair, true
}

// Put stores pair under pair.FundID, replacing any previous value.
func (m *Memory) Put(pair model.SnapshotPair) {
	m.lru.Add(pair.FundID, entry{pair: pair, storedAt: m.now()})
}

// Evict removes fundID.
func (m *Memory) Evict(fundID string) {
	m.lru.Remove(fundID)
}

// Len returns the number of stored entries, including expired ones not yet
// purged.
func (m *Memory) Len() int {
	return m.lru.Len()
}

var (
	_ Cache = (*Memory)(nil)
	_ Cache = Nop{}
)

// Nop never stores anything.
type Nop struct{}

func (Nop) Get(string) (model.SnapshotPair, bool) { return model.SnapshotPair{}, false }
func (Nop) Put(model.SnapshotPair)                {}
func (Nop) Evict(string)                          {}
func (Nop) Len() int                              { return 0 }

package app

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/rickgao/thirteenf/internal/cache"
	"github.com/rickgao/thirteenf/internal/config"
)

func TestNewLimiter(t *testing.T) {
	tests := []struct {
		kind string
		want string
	}{
		{config.RateLimitWindow, "*ratelimit.Window"},
		{config.RateLimitTokenBucket, "*ratelimit.TokenBucket"},
		{config.RateLimitNone, "ratelimit.Nop"},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			l := NewLimiter(config.RateLimitConfig{Kind: tt.kind, Requests: 10, Period: time.Second})
			if got := fmt.Sprintf("%T", l); got != tt.want {
				t.Errorf("NewLimiter(%q) = %s, want %s", tt.kind, got, tt.want)
			}
		})
	}
}

func TestNewCache(t *testing.T) {
	if _, ok := NewCache(config.CacheConfig{MaxEntries: -1}).(cache.Nop); !ok {
		t.Error("MaxEntries -1 should disable caching")
	}
	if _, ok := NewCache(config.CacheConfig{TTL: time.Hour, MaxEntries: 10}).(*cache.Memory); !ok {
		t.Error("expected memory cache")
	}
}

func TestNewWithoutDatabase(t *testing.T) {
	cfg := config.Default()
	cfg.Edgar.UserAgent = "Research research@example.com"

	a, err := New(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer a.Close()

	if a.Comparer == nil || a.Locator == nil || a.Client == nil {
		t.Fatal("components not wired")
	}
	if a.Documents != nil {
		t.Error("document store enabled without database")
	}
	if err := a.Ping(context.Background()); err != nil {
		t.Errorf("Ping() = %v, want nil without database", err)
	}
}

package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter hands out permits for outbound requests.
type Limiter interface {
	// Wait blocks until a permit is available or ctx is done.
	Wait(ctx context.Context) error
}

// Default quota for the SEC endpoints.
const (
	DefaultRequests = 10
	DefaultPeriod   = time.Second
)

// SleepFunc suspends the caller for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Window is a fixed-window limiter: a request counter plus the timestamp the
// current window started. Once the quota is used up callers sleep until the
// window elapses, then the counter resets.
type Window struct {
	limit  int
	period time.Duration
	now    func() time.Time
	sleep  SleepFunc

	mu          sync.Mutex
	count       int
	windowStart time.Time
}

// WindowOption configures a Window.
type WindowOption func(*Window)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) WindowOption {
	return func(w *Window) {
		w.now = now
	}
}

// WithSleep replaces the context-aware sleep.
func WithSleep(sleep SleepFunc) WindowOption {
	return func(w *Window) {
		w.sleep = sleep
	}
}

// NewWindow creates a limiter allowing limit requests per period.
func NewWindow(limit int, period time.Duration, opts ...WindowOption) *Window {
	if limit < 1 {
		limit = 1
	}
	w := &Window{
		limit:  limit,
		period: period,
		now:    time.Now,
		sleep:  sleepContext,
	}
	for _, opt := range opts {
		opt(w)
	}
	w.windowStart = w.now()
	return w
}

// Wait implements Limiter.
func (w *Window) Wait(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		w.mu.Lock()
		now := w.now()
		if now.Sub(w.windowStart) >= w.period {
			w.windowStart = now
			w.count = 0
		}
		if w.count < w.limit {
			w.count++
			w.mu.Unlock()
			return nil
		}
		remaining := w.period - now.Sub(w.windowStart)
		w.mu.Unlock()

		if err := w.sleep(ctx, remaining); err != nil {
			return err
		}
	}
}

// Stats returns the permits taken in the current window.
func (w *Window) Stats() (count int, windowStart time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.count, w.windowStart
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// TokenBucket smooths requests evenly across the period instead of
// allowing a burst at the start of each window.
type TokenBucket struct {
	limiter *rate.Limiter
}

// NewTokenBucket allows limit requests per period with a burst of limit.
func NewTokenBucket(limit int, period time.Duration) *TokenBucket {
	if limit < 1 {
		limit = 1
	}
	every := rate.Every(period / time.Duration(limit))
	return &TokenBucket{limiter: rate.NewLimiter(every, limit)}
}

// Wait implements Limiter.
func (t *TokenBucket) Wait(ctx context.Context) error {
	return t.limiter.Wait(ctx)
}

// Nop never blocks. Useful in tests.
type Nop struct{}

// Wait implements Limiter.
func (Nop) Wait(ctx context.Context) error {
	return ctx.Err()
}

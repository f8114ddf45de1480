package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter throttles repeated attempts per key. Allow counts the attempt
// and reports whether it is within the window's budget. Used at the
// admin credential exchange to slow brute-force guessing.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// Disabled returns a limiter that always allows. Used when no redis
// endpoint is configured; throttling is best-effort, never a hard
// dependency.
func Disabled() Limiter { return nopLimiter{} }

type nopLimiter struct{}

func (nopLimiter) Allow(context.Context, string) (bool, error) { return true, nil }

// MemoryLimiter is a fixed-window in-process limiter for tests and
// single-instance deployments.
type MemoryLimiter struct {
	limit  int
	window time.Duration
	clock  func() time.Time

	mu      sync.Mutex
	windows map[string]*window
}

type window struct {
	start time.Time
	count int
}

func NewMemoryLimiter(limit int, windowSize time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		limit:   limit,
		window:  windowSize,
		clock:   time.Now,
		windows: make(map[string]*window),
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock()
	w, ok := l.windows[key]
	if !ok || now.Sub(w.start) >= l.window {
		w = &window{start: now}
		l.windows[key] = w
	}
	w.count++
	return w.count <= l.limit, nil
}

package http

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"pocket/internal/cache"
)

const (
	// defaultRateLimit is how many writes one client may send per window.
	defaultRateLimit = 60
	// maxTrackedClients bounds the limiter's memory; the least recently seen
	// client is forgotten first.
	maxTrackedClients = 10000
)

// rateLimiter is a fixed-window limiter keyed by client IP. A client's window
// opens with its first write and lives in an LRU entry that expires with it.
type rateLimiter struct {
	mu          sync.Mutex
	windows     *cache.LRU[*clientWindow]
	limit       int
	window      time.Duration
	stopJanitor context.CancelFunc
}

type clientWindow struct {
	start    time.Time
	requests int
}

func newRateLimiter(limit int, window time.Duration) *rateLimiter {
	if limit <= 0 {
		limit = defaultRateLimit
	}
	if window <= 0 {
		window = time.Minute
	}
	ctx, cancel := context.WithCancel(context.Background())
	rl := &rateLimiter{
		windows:     cache.NewLRU[*clientWindow](maxTrackedClients, window),
		limit:       limit,
		window:      window,
		stopJanitor: cancel,
	}
	go cache.RunJanitor(ctx, 5*time.Minute, nil, rl.windows)
	return rl
}

func (rl *rateLimiter) stop() {
	rl.stopJanitor()
}

// allow counts one write from clientIP. When the client is over its limit it
// returns false and how long until its window closes.
func (rl *rateLimiter) allow(clientIP string, metrics *securityMetrics) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	w, ok := rl.windows.Get(clientIP)
	if !ok {
		rl.windows.Set(clientIP, &clientWindow{start: time.Now(), requests: 1})
		return true, 0
	}

	w.requests++
	if w.requests <= rl.limit {
		return true, 0
	}
	if metrics != nil {
		atomic.AddInt64(&metrics.rateLimitHits, 1)
	}
	return false, max(rl.window-time.Since(w.start), 0)
}

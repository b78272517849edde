package ratelimit

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"
)

// Limiter allows a fixed number of requests per client within each window.
type Limiter struct {
	mu      sync.Mutex
	clients map[string]*clientInfo
	now     func() time.Time

	limit  int
	window time.Duration
	idle   time.Duration

	rejected atomic.Int64
}

type clientInfo struct {
	windowStart time.Time
	lastSeen    time.Time
	requests    int
}

// Config holds rate limiter configuration
type Config struct {
	RequestsPerMinute int
	// Window defaults to one minute.
	Window time.Duration
	// IdleTimeout is how long an inactive client stays tracked.
	IdleTimeout time.Duration
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		RequestsPerMinute: 60,
		Window:            time.Minute,
		IdleTimeout:       10 * time.Minute,
	}
}

func NewLimiter(config Config) *Limiter {
	def := DefaultConfig()
	if config.RequestsPerMinute <= 0 {
		config.RequestsPerMinute = def.RequestsPerMinute
	}
	if config.Window <= 0 {
		config.Window = def.Window
	}
	if config.IdleTimeout < config.Window {
		config.IdleTimeout = max(def.IdleTimeout, config.Window)
	}
	return &Limiter{
		clients: make(map[string]*clientInfo),
		now:     time.Now,
		limit:   config.RequestsPerMinute,
		window:  config.Window,
		idle:    config.IdleTimeout,
	}
}

// Allow records a request from key. When the limit is exhausted it returns
// false and how long until the client's window resets.
func (l *Limiter) Allow(key string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	c, ok := l.clients[key]
	if !ok || now.Sub(c.windowStart) >= l.window {
		l.clients[key] = &clientInfo{windowStart: now, lastSeen: now, requests: 1}
		return true, 0
	}

	c.lastSeen = now
	if c.requests >= l.limit {
		l.rejected.Add(1)
		return false, c.windowStart.Add(l.window).Sub(now)
	}
	c.requests++
	return true, 0
}

// Prune drops clients idle for longer than the idle timeout and returns how
// many were removed.
func (l *Limiter) Prune() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-l.idle)
	removed := 0
	for key, c := range l.clients {
		if c.lastSeen.Before(cutoff) {
			delete(l.clients, key)
			removed++
		}
	}
	return removed
}

// Run prunes idle clients every interval until ctx is done.
func (l *Limiter) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = l.idle
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.Prune()
		case <-ctx.Done():
			return nil
		}
	}
}

// Stats for monitoring rate limit behaviour
type Stats struct {
	Limit    int   `json:"limit_per_window"`
	Clients  int   `json:"clients"`
	Rejected int64 `json:"rejected"`
}

func (l *Limiter) Stats() Stats {
	l.mu.Lock()
	clients := len(l.clients)
	l.mu.Unlock()
	return Stats{Limit: l.limit, Clients: clients, Rejected: l.rejected.Load()}
}

// Middleware rejects requests over the limit. The client key comes from
// extractKey; onLimit writes the rejection after Retry-After is set.
func (l *Limiter) Middleware(extractKey func(*http.Request) string, onLimit func(http.ResponseWriter, *http.Request)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			allowed, retryAfter := l.Allow(extractKey(r))
			if !allowed {
				w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
				if onLimit != nil {
					onLimit(w, r)
				} else {
					http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
				}
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

package ratelimit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(limit int) (*Limiter, *time.Time) {
	now := time.Date(2026, 2, 12, 10, 0, 0, 0, time.UTC)
	l := NewLimiter(Config{RequestsPerMinute: limit})
	l.now = func() time.Time { return now }
	return l, &now
}

func TestAllowWithinWindow(t *testing.T) {
	l, now := newTestLimiter(3)

	for i := 0; i < 3; i++ {
		ok, _ := l.Allow("10.0.0.1")
		require.True(t, ok, "request %d", i+1)
	}

	*now = now.Add(20 * time.Second)
	ok, retry := l.Allow("10.0.0.1")
	assert.False(t, ok)
	assert.Equal(t, 40*time.Second, retry)

	ok, _ = l.Allow("10.0.0.2")
	assert.True(t, ok, "clients are limited independently")

	*now = now.Add(40 * time.Second)
	ok, _ = l.Allow("10.0.0.1")
	assert.True(t, ok, "new window")

	assert.Equal(t, Stats{Limit: 3, Clients: 2, Rejected: 1}, l.Stats())
}

func TestSteadyTrafficStillResets(t *testing.T) {
	l, now := newTestLimiter(2)

	allowed := 0
	for i := 0; i < 12; i++ {
		if ok, _ := l.Allow("c"); ok {
			allowed++
		}
		*now = now.Add(10 * time.Second)
	}
	assert.Equal(t, 4, allowed, "two per minute over two minutes")
}

func TestPruneIdleClients(t *testing.T) {
	l, now := newTestLimiter(5)
	l.Allow("old")
	*now = now.Add(11 * time.Minute)
	l.Allow("fresh")

	assert.Equal(t, 1, l.Prune())
	assert.Equal(t, 1, l.Stats().Clients)
}

func TestMiddlewareRejects(t *testing.T) {
	l, _ := newTestLimiter(1)
	h := l.Middleware(func(r *http.Request) string { return r.RemoteAddr }, nil)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
}

func TestRunStopsWithContext(t *testing.T) {
	l, _ := newTestLimiter(1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, l.Run(ctx, time.Millisecond))
}

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiterBlocksBurst(t *testing.T) {
	h := NewRateLimiter(0.001, 2).Handler(okHandler())

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/checkout/sessions", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	req := httptest.NewRequest(http.MethodPost, "/checkout/sessions", nil)
	req.RemoteAddr = "10.0.0.2:5555"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code, "other clients have their own bucket")
}

func TestRateLimiterSkipsPreflight(t *testing.T) {
	h := NewRateLimiter(0.001, 1).Handler(okHandler())
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodOptions, "/checkout/sessions", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestRateLimiterSweepDropsIdleClients(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return clock }

	rl.allow("10.0.0.1")
	clock = clock.Add(9 * time.Minute)
	rl.allow("10.0.0.2")
	assert.Len(t, rl.limiters, 2, "allow does not evict")

	clock = clock.Add(2 * time.Minute)
	rl.Sweep()
	assert.Len(t, rl.limiters, 1)
	assert.Contains(t, rl.limiters, "10.0.0.2")
}

func TestRateLimiterRunStopsWithContext(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		rl.Run(ctx, time.Millisecond)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}

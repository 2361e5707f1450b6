package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-leads-backend/internal/ratelimit"
)

// brokenStore fails every operation, simulating an unreachable Redis.
type brokenStore struct{}

func (brokenStore) Count(context.Context, string) (int, error) {
	return 0, errors.New("connection refused")
}

func (brokenStore) Incr(context.Context, string, time.Duration) error {
	return errors.New("connection refused")
}

func newLimitedRouter(store ratelimit.Store, max int, window time.Duration) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/submit", RateLimit(store, max, window, KeyByClientIP()), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	return r
}

func post(r *gin.Engine) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/submit", nil)
	req.RemoteAddr = "203.0.113.7:52100"
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimit_AllowsUpToMax(t *testing.T) {
	r := newLimitedRouter(ratelimit.NewMemoryStore(), 3, time.Hour)

	for i := 0; i < 3; i++ {
		if w := post(r); w.Code != http.StatusOK {
			t.Fatalf("request %d: status %d, want 200", i+1, w.Code)
		}
	}
	if w := post(r); w.Code != http.StatusTooManyRequests {
		t.Fatalf("request over limit: status %d, want 429", w.Code)
	}
}

func TestRateLimit_WindowExpiryReadmits(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	store := ratelimit.NewMemoryStore(ratelimit.WithClock(func() time.Time { return now }))
	r := newLimitedRouter(store, 1, time.Hour)

	if w := post(r); w.Code != http.StatusOK {
		t.Fatalf("first request: %d", w.Code)
	}
	if w := post(r); w.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: status %d, want 429", w.Code)
	}

	now = now.Add(time.Hour + time.Minute)
	if w := post(r); w.Code != http.StatusOK {
		t.Fatalf("request after window: status %d, want 200", w.Code)
	}
}

func TestRateLimit_FailsOpenOnStoreError(t *testing.T) {
	r := newLimitedRouter(brokenStore{}, 1, time.Hour)

	// Every request passes: a dead counter store never blocks submissions.
	for i := 0; i < 5; i++ {
		if w := post(r); w.Code != http.StatusOK {
			t.Fatalf("request %d: status %d, want 200 (fail open)", i+1, w.Code)
		}
	}
}

func TestRateLimit_SeparateClientsSeparateCounters(t *testing.T) {
	r := newLimitedRouter(ratelimit.NewMemoryStore(), 1, time.Hour)

	if w := post(r); w.Code != http.StatusOK {
		t.Fatalf("first client: %d", w.Code)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/submit", nil)
	req.RemoteAddr = "198.51.100.9:41000"
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("other client should have its own counter, got %d", w.Code)
	}
}

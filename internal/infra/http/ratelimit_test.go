package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"paayo-backend/internal/domain"
)

func TestTierLimiterAllow(t *testing.T) {
	l := NewTierLimiter("test", 3)
	defer l.Close()

	assert.True(t, l.Allow("a"))
	assert.True(t, l.Allow("a"))
	assert.True(t, l.Allow("a"))
	assert.False(t, l.Allow("a"), "burst exhausted")

	// A different key has its own bucket.
	assert.True(t, l.Allow("b"))
}

func TestTierLimiterMiddleware(t *testing.T) {
	l := NewTierLimiter("test", 1)
	defer l.Close()

	h := l.Middleware(ScopeIP)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/posts", nil)
	req.RemoteAddr = "203.0.113.7:1234"

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "rate limit exceeded\n", rec.Body.String())
}

func TestTierLimiterEviction(t *testing.T) {
	l := NewTierLimiter("test", 1)
	defer l.Close()

	l.Allow("stale")
	l.evictStale(time.Now().Add(time.Minute))

	l.mu.Lock()
	_, ok := l.buckets["stale"]
	l.mu.Unlock()
	assert.False(t, ok)
}

func TestScopes(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.7:9999"

	assert.Equal(t, "203.0.113.7", ScopeIP(req))
	assert.Equal(t, "203.0.113.7", ScopeDevice(req), "no device header falls back to ip")

	req.Header.Set("X-Device-Id", "dev-42")
	assert.Equal(t, "dev-42", ScopeDevice(req))

	assert.Equal(t, "203.0.113.7", ScopeUser(req), "anonymous falls back to ip")
	user := &domain.AuthenticatedUser{ID: "user-1", Role: domain.RoleEditor}
	req = req.WithContext(context.WithValue(req.Context(), ctxKeyUser, user))
	assert.Equal(t, "user-1", ScopeUser(req))
}

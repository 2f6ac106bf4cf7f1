package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCacheControl(t *testing.T) {
	h := CacheControl(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name   string
		method string
		path   string
		want   string
	}{
		{"hero slides cache long", http.MethodGet, "/api/hero-slides", cacheLong},
		{"regions cache medium", http.MethodGet, "/api/regions", cacheMedium},
		{"posts cache short", http.MethodGet, "/api/posts/some-slug", cacheShort},
		{"search cache short", http.MethodGet, "/api/search", cacheShort},
		{"uploads immutable", http.MethodGet, "/uploads/abc.avif", cacheImmutable},
		{"notifications never cached", http.MethodGet, "/api/notifications", cacheNoStore},
		{"health cache long", http.MethodGet, "/api/health", cacheLong},
		{"unknown path never cached", http.MethodGet, "/api/something-else", cacheNoStore},
		{"mutating method never cached", http.MethodPost, "/api/posts", cacheNoStore},
		{"delete never cached", http.MethodDelete, "/api/hero-slides/x", cacheNoStore},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Header().Get("Cache-Control"))
		})
	}
}

func TestCacheControlKeepsHandlerHeader(t *testing.T) {
	h := CacheControl(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/hero-slides", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}

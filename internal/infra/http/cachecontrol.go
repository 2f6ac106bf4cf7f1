package http

import (
	"net/http"
	"strings"
)

const (
	cacheNoStore   = "no-store"
	cacheShort     = "public, max-age=60, stale-while-revalidate=30"
	cacheMedium    = "public, max-age=300, stale-while-revalidate=60"
	cacheLong      = "public, max-age=3600, stale-while-revalidate=300"
	cacheImmutable = "public, max-age=31536000, immutable"
)

// cachePolicies maps URI path prefixes to Cache-Control values for GET
// responses. First match wins; order long prefixes before short ones.
var cachePolicies = []struct {
	prefix string
	value  string
}{
	{"/api/health", cacheLong},
	{"/api/hero-slides", cacheLong},
	{"/api/regions", cacheMedium},
	{"/api/tags", cacheMedium},
	{"/api/posts", cacheShort},
	{"/api/videos", cacheShort},
	{"/api/photos", cacheShort},
	{"/api/photo-features", cacheShort},
	{"/api/hotels", cacheShort},
	{"/api/search", cacheShort},
	{"/api/notifications", cacheNoStore},
	{"/api/users", cacheNoStore},
	{"/api/views", cacheNoStore},
	{"/api/content", cacheNoStore},
	{"/uploads/", cacheImmutable},
}

// CacheControl decorates responses with the per-path cache policy.
// Mutating methods are always no-store, and a Cache-Control header set by
// the handler is never overridden.
func CacheControl(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(&cacheControlWriter{ResponseWriter: w, request: r}, r)
	})
}

type cacheControlWriter struct {
	http.ResponseWriter
	request     *http.Request
	wroteHeader bool
}

func (w *cacheControlWriter) WriteHeader(status int) {
	if !w.wroteHeader {
		w.wroteHeader = true
		if w.Header().Get("Cache-Control") == "" {
			w.Header().Set("Cache-Control", policyFor(w.request))
		}
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *cacheControlWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

// Flush keeps SSE streaming working through the wrapper.
func (w *cacheControlWriter) Flush() {
	if flusher, ok := w.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func policyFor(r *http.Request) string {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		return cacheNoStore
	}
	for _, p := range cachePolicies {
		if strings.HasPrefix(r.URL.Path, p.prefix) {
			return p.value
		}
	}
	return cacheNoStore
}

package http

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"paayo-backend/internal/infra/metrics"
)

// TierLimiter is one named rate-limit tier: an in-memory token bucket per
// scope key with background eviction of stale buckets. Scope keys are a
// client IP, the X-Device-Id header or the authenticated user id.
type TierLimiter struct {
	name     string
	rate     rate.Limit
	burst    int
	mu       sync.Mutex
	buckets  map[string]*bucketEntry
	stopOnce sync.Once
	stop     chan struct{}
}

type bucketEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewTierLimiter builds a tier allowing perMinute requests per scope key.
func NewTierLimiter(name string, perMinute int) *TierLimiter {
	l := &TierLimiter{
		name:    name,
		rate:    rate.Limit(float64(perMinute) / 60.0),
		burst:   perMinute,
		buckets: make(map[string]*bucketEntry),
		stop:    make(chan struct{}),
	}
	go l.gcLoop(5 * time.Minute)
	return l
}

// Allow consumes one token for the scope key.
func (l *TierLimiter) Allow(key string) bool {
	l.mu.Lock()
	entry, ok := l.buckets[key]
	if !ok {
		entry = &bucketEntry{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.buckets[key] = entry
	}
	entry.lastSeen = time.Now()
	l.mu.Unlock()
	return entry.limiter.Allow()
}

// Close stops the GC goroutine.
func (l *TierLimiter) Close() {
	l.stopOnce.Do(func() { close(l.stop) })
}

func (l *TierLimiter) gcLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
			l.evictStale(time.Now().Add(-time.Hour))
		}
	}
}

func (l *TierLimiter) evictStale(cutoff time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, entry := range l.buckets {
		if entry.lastSeen.Before(cutoff) {
			delete(l.buckets, key)
		}
	}
}

// Middleware rejects over-limit requests with 429 and a short text body.
func (l *TierLimiter) Middleware(scope func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.Allow(scope(r)) {
				metrics.RateLimited.WithLabelValues(l.name).Inc()
				w.Header().Set("Content-Type", "text/plain; charset=utf-8")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte("rate limit exceeded\n"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ScopeIP keys by client IP.
func ScopeIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// ScopeDevice keys by the X-Device-Id header, falling back to IP.
func ScopeDevice(r *http.Request) string {
	if device := r.Header.Get("X-Device-Id"); device != "" {
		return device
	}
	return ScopeIP(r)
}

// ScopeUser keys by the authenticated user id, falling back to IP.
func ScopeUser(r *http.Request) string {
	if user := UserFrom(r.Context()); user != nil {
		return user.ID
	}
	return ScopeIP(r)
}

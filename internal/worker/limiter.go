package worker

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// Limiter implements per-key rate limiting (one token bucket per MCP session).
// Buckets of keys that stay idle longer than the TTL are evicted.
type Limiter struct {
	buckets      *gocache.Cache
	defaultRate  rate.Limit
	defaultBurst int
}

// NewLimiter creates a new rate limiter. requestsPerSecond <= 0 means unlimited;
// idleTTL <= 0 keeps buckets forever.
func NewLimiter(requestsPerSecond float64, burst int, idleTTL time.Duration) *Limiter {
	if burst <= 0 {
		burst = 5
	}

	limit := rate.Limit(requestsPerSecond)
	if requestsPerSecond <= 0 {
		limit = rate.Inf
	}

	ttl, cleanup := idleTTL, idleTTL/2
	if idleTTL <= 0 {
		ttl, cleanup = gocache.NoExpiration, 0
	}

	return &Limiter{
		buckets:      gocache.New(ttl, cleanup),
		defaultRate:  limit,
		defaultBurst: burst,
	}
}

// Wait blocks until key may proceed or ctx is done
func (l *Limiter) Wait(ctx context.Context, key string) error {
	return l.getLimiter(key).Wait(ctx)
}

// Allow checks if a request for key is allowed without waiting
func (l *Limiter) Allow(key string) bool {
	return l.getLimiter(key).Allow()
}

// Len returns the number of live buckets
func (l *Limiter) Len() int {
	return l.buckets.ItemCount()
}

// getLimiter returns the bucket for key, creating it on first use. Every access
// refreshes the idle expiry.
func (l *Limiter) getLimiter(key string) *rate.Limiter {
	if v, found := l.buckets.Get(key); found {
		limiter := v.(*rate.Limiter)
		l.buckets.SetDefault(key, limiter)
		return limiter
	}

	limiter := rate.NewLimiter(l.defaultRate, l.defaultBurst)
	if err := l.buckets.Add(key, limiter, gocache.DefaultExpiration); err != nil {
		// Another caller created it first
		if v, found := l.buckets.Get(key); found {
			return v.(*rate.Limiter)
		}
	}

	return limiter
}

package middleware

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

// bucket is one token bucket. Refill is lazy, computed on each Allow.
type bucket struct {
	mu         sync.Mutex
	tokens     float64
	lastRefill time.Time
}

// RateLimiter applies a token bucket per key (tenant + client IP).
// This throttles the service's own surface; the AI gateway's upstream
// 429 is handled separately by the worker.
type RateLimiter struct {
	mu         sync.RWMutex
	buckets    map[string]*bucket
	capacity   int
	refillRate int // tokens per second
}

func NewRateLimiter(capacity, refillRate int) *RateLimiter {
	rl := &RateLimiter{
		buckets:    make(map[string]*bucket),
		capacity:   capacity,
		refillRate: refillRate,
	}
	go rl.evictIdle()
	return rl
}

// Allow takes one token for key, refilling first.
func (rl *RateLimiter) Allow(key string) bool {
	b := rl.getBucket(key)

	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	b.tokens += now.Sub(b.lastRefill).Seconds() * float64(rl.refillRate)
	if b.tokens > float64(rl.capacity) {
		b.tokens = float64(rl.capacity)
	}
	b.lastRefill = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

func (rl *RateLimiter) getBucket(key string) *bucket {
	rl.mu.RLock()
	b, ok := rl.buckets[key]
	rl.mu.RUnlock()
	if ok {
		return b
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if b, ok := rl.buckets[key]; ok {
		return b
	}
	b = &bucket{tokens: float64(rl.capacity), lastRefill: time.Now()}
	rl.buckets[key] = b
	return b
}

// evictIdle drops buckets idle for 10 minutes so one-off clients don't
// accumulate forever.
func (rl *RateLimiter) evictIdle() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		rl.mu.Lock()
		for key, b := range rl.buckets {
			b.mu.Lock()
			idle := now.Sub(b.lastRefill) > 10*time.Minute
			b.mu.Unlock()
			if idle {
				delete(rl.buckets, key)
			}
		}
		rl.mu.Unlock()
	}
}

// RateLimitMiddleware rejects over-limit requests with the same JSON
// error body the dashboard already handles for upstream throttling.
func RateLimitMiddleware(capacity, refillRate int) func(http.Handler) http.Handler {
	limiter := NewRateLimiter(capacity, refillRate)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if unauthenticatedPaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			key := GetTenantFromContext(r.Context()) + ":" + r.RemoteAddr
			if !limiter.Allow(key) {
				w.Header().Set("Retry-After", "60")
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				json.NewEncoder(w).Encode(map[string]string{
					"error": "Rate limit exceeded. Please try again later.",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

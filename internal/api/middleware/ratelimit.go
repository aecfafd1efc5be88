package middleware

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// RateLimiter counts requests per caller key over a sliding window.
type RateLimiter struct {
	limit  int
	window time.Duration

	mu      sync.Mutex
	callers map[string][]time.Time
}

func NewRateLimiter(limit, windowSeconds int) *RateLimiter {
	if limit <= 0 {
		limit = 100
	}
	if windowSeconds <= 0 {
		windowSeconds = 60
	}

	rl := &RateLimiter{
		limit:   limit,
		window:  time.Duration(windowSeconds) * time.Second,
		callers: make(map[string][]time.Time),
	}
	go rl.evictStale()

	return rl
}

// evictStale drops callers with no activity inside two windows so the map
// does not grow without bound.
func (rl *RateLimiter) evictStale() {
	for range time.Tick(time.Minute) {
		rl.mu.Lock()
		cutoff := time.Now().Add(-2 * rl.window)
		for key, stamps := range rl.callers {
			if len(stamps) == 0 || stamps[len(stamps)-1].Before(cutoff) {
				delete(rl.callers, key)
			}
		}
		rl.mu.Unlock()
	}
}

// Allow records a request for key and reports whether it fits in the window,
// the remaining budget, and when the window resets.
func (rl *RateLimiter) Allow(key string) (bool, int, time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	windowStart := now.Add(-rl.window)

	kept := rl.callers[key][:0]
	for _, ts := range rl.callers[key] {
		if ts.After(windowStart) {
			kept = append(kept, ts)
		}
	}

	if len(kept) >= rl.limit {
		rl.callers[key] = kept
		return false, 0, kept[0].Add(rl.window)
	}

	kept = append(kept, now)
	rl.callers[key] = kept
	return true, rl.limit - len(kept), now.Add(rl.window)
}

func (rl *RateLimiter) wrap(keyFor func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			allowed, remaining, reset := rl.Allow(keyFor(r))

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(reset.Unix(), 10))

			if !allowed {
				w.Header().Set("Retry-After", strconv.FormatInt(int64(time.Until(reset).Seconds())+1, 10))
				http.Error(w, "Rate limit exceeded", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RateLimit limits by client IP. Mounted ahead of authentication.
func RateLimit(limit, windowSeconds int) func(http.Handler) http.Handler {
	return NewRateLimiter(limit, windowSeconds).wrap(clientIP)
}

// RateLimitByUser limits by authenticated user id, falling back to client IP
// when the request carries no identity. Mount after Auth.
func RateLimitByUser(limit, windowSeconds int) func(http.Handler) http.Handler {
	return NewRateLimiter(limit, windowSeconds).wrap(func(r *http.Request) string {
		if userID := GetUserID(r.Context()); userID != uuid.Nil {
			return "user:" + userID.String()
		}
		return clientIP(r)
	})
}

// clientIP prefers proxy-set headers over the socket address.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if i := strings.IndexByte(xff, ','); i >= 0 {
			return strings.TrimSpace(xff[:i])
		}
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

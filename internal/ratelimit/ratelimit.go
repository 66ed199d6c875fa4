// Package ratelimit throttles write traffic per actor with a sliding
// window, so one member cannot flood joins or payments.
package ratelimit

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"ronda/pkg/platform/httputil"
	"ronda/pkg/requestcontext"
)

// Result reports one limit check.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// Limiter is a sliding-window rate limiter keyed by caller identity.
// The window holds request timestamps, so bursts straddling a fixed
// window boundary cannot double the effective limit.
type Limiter struct {
	limit  int
	window time.Duration

	mu        sync.Mutex
	buckets   map[string][]time.Time
	lastSweep time.Time
}

// New builds a limiter allowing limit requests per window per key.
func New(limit int, window time.Duration) *Limiter {
	return &Limiter{
		limit:   limit,
		window:  window,
		buckets: make(map[string][]time.Time),
	}
}

// Allow records a request for key and reports whether it fits the window.
func (l *Limiter) Allow(key string, now time.Time) Result {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := now.Add(-l.window)
	if now.Sub(l.lastSweep) >= l.window {
		l.sweep(cutoff)
		l.lastSweep = now
	}
	kept := l.buckets[key][:0]
	for _, ts := range l.buckets[key] {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}

	if len(kept) >= l.limit {
		l.buckets[key] = kept
		return Result{
			Allowed: false,
			Limit:   l.limit,
			ResetAt: kept[0].Add(l.window),
		}
	}

	kept = append(kept, now)
	l.buckets[key] = kept
	return Result{
		Allowed:   true,
		Limit:     l.limit,
		Remaining: l.limit - len(kept),
		ResetAt:   kept[0].Add(l.window),
	}
}

// sweep drops buckets whose every timestamp has left the window, keeping
// the map bounded by the number of recently active keys. Runs at most once
// per window, under the lock.
func (l *Limiter) sweep(cutoff time.Time) {
	for key, stamps := range l.buckets {
		if len(stamps) == 0 || !stamps[len(stamps)-1].After(cutoff) {
			delete(l.buckets, key)
		}
	}
}

// Middleware throttles mutating requests. Reads pass through untouched.
// The key is the acting member when known, the client address otherwise.
func (l *Limiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet || r.Method == http.MethodHead {
			next.ServeHTTP(w, r)
			return
		}

		key := requestcontext.ActorID(r.Context()).String()
		if requestcontext.ActorID(r.Context()).IsNil() {
			if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
				key = host
			} else {
				key = r.RemoteAddr
			}
		}

		result := l.Allow(key, time.Now())
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))

		if !result.Allowed {
			retryAfter := int(time.Until(result.ResetAt).Seconds()) + 1
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			httputil.WriteJSON(w, http.StatusTooManyRequests, map[string]string{
				"error":             "rate_limited",
				"error_description": "too many requests, slow down",
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}

package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllowWithinLimit(t *testing.T) {
	limiter := New(3, time.Minute)
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		result := limiter.Allow("member-a", now.Add(time.Duration(i)*time.Second))
		assert.True(t, result.Allowed)
	}

	result := limiter.Allow("member-a", now.Add(4*time.Second))
	assert.False(t, result.Allowed)
	assert.Equal(t, 3, result.Limit)
}

func TestSlidingWindowFreesSlots(t *testing.T) {
	limiter := New(2, time.Minute)
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	require.True(t, limiter.Allow("member-a", now).Allowed)
	require.True(t, limiter.Allow("member-a", now.Add(30*time.Second)).Allowed)
	require.False(t, limiter.Allow("member-a", now.Add(45*time.Second)).Allowed)

	// The first request has aged out of the window.
	assert.True(t, limiter.Allow("member-a", now.Add(61*time.Second)).Allowed)
}

func TestKeysAreIndependent(t *testing.T) {
	limiter := New(1, time.Minute)
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	require.True(t, limiter.Allow("member-a", now).Allowed)
	require.False(t, limiter.Allow("member-a", now.Add(time.Second)).Allowed)
	assert.True(t, limiter.Allow("member-b", now.Add(time.Second)).Allowed)
}

func TestIdleBucketsAreEvicted(t *testing.T) {
	limiter := New(5, time.Minute)
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	require.True(t, limiter.Allow("idle", now).Allowed)
	require.True(t, limiter.Allow("fresh", now.Add(2*time.Minute)).Allowed)

	limiter.mu.Lock()
	defer limiter.mu.Unlock()
	_, idleKept := limiter.buckets["idle"]
	_, freshKept := limiter.buckets["fresh"]
	assert.False(t, idleKept, "expired bucket should be swept")
	assert.True(t, freshKept)
}

func TestMiddlewareThrottlesWrites(t *testing.T) {
	limiter := New(1, time.Minute)
	handler := limiter.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, httptest.NewRequest(http.MethodPost, "/groups", nil))
	require.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	handler.ServeHTTP(second, httptest.NewRequest(http.MethodPost, "/groups", nil))
	require.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.NotEmpty(t, second.Header().Get("Retry-After"))
}

func TestMiddlewarePassesReads(t *testing.T) {
	limiter := New(1, time.Minute)
	handler := limiter.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/matches", nil))
		require.Equal(t, http.StatusOK, w.Code)
	}
}

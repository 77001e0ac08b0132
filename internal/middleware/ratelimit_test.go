package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiterAllow(t *testing.T) {
	rl := NewRateLimiter(2, 0)

	assert.True(t, rl.Allow("k"))
	assert.True(t, rl.Allow("k"))
	assert.False(t, rl.Allow("k"))

	// Other keys have their own bucket
	assert.True(t, rl.Allow("other"))
}

func TestRateLimitMiddleware(t *testing.T) {
	t.Run("buckets keyed per authenticated tenant", func(t *testing.T) {
		keys := map[string]string{"tenant-a": "key-a", "tenant-b": "key-b"}

		// Same chain order as the server: auth resolves the tenant,
		// then the limiter keys on it. httptest requests share one
		// RemoteAddr, so only the tenant separates the buckets.
		handler := APIKeyAuth(keys)(RateLimitMiddleware(1, 0)(okHandler()))

		call := func(key string) int {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/v1/x/analyses", nil)
			req.Header.Set("Authorization", "Bearer "+key)
			handler.ServeHTTP(rec, req)
			return rec.Code
		}

		require.Equal(t, http.StatusOK, call("key-a"))
		assert.Equal(t, http.StatusTooManyRequests, call("key-a"))
		assert.Equal(t, http.StatusOK, call("key-b"))
	})

	t.Run("over-limit response matches the wire contract", func(t *testing.T) {
		handler := RateLimitMiddleware(1, 0)(okHandler())

		first := httptest.NewRecorder()
		handler.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/v1/x/analyses", nil))
		require.Equal(t, http.StatusOK, first.Code)

		second := httptest.NewRecorder()
		handler.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/v1/x/analyses", nil))
		require.Equal(t, http.StatusTooManyRequests, second.Code)
		assert.Equal(t, "60", second.Header().Get("Retry-After"))
		assert.JSONEq(t, `{"error":"Rate limit exceeded. Please try again later."}`, second.Body.String())
	})

	t.Run("probe paths skip the limiter", func(t *testing.T) {
		handler := RateLimitMiddleware(1, 0)(okHandler())
		for i := 0; i < 5; i++ {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
			require.Equal(t, http.StatusOK, rec.Code)
		}
	})
}

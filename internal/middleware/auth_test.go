package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAPIKeyAuth(t *testing.T) {
	keys := map[string]string{"tenant-a": "key-a", "tenant-b": "key-b"}

	t.Run("missing header rejected", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/v1/tenant-a/analyses", nil)
		APIKeyAuth(keys)(okHandler()).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("preflight passes without credentials", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodOptions, "/v1/tenant-a/functions/analyze-business-plan", nil)
		req.Header.Set("Origin", "https://dashboard.example.com")
		req.Header.Set("Access-Control-Request-Method", "POST")
		APIKeyAuth(keys)(okHandler()).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("valid key resolves tenant into context", func(t *testing.T) {
		var got string
		inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = GetTenantFromContext(r.Context())
		})
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/v1/tenant-b/analyses", nil)
		req.Header.Set("Authorization", "Bearer key-b")
		APIKeyAuth(keys)(inner).ServeHTTP(rec, req)
		assert.Equal(t, "tenant-b", got)
	})

	t.Run("unknown key rejected", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/v1/tenant-a/analyses", nil)
		req.Header.Set("Authorization", "Bearer wrong")
		APIKeyAuth(keys)(okHandler()).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("probe paths skip auth", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		APIKeyAuth(keys)(okHandler()).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestRequireTenantMatch(t *testing.T) {
	keys := map[string]string{"tenant-a": "key-a"}

	router := chi.NewRouter()
	router.Route("/v1/{tenant}", func(rt chi.Router) {
		rt.Use(RequireTenantMatch)
		rt.Get("/analyses", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
	})

	call := func(path, key string) int {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if key != "" {
			req.Header.Set("Authorization", "Bearer "+key)
		}
		APIKeyAuth(keys)(router).ServeHTTP(rec, req)
		return rec.Code
	}

	t.Run("key unlocks its own tenant", func(t *testing.T) {
		require.Equal(t, http.StatusOK, call("/v1/tenant-a/analyses", "key-a"))
	})

	t.Run("key cannot reach another tenant", func(t *testing.T) {
		assert.Equal(t, http.StatusForbidden, call("/v1/tenant-b/analyses", "key-a"))
	})

	t.Run("no-op when auth is disabled", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/v1/anyone/analyses", nil)
		APIKeyAuth(nil)(router).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

type contextKey string

const (
	TenantKey contextKey = "tenant"
	APIKeyKey contextKey = "api_key"
)

// unauthenticatedPaths are probe endpoints that skip auth.
var unauthenticatedPaths = map[string]bool{
	"/health":  true,
	"/ready":   true,
	"/live":    true,
	"/metrics": true,
}

// APIKeyAuth validates API key from Authorization header and resolves
// the owning tenant. When no keys are configured, auth is disabled
// (local development).
func APIKeyAuth(validKeys map[string]string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// CORS preflights carry no Authorization header; the CORS
			// handler downstream answers them.
			if r.Method == http.MethodOptions || unauthenticatedPaths[r.URL.Path] || len(validKeys) == 0 {
				next.ServeHTTP(w, r)
				return
			}

			auth := r.Header.Get("Authorization")
			if auth == "" {
				http.Error(w, "missing Authorization header", http.StatusUnauthorized)
				return
			}

			// Support both "Bearer <key>" and "<key>" formats
			apiKey := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
			if apiKey == "" {
				http.Error(w, "invalid Authorization header format", http.StatusUnauthorized)
				return
			}

			// Constant-time comparison to prevent timing attacks
			valid := false
			var tenant string
			for t, key := range validKeys {
				if subtle.ConstantTimeCompare([]byte(apiKey), []byte(key)) == 1 {
					valid = true
					tenant = t
					break
				}
			}

			if !valid {
				http.Error(w, "invalid API key", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), TenantKey, tenant)
			ctx = context.WithValue(ctx, APIKeyKey, apiKey)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetTenantFromContext extracts tenant from context
func GetTenantFromContext(ctx context.Context) string {
	if tenant, ok := ctx.Value(TenantKey).(string); ok {
		return tenant
	}
	return ""
}

// RequireTenantMatch rejects requests whose URL tenant differs from the
// tenant the API key resolved to. A key only unlocks its own tenant's
// records. No-op when auth is disabled (no tenant in context).
func RequireTenantMatch(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authed := GetTenantFromContext(r.Context())
		if authed != "" {
			if tenant := chi.URLParam(r, "tenant"); tenant != "" && tenant != authed {
				http.Error(w, "forbidden: tenant mismatch", http.StatusForbidden)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

package middleware

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"time"
)

// HealthChecker probes one dependency.
type HealthChecker interface {
	Check(ctx context.Context) error
}

// DatabaseHealthChecker pings the record store.
type DatabaseHealthChecker struct {
	DB *sql.DB
}

func (d *DatabaseHealthChecker) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return d.DB.PingContext(ctx)
}

type checkResult struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// HealthHandler runs every registered checker. Any failure makes the
// whole response 503 so load balancers pull the instance.
func HealthHandler(checkers map[string]HealthChecker) http.HandlerFunc {
	startedAt := time.Now()

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		status := "healthy"
		checks := make(map[string]checkResult, len(checkers))
		for name, checker := range checkers {
			if err := checker.Check(ctx); err != nil {
				status = "unhealthy"
				checks[name] = checkResult{Status: "unhealthy", Message: err.Error()}
				continue
			}
			checks[name] = checkResult{Status: "healthy"}
		}

		code := http.StatusOK
		if status == "unhealthy" {
			code = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		json.NewEncoder(w).Encode(map[string]any{
			"status":    status,
			"timestamp": time.Now(),
			"uptime":    time.Since(startedAt).String(),
			"checks":    checks,
		})
	}
}

// ReadinessHandler reports ready once the process is serving.
func ReadinessHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]any{
		"status":    "ready",
		"timestamp": time.Now(),
	})
}

// LivenessHandler is the cheapest possible probe.
func LivenessHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

package observability

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"
)

// ReadinessCheck reports whether a dependency is reachable.
type ReadinessCheck func(ctx context.Context) error

// HealthServer serves liveness and readiness. Readiness requires SetReady
// and, when configured, a passing check.
type HealthServer struct {
	ready   atomic.Bool
	check   ReadinessCheck
	timeout time.Duration
}

// NewHealthServer creates a health server. check may be nil.
func NewHealthServer(check ReadinessCheck) *HealthServer {
	return &HealthServer{check: check, timeout: 5 * time.Second}
}

// SetReady marks the server as ready to receive traffic.
func (h *HealthServer) SetReady(ready bool) {
	h.ready.Store(ready)
}

// Healthz always answers ok while the process is up.
func (h *HealthServer) Healthz(w http.ResponseWriter, _ *http.Request) {
	writeStatus(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readyz answers 503 until ready, or while the check fails.
func (h *HealthServer) Readyz(w http.ResponseWriter, r *http.Request) {
	if !h.ready.Load() {
		writeStatus(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready"})
		return
	}
	if h.check != nil {
		ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
		defer cancel()
		if err := h.check(ctx); err != nil {
			writeStatus(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready", "error": err.Error()})
			return
		}
	}
	writeStatus(w, http.StatusOK, map[string]string{"status": "ready"})
}

func writeStatus(w http.ResponseWriter, code int, body map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}

package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger is satisfied by every storage backend and by the redis adapter.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves liveness and readiness probes. Only storage decides
// readiness; without redis the rate limiter falls back to in-process buckets.
type HealthHandler struct {
	store   Pinger
	cache   Pinger // nil when redis is not configured
	started time.Time
	version string
}

func NewHealthHandler(store, cache Pinger, version string) *HealthHandler {
	return &HealthHandler{
		store:   store,
		cache:   cache,
		started: time.Now(),
		version: version,
	}
}

type ReadinessReport struct {
	Status    string            `json:"status"`
	Version   string            `json:"version,omitempty"`
	Uptime    string            `json:"uptime"`
	Timestamp time.Time         `json:"timestamp"`
	Checks    map[string]string `json:"checks"`
}

func (h *HealthHandler) probe(ctx context.Context) (map[string]string, bool) {
	checks := map[string]string{"storage": "ok"}
	ready := true
	if err := h.store.Ping(ctx); err != nil {
		checks["storage"] = "down: " + err.Error()
		ready = false
	}
	if h.cache != nil {
		checks["redis"] = "ok"
		if err := h.cache.Ping(ctx); err != nil {
			checks["redis"] = "degraded: " + err.Error()
		}
	}
	return checks, ready
}

func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	checks, ready := h.probe(ctx)
	report := ReadinessReport{
		Status:    "ready",
		Version:   h.version,
		Uptime:    time.Since(h.started).Round(time.Second).String(),
		Timestamp: time.Now().UTC(),
		Checks:    checks,
	}
	code := http.StatusOK
	if !ready {
		report.Status = "unavailable"
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, report)
}

// Health is the short form of Readiness for load balancers.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	if _, ready := h.probe(ctx); !ready {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": "storage unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "version": h.version})
}

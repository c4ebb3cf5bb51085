package handlers

import (
	"context"
	"net/http"
	"time"

	"posbackend/internal/caching"

	"github.com/labstack/echo/v4"
)

// Pinger is anything whose connectivity can be probed.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PoolLister reports which tenant databases have open pools.
type PoolLister interface {
	Names() []string
}

// HealthHandlers handles health check and monitoring endpoints
type HealthHandlers struct {
	master   Pinger
	cacheSvc caching.CacheService
	pools    PoolLister
	timeout  time.Duration
}

// NewHealthHandlers creates a new health handlers instance
func NewHealthHandlers(master Pinger, cacheSvc caching.CacheService, pools PoolLister) *HealthHandlers {
	return &HealthHandlers{
		master:   master,
		cacheSvc: cacheSvc,
		pools:    pools,
		timeout:  3 * time.Second,
	}
}

// HealthStatus is the liveness body.
type HealthStatus struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// ReadinessStatus reports each dependency and the open tenant pools.
type ReadinessStatus struct {
	Status      string            `json:"status"`
	Timestamp   string            `json:"timestamp"`
	Services    map[string]string `json:"services"`
	TenantPools []string          `json:"tenantPools"`
}

// HealthCheck answers as long as the process is serving.
func (h *HealthHandlers) HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthStatus{
		Status:    "OK",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// ReadinessCheck pings the master database and the cache.
func (h *HealthHandlers) ReadinessCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	status := &ReadinessStatus{
		Status:      "ready",
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		Services:    map[string]string{"database": "healthy", "cache": "healthy"},
		TenantPools: h.pools.Names(),
	}
	code := http.StatusOK

	if err := h.master.Ping(ctx); err != nil {
		status.Services["database"] = "unhealthy"
		status.Status = "not ready"
		code = http.StatusServiceUnavailable
	}
	if err := h.cacheSvc.Ping(ctx); err != nil {
		status.Services["cache"] = "unhealthy"
		status.Status = "not ready"
		code = http.StatusServiceUnavailable
	}
	if status.TenantPools == nil {
		status.TenantPools = []string{}
	}
	return c.JSON(code, status)
}

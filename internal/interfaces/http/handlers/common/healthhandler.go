// Package common holds handlers that belong to no single resource.
package common

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/customerly-inc/customerly/internal/shared/biztime"
	"github.com/customerly-inc/customerly/internal/shared/logger"
	"github.com/customerly-inc/customerly/internal/shared/version"
)

const checkTimeout = 2 * time.Second

// Check reports whether one backing dependency is reachable.
type Check func(ctx context.Context) error

// ConnectionCounter reports open realtime connections.
type ConnectionCounter interface {
	Count() int
}

type HealthHandler struct {
	checks  map[string]Check
	feed    ConnectionCounter
	started time.Time
	logger  logger.Interface
}

func NewHealthHandler(checks map[string]Check, feed ConnectionCounter, logger logger.Interface) *HealthHandler {
	return &HealthHandler{checks: checks, feed: feed, started: biztime.NowUTC(), logger: logger}
}

// HealthCheck handles GET /health. Any failing check turns the response
// into a 503 so load balancers drain the instance.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), checkTimeout)
	defer cancel()

	status := http.StatusOK
	results := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			h.logger.Warnw("health check failed", "check", name, "error", err)
			results[name] = "down"
			status = http.StatusServiceUnavailable
			continue
		}
		results[name] = "up"
	}

	body := gin.H{
		"status":         "healthy",
		"service":        "customerly",
		"version":        version.Current,
		"uptime_seconds": int64(biztime.NowUTC().Sub(h.started).Seconds()),
		"checks":         results,
	}
	if status != http.StatusOK {
		body["status"] = "degraded"
	}
	if h.feed != nil {
		body["realtime_connections"] = h.feed.Count()
	}
	c.JSON(status, body)
}

// Version handles GET /version
func (h *HealthHandler) Version(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"version": version.Current})
}

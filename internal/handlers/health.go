package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/Ernest01982/winelistmanager/internal/repository"
)

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	repo  *repository.PriceListRepository
	redis *redis.Client
}

func NewHealthHandler(repo *repository.PriceListRepository, redisClient *redis.Client) *HealthHandler {
	return &HealthHandler{repo: repo, redis: redisClient}
}

// HealthCheck reports process liveness only.
// GET /health
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "winelist-manager",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// ReadyCheck reports whether the backing store and cache are reachable.
// A down store is not fatal for uploads and review, so the response
// carries per-dependency detail rather than a bare status code.
// GET /ready
func (h *HealthHandler) ReadyCheck(c *gin.Context) {
	ctx := c.Request.Context()
	checks := gin.H{}
	ready := true

	if err := h.repo.Ping(ctx); err != nil {
		checks["database"] = "unreachable: " + err.Error()
		ready = false
	} else {
		checks["database"] = "ok"
	}

	if h.redis != nil {
		if err := h.redis.Ping(ctx).Err(); err != nil {
			checks["redis"] = "unreachable: " + err.Error()
		} else {
			checks["redis"] = "ok"
		}
	}

	status := http.StatusOK
	if !ready {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{
		"ready":  ready,
		"checks": checks,
	})
}

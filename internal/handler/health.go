package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger is the minimal contract I need from a repository to check readiness.
// I keep it local to the handler package to avoid coupling and simplify tests.
type Pinger interface {
	Ping(ctx context.Context) error
}

const readinessTimeout = 2 * time.Second

// HealthHandler exposes liveness and readiness endpoints.
type HealthHandler struct {
	repo Pinger
}

func NewHealthHandler(repo Pinger) *HealthHandler {
	return &HealthHandler{repo: repo}
}

// Liveness responds OK if the process is up; it doesn't check dependencies.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "alive"})
}

// Readiness pings the database with a short deadline.
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
	defer cancel()
	if err := h.repo.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unavailable",
			"error":  err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

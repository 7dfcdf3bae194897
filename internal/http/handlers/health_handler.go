package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthHandler отвечает на проверку живости сервиса.
type HealthHandler struct {
	version string
}

// NewHealthHandler создаёт обработчик health-проверки.
func NewHealthHandler(version string) *HealthHandler {
	return &HealthHandler{version: version}
}

// Health обрабатывает GET /api/health.
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   h.version,
	})
}

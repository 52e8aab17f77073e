package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/warriorguo/pipeline/api/dto"
)

type HealthHandler struct {
	version   string
	startTime time.Time
}

func NewHealthHandler(version string) *HealthHandler {
	return &HealthHandler{
		version:   version,
		startTime: time.Now(),
	}
}

// Health
// GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.HealthResponse{
		Status:    "healthy",
		Version:   h.version,
		Uptime:    time.Since(h.startTime).Truncate(time.Second).String(),
		Timestamp: time.Now().Format(time.RFC3339),
	}))
}

// Ready
// GET /ready
func (h *HealthHandler) Ready(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(map[string]string{
		"status": "ready",
	}))
}

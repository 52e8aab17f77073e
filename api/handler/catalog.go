package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/warriorguo/pipeline/api/dto"
	"github.com/warriorguo/pipeline/catalog"
)

// CatalogHandler serves the node-type palette, optionally after a simulated
// backend latency.
type CatalogHandler struct {
	latency time.Duration
}

func NewCatalogHandler(latency time.Duration) *CatalogHandler {
	return &CatalogHandler{latency: latency}
}

// List
// GET /api/nodes
func (h *CatalogHandler) List(c *gin.Context) {
	if h.latency > 0 {
		timer := time.NewTimer(h.latency)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-c.Request.Context().Done():
			return
		}
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(catalog.Default()))
}

package handlers

import (
	"net/http"
	"time"

	"neowatch/internal/service"

	"github.com/gin-gonic/gin"
)

type SystemHandler struct {
	stats service.StatsService
}

func NewSystemHandler(stats service.StatsService) *SystemHandler {
	return &SystemHandler{stats: stats}
}

func (h *SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *SystemHandler) Stats(c *gin.Context) {
	stats, err := h.stats.GetStats(c.Request.Context())
	if err != nil {
		respondError(c, "failed to collect stats", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    stats,
	})
}

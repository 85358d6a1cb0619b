package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"neowatch/internal/clients"
	"neowatch/internal/models"
	"neowatch/internal/service"

	"github.com/gin-gonic/gin"
)

type IngestHandler struct {
	ingest     service.IngestService
	loc        *time.Location
	windowDays int
}

func NewIngestHandler(ingest service.IngestService, loc *time.Location, windowDays int) *IngestHandler {
	return &IngestHandler{ingest: ingest, loc: loc, windowDays: windowDays}
}

// Trigger runs one ingestion synchronously. Registered in debug mode only.
func (h *IngestHandler) Trigger(c *gin.Context) {
	window, err := clients.ParseWindow(c.Query("start"), c.Query("end"), time.Now(), h.windowDays, h.loc)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid date range",
			"message": err.Error(),
		})
		return
	}

	result, err := h.ingest.FetchAndStore(c.Request.Context(), window, models.TriggerAPI)
	var feedErr *clients.FeedError
	if errors.As(err, &feedErr) {
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   "NEO feed unavailable",
			"message": feedErr.Error(),
		})
		return
	}
	if err != nil {
		respondError(c, "ingestion failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "NEO feed ingested for " + window.String(),
		"data":    result,
	})
}

func (h *IngestHandler) ListRuns(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	runs, err := h.ingest.ListRuns(c.Request.Context(), limit)
	if err != nil {
		respondError(c, "failed to list ingestion runs", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"runs":  runs,
			"count": len(runs),
		},
	})
}

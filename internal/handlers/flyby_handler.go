package handlers

import (
	"errors"
	"net/http"
	"path/filepath"
	"time"

	"neowatch/internal/clients"
	"neowatch/internal/middleware"
	"neowatch/internal/service"

	"github.com/gin-gonic/gin"
)

type FlybyHandler struct {
	flybys     service.FlybyService
	export     service.ExportService
	loc        *time.Location
	windowDays int
}

func NewFlybyHandler(flybys service.FlybyService, export service.ExportService, loc *time.Location, windowDays int) *FlybyHandler {
	return &FlybyHandler{
		flybys:     flybys,
		export:     export,
		loc:        loc,
		windowDays: windowDays,
	}
}

// ListFlybys serves the stored flybys of ?start=&end= (YYYY-MM-DD).
// An empty window is a valid answer.
func (h *FlybyHandler) ListFlybys(c *gin.Context) {
	window, ok := h.window(c)
	if !ok {
		return
	}

	overview, err := h.flybys.WeekOverview(c.Request.Context(), window,
		middleware.CurrentUserID(c), boolQuery(c, "hazardous"))
	if err != nil {
		respondError(c, "failed to list flybys", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    overview,
	})
}

func (h *FlybyHandler) ExportFlybys(c *gin.Context) {
	window, ok := h.window(c)
	if !ok {
		return
	}

	format := c.DefaultQuery("format", "csv")
	path, err := h.export.ExportFlybys(c.Request.Context(), window, format)
	if errors.Is(err, service.ErrUnsupportedFormat) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "unsupported format, use 'csv' or 'xlsx'",
		})
		return
	}
	if err != nil {
		respondError(c, "failed to export flybys", err)
		return
	}

	c.FileAttachment(path, filepath.Base(path))
}

func (h *FlybyHandler) window(c *gin.Context) (clients.Window, bool) {
	window, err := clients.ParseWindow(c.Query("start"), c.Query("end"), time.Now(), h.windowDays, h.loc)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid date range",
			"message": err.Error(),
		})
		return clients.Window{}, false
	}
	return window, true
}

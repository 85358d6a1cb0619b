package handlers

import (
	"fmt"
	"net/http"

	"neowatch/internal/middleware"
	"neowatch/internal/service"

	"github.com/gin-gonic/gin"
)

type WatchlistHandler struct {
	watchlist service.WatchlistService
}

func NewWatchlistHandler(watchlist service.WatchlistService) *WatchlistHandler {
	return &WatchlistHandler{watchlist: watchlist}
}

type updateNotesRequest struct {
	UserNotes *string `json:"user_notes" binding:"required"`
}

func (h *WatchlistHandler) List(c *gin.Context) {
	overview, err := h.watchlist.Overview(c.Request.Context(),
		middleware.CurrentUserID(c), boolQuery(c, "hazardous"))
	if err != nil {
		respondError(c, "failed to load watchlist", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    overview,
	})
}

func (h *WatchlistHandler) UpdateNotes(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req updateNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid request body",
			"message": err.Error(),
		})
		return
	}

	item, err := h.watchlist.UpdateNotes(c.Request.Context(), middleware.CurrentUserID(c), id, *req.UserNotes)
	if err != nil {
		respondError(c, "failed to update notes", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    item,
	})
}

func (h *WatchlistHandler) Remove(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	item, err := h.watchlist.Remove(c.Request.Context(), middleware.CurrentUserID(c), id)
	if err != nil {
		respondError(c, "failed to remove from watchlist", err)
		return
	}

	name := fmt.Sprintf("asteroid #%d", item.AsteroidID)
	if item.Asteroid != nil {
		name = item.Asteroid.Name
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": name + " removed from watchlist",
	})
}

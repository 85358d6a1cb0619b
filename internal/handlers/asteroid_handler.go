package handlers

import (
	"net/http"
	"strconv"

	"neowatch/internal/middleware"
	"neowatch/internal/service"

	"github.com/gin-gonic/gin"
)

type AsteroidHandler struct {
	asteroids service.AsteroidService
	watchlist service.WatchlistService
}

func NewAsteroidHandler(asteroids service.AsteroidService, watchlist service.WatchlistService) *AsteroidHandler {
	return &AsteroidHandler{asteroids: asteroids, watchlist: watchlist}
}

func (h *AsteroidHandler) Search(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	asteroids, err := h.asteroids.Search(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		respondError(c, "failed to search asteroids", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"asteroids": asteroids,
			"count":     len(asteroids),
		},
	})
}

func (h *AsteroidHandler) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	asteroid, err := h.asteroids.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, "failed to get asteroid", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    asteroid,
	})
}

// Watch adds the asteroid to the caller's watchlist. Repeating the call is
// harmless and answers 200 instead of 201.
func (h *AsteroidHandler) Watch(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	item, created, err := h.watchlist.Add(c.Request.Context(), middleware.CurrentUserID(c), id)
	if err != nil {
		respondError(c, "failed to add to watchlist", err)
		return
	}

	status := http.StatusOK
	message := "already in watchlist"
	if created {
		status = http.StatusCreated
		message = "added to watchlist"
	}

	c.JSON(status, gin.H{
		"success": true,
		"message": message,
		"data":    item,
	})
}

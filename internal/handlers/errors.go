package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"neowatch/internal/models"

	"github.com/gin-gonic/gin"
)

// respondError answers 404 for missing or foreign resources and 500 otherwise.
func respondError(c *gin.Context, message string, err error) {
	if errors.Is(err, models.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "not found",
		})
		return
	}

	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{
		"error":   message,
		"message": err.Error(),
	})
}

func idParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "invalid id",
		})
		return 0, false
	}
	return uint(id), true
}

func boolQuery(c *gin.Context, key string) bool {
	v, err := strconv.ParseBool(c.Query(key))
	return err == nil && v
}

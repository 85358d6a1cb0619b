package middleware

import (
	"errors"
	"net/http"
	"strconv"

	"neowatch/internal/logger"
	"neowatch/internal/models"
	"neowatch/internal/repository"

	"github.com/gin-gonic/gin"
)

// UserIDHeader is set by the upstream auth proxy.
const UserIDHeader = "X-User-ID"

const userContextKey = "neowatch.user"

// Identity resolves UserIDHeader to a stored user. Requests without a
// valid header continue anonymously.
func Identity(users repository.UserRepository, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(UserIDHeader)
		if raw == "" {
			c.Next()
			return
		}

		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			log.Debug("ignoring malformed user header", logger.String("value", raw))
			c.Next()
			return
		}

		user, err := users.GetByID(c.Request.Context(), uint(id))
		switch {
		case err == nil:
			c.Set(userContextKey, user)
		case errors.Is(err, models.ErrNotFound):
			log.Debug("unknown user in header", logger.Uint("user_id", uint(id)))
		default:
			log.Error("failed to resolve user", logger.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": "failed to resolve user",
			})
			return
		}

		c.Next()
	}
}

func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUser(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "authentication required",
				"message": "missing or unknown " + UserIDHeader,
			})
			return
		}
		c.Next()
	}
}

func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(userContextKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok
}

// CurrentUserID returns 0 for anonymous requests.
func CurrentUserID(c *gin.Context) uint {
	if user, ok := CurrentUser(c); ok {
		return user.ID
	}
	return 0
}

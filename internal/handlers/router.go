package handlers

import (
	"neowatch/internal/logger"
	"neowatch/internal/middleware"
	"neowatch/internal/repository"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Flyby     *FlybyHandler
	Asteroid  *AsteroidHandler
	Watchlist *WatchlistHandler
	Ingest    *IngestHandler
	System    *SystemHandler
}

// Register mounts the API under group. The manual ingest trigger is only
// exposed when debug is set.
func (h *Handlers) Register(group *gin.RouterGroup, users repository.UserRepository, log logger.Logger, debug bool) {
	group.GET("/health", h.System.Health)

	api := group.Group("")
	api.Use(middleware.Identity(users, log))

	api.GET("/system/stats", h.System.Stats)

	api.GET("/flybys", h.Flyby.ListFlybys)
	api.GET("/flybys/export", h.Flyby.ExportFlybys)

	api.GET("/asteroids", h.Asteroid.Search)
	api.GET("/asteroids/:id", h.Asteroid.Get)

	api.GET("/ingest/runs", h.Ingest.ListRuns)
	if debug {
		api.POST("/ingest", h.Ingest.Trigger)
	}

	private := api.Group("")
	private.Use(middleware.RequireUser())
	{
		private.POST("/asteroids/:id/watch", h.Asteroid.Watch)
		private.GET("/watchlist", h.Watchlist.List)
		private.PATCH("/watchlist/:id", h.Watchlist.UpdateNotes)
		private.DELETE("/watchlist/:id", h.Watchlist.Remove)
	}
}

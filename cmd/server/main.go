package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"neowatch/internal/clients"
	"neowatch/internal/config"
	"neowatch/internal/handlers"
	"neowatch/internal/logger"
	"neowatch/internal/middleware"
	"neowatch/internal/repository"
	"neowatch/internal/service"
	"neowatch/internal/worker"
	"neowatch/pkg/database"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"golang.org/x/time/rate"
)

func main() {
	envErr := godotenv.Load()

	cfg := config.Load()
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)
	defer log.Sync()

	if envErr != nil {
		log.Info("no .env file found, using environment variables")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid configuration", logger.Error(err))
	}
	loc := cfg.Location()

	log.Info("neowatch starting", logger.String("timezone", loc.String()))

	db, err := database.Connect(database.Config{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		DBName:   cfg.DB.DBName,
		SSLMode:  cfg.DB.SSLMode,
		Debug:    cfg.App.Debug,
	})
	if err != nil {
		log.Fatal("failed to connect to database", logger.Error(err))
	}
	defer database.Close(db)

	if err := database.Migrate(db); err != nil {
		log.Fatal("failed to migrate database", logger.Error(err))
	}

	asteroidRepo := repository.NewAsteroidRepository(db)
	flybyRepo := repository.NewFlybyRepository(db)
	watchlistRepo := repository.NewWatchlistRepository(db)
	userRepo := repository.NewUserRepository(db)
	runRepo := repository.NewIngestionRunRepository(db)

	neoClient := clients.NewNEOClient(clients.NEOConfig{
		APIKey:        cfg.NEO.APIKey,
		FeedURL:       cfg.NEO.FeedURL,
		Timeout:       cfg.NEO.Timeout,
		RetryAttempts: uint(cfg.NEO.RetryAttempts),
		RetryDelay:    cfg.NEO.RetryDelay,
	})
	if cfg.NEO.APIKey == "" {
		log.Warn("NASA_API_KEY is not set, using DEMO_KEY")
	}

	ingestService := service.NewIngestService(asteroidRepo, flybyRepo, runRepo, neoClient, loc, log)
	flybyService := service.NewFlybyService(flybyRepo, watchlistRepo)
	watchlistService := service.NewWatchlistService(watchlistRepo, flybyService, log)
	asteroidService := service.NewAsteroidService(asteroidRepo)
	exportService := service.NewExportService(flybyService, cfg.Export.OutputDir, log)
	statsService := service.NewStatsService(asteroidRepo, flybyRepo, userRepo, ingestService)

	scheduler := worker.NewScheduler(log)
	if cfg.Workers.IngestEnabled {
		scheduler.AddWorker(worker.NewIngestWorker(ingestService, worker.IngestWorkerConfig{
			Interval:     cfg.Workers.IngestInterval,
			WindowDays:   cfg.NEO.WindowDays,
			RunRetention: cfg.Workers.RunRetention,
			Location:     loc,
		}, log))
		log.Info("ingest worker enabled", logger.Duration("interval", cfg.Workers.IngestInterval))
	}

	go scheduler.Start()
	defer scheduler.Stop(10 * time.Second)

	if cfg.App.Debug {
		gin.SetMode(gin.DebugMode)
		log.Info("running in debug mode")
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.App.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", middleware.UserIDHeader},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if !cfg.App.Debug {
		limiter := middleware.NewIPRateLimiter(rate.Limit(cfg.RateLimit.RequestsPerSecond), cfg.RateLimit.Burst)
		r.Use(middleware.RateLimitMiddleware(limiter, log))
		log.Info("rate limiting enabled",
			logger.Int("rps", cfg.RateLimit.RequestsPerSecond),
			logger.Int("burst", cfg.RateLimit.Burst),
		)
	}

	h := &handlers.Handlers{
		Flyby:     handlers.NewFlybyHandler(flybyService, exportService, loc, cfg.NEO.WindowDays),
		Asteroid:  handlers.NewAsteroidHandler(asteroidService, watchlistService),
		Watchlist: handlers.NewWatchlistHandler(watchlistService),
		Ingest:    handlers.NewIngestHandler(ingestService, loc, cfg.NEO.WindowDays),
		System:    handlers.NewSystemHandler(statsService),
	}
	h.Register(r.Group("/api/v1"), userRepo, log, cfg.App.Debug)

	server := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info("server listening", logger.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed to start", logger.Error(err))
		}
	}()

	<-quit
	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", logger.Error(err))
	}

	log.Info("server exited")
}

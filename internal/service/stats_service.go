package service

import (
	"context"
	"time"

	"neowatch/internal/models"
	"neowatch/internal/repository"
)

type SystemStats struct {
	Asteroids   int64                `json:"asteroids"`
	Flybys      int64                `json:"flybys"`
	Users       int64                `json:"users"`
	LastRun     *models.IngestionRun `json:"last_ingestion_run"`
	GeneratedAt time.Time            `json:"generated_at"`
}

type StatsService interface {
	GetStats(ctx context.Context) (*SystemStats, error)
}

type statsService struct {
	asteroids repository.AsteroidRepository
	flybys    repository.FlybyRepository
	users     repository.UserRepository
	ingest    IngestService
}

func NewStatsService(
	asteroids repository.AsteroidRepository,
	flybys repository.FlybyRepository,
	users repository.UserRepository,
	ingest IngestService,
) StatsService {
	return &statsService{
		asteroids: asteroids,
		flybys:    flybys,
		users:     users,
		ingest:    ingest,
	}
}

func (s *statsService) GetStats(ctx context.Context) (*SystemStats, error) {
	stats := &SystemStats{GeneratedAt: time.Now().UTC()}
	var err error

	if stats.Asteroids, err = s.asteroids.Count(ctx); err != nil {
		return nil, err
	}
	if stats.Flybys, err = s.flybys.Count(ctx); err != nil {
		return nil, err
	}
	if stats.Users, err = s.users.Count(ctx); err != nil {
		return nil, err
	}
	if stats.LastRun, err = s.ingest.LatestRun(ctx); err != nil {
		return nil, err
	}

	return stats, nil
}

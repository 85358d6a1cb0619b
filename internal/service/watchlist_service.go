package service

import (
	"context"

	"neowatch/internal/logger"
	"neowatch/internal/models"
	"neowatch/internal/repository"
)

type WatchlistOverview struct {
	Items    []models.WatchlistItem `json:"items"`
	Upcoming []models.Flyby         `json:"upcoming_flybys"`
}

type WatchlistService interface {
	Add(ctx context.Context, userID, asteroidID uint) (*models.WatchlistItem, bool, error)
	Remove(ctx context.Context, userID, itemID uint) (*models.WatchlistItem, error)
	UpdateNotes(ctx context.Context, userID, itemID uint, notes string) (*models.WatchlistItem, error)
	Overview(ctx context.Context, userID uint, hazardousOnly bool) (*WatchlistOverview, error)
}

type watchlistService struct {
	repo   repository.WatchlistRepository
	flybys FlybyService
	log    logger.Logger
}

func NewWatchlistService(repo repository.WatchlistRepository, flybys FlybyService, log logger.Logger) WatchlistService {
	return &watchlistService{
		repo:   repo,
		flybys: flybys,
		log:    log,
	}
}

func (s *watchlistService) Add(ctx context.Context, userID, asteroidID uint) (*models.WatchlistItem, bool, error) {
	item, created, err := s.repo.GetOrCreate(ctx, userID, asteroidID)
	if err != nil {
		return nil, false, err
	}
	if created {
		s.log.Info("asteroid added to watchlist",
			logger.Uint("user_id", userID),
			logger.Uint("asteroid_id", asteroidID),
		)
	}
	return item, created, nil
}

func (s *watchlistService) Remove(ctx context.Context, userID, itemID uint) (*models.WatchlistItem, error) {
	item, err := s.repo.Delete(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}
	s.log.Info("asteroid removed from watchlist",
		logger.Uint("user_id", userID),
		logger.Uint("asteroid_id", item.AsteroidID),
	)
	return item, nil
}

// UpdateNotes stores notes verbatim. Escaping is the renderer's job.
func (s *watchlistService) UpdateNotes(ctx context.Context, userID, itemID uint, notes string) (*models.WatchlistItem, error) {
	return s.repo.UpdateNotes(ctx, userID, itemID, notes)
}

func (s *watchlistService) Overview(ctx context.Context, userID uint, hazardousOnly bool) (*WatchlistOverview, error) {
	items, err := s.repo.ListByUser(ctx, userID, hazardousOnly)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.WatchlistItem{}
	}

	upcoming, err := s.flybys.ListUpcomingFlybysForUser(ctx, userID, DefaultUpcomingHorizonDays)
	if err != nil {
		return nil, err
	}

	return &WatchlistOverview{Items: items, Upcoming: upcoming}, nil
}

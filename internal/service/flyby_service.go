package service

import (
	"context"
	"time"

	"neowatch/internal/clients"
	"neowatch/internal/models"
	"neowatch/internal/repository"
)

const DefaultUpcomingHorizonDays = 30

type WeekOverview struct {
	StartDate  string                `json:"start_date"`
	EndDate    string                `json:"end_date"`
	From       time.Time             `json:"from"`
	To         time.Time             `json:"to"`
	Flybys     []models.Flyby        `json:"flybys"`
	Summary    *models.HazardSummary `json:"summary"`
	WatchedIDs []uint                `json:"watched_asteroid_ids"`
}

type FlybyService interface {
	ListFlybysInWindow(ctx context.Context, from, to time.Time, hazardousOnly bool) ([]models.Flyby, error)
	CountAsteroidsInWindow(ctx context.Context, from, to time.Time) (*models.HazardSummary, error)
	ListUpcomingFlybysForUser(ctx context.Context, userID uint, horizonDays int) ([]models.Flyby, error)
	UserWatchlistAsteroidIDs(ctx context.Context, userID uint) ([]uint, error)
	// WeekOverview serves what is stored for the window. userID 0 means anonymous.
	WeekOverview(ctx context.Context, window clients.Window, userID uint, hazardousOnly bool) (*WeekOverview, error)
}

type flybyService struct {
	flybys    repository.FlybyRepository
	watchlist repository.WatchlistRepository
	now       func() time.Time
}

func NewFlybyService(flybys repository.FlybyRepository, watchlist repository.WatchlistRepository) FlybyService {
	return &flybyService{
		flybys:    flybys,
		watchlist: watchlist,
		now:       time.Now,
	}
}

func (s *flybyService) ListFlybysInWindow(ctx context.Context, from, to time.Time, hazardousOnly bool) ([]models.Flyby, error) {
	flybys, err := s.flybys.ListInWindow(ctx, from, to, hazardousOnly)
	if err != nil {
		return nil, err
	}
	if flybys == nil {
		flybys = []models.Flyby{}
	}
	return flybys, nil
}

func (s *flybyService) CountAsteroidsInWindow(ctx context.Context, from, to time.Time) (*models.HazardSummary, error) {
	return s.flybys.SummarizeWindow(ctx, from, to)
}

func (s *flybyService) ListUpcomingFlybysForUser(ctx context.Context, userID uint, horizonDays int) ([]models.Flyby, error) {
	if horizonDays <= 0 {
		horizonDays = DefaultUpcomingHorizonDays
	}

	now := s.now()
	flybys, err := s.flybys.ListForUserWatchlist(ctx, userID, now, now.AddDate(0, 0, horizonDays))
	if err != nil {
		return nil, err
	}
	if flybys == nil {
		flybys = []models.Flyby{}
	}
	return flybys, nil
}

func (s *flybyService) UserWatchlistAsteroidIDs(ctx context.Context, userID uint) ([]uint, error) {
	ids, err := s.watchlist.AsteroidIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []uint{}
	}
	return ids, nil
}

func (s *flybyService) WeekOverview(ctx context.Context, window clients.Window, userID uint, hazardousOnly bool) (*WeekOverview, error) {
	from, to := window.Bounds()

	flybys, err := s.ListFlybysInWindow(ctx, from, to, hazardousOnly)
	if err != nil {
		return nil, err
	}

	summary, err := s.CountAsteroidsInWindow(ctx, from, to)
	if err != nil {
		return nil, err
	}

	watched := []uint{}
	if userID != 0 {
		if watched, err = s.UserWatchlistAsteroidIDs(ctx, userID); err != nil {
			return nil, err
		}
	}

	return &WeekOverview{
		StartDate:  window.StartString(),
		EndDate:    window.EndString(),
		From:       from,
		To:         to,
		Flybys:     flybys,
		Summary:    summary,
		WatchedIDs: watched,
	}, nil
}

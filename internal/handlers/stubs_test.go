package handlers

import (
	"context"
	"time"

	"neowatch/internal/clients"
	"neowatch/internal/models"
	"neowatch/internal/service"
)

var (
	_ service.FlybyService     = (*stubFlybyService)(nil)
	_ service.ExportService    = (*stubExportService)(nil)
	_ service.AsteroidService  = (*stubAsteroidService)(nil)
	_ service.WatchlistService = (*stubWatchlistService)(nil)
	_ service.IngestService    = (*stubIngestService)(nil)
	_ service.StatsService     = (*stubStatsService)(nil)
)

type stubUsers struct {
	users map[uint]*models.User
}

func (s *stubUsers) GetByID(ctx context.Context, id uint) (*models.User, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, models.ErrNotFound
}

func (s *stubUsers) Ensure(ctx context.Context, username string) (*models.User, bool, error) {
	return &models.User{Username: username}, true, nil
}

func (s *stubUsers) Count(ctx context.Context) (int64, error) { return int64(len(s.users)), nil }

type stubFlybyService struct {
	gotWindow    clients.Window
	gotUserID    uint
	gotHazardous bool
	err          error
}

func (s *stubFlybyService) ListFlybysInWindow(ctx context.Context, from, to time.Time, hazardousOnly bool) ([]models.Flyby, error) {
	return []models.Flyby{}, s.err
}

func (s *stubFlybyService) CountAsteroidsInWindow(ctx context.Context, from, to time.Time) (*models.HazardSummary, error) {
	return &models.HazardSummary{}, s.err
}

func (s *stubFlybyService) ListUpcomingFlybysForUser(ctx context.Context, userID uint, horizonDays int) ([]models.Flyby, error) {
	return []models.Flyby{}, s.err
}

func (s *stubFlybyService) UserWatchlistAsteroidIDs(ctx context.Context, userID uint) ([]uint, error) {
	return []uint{}, s.err
}

func (s *stubFlybyService) WeekOverview(ctx context.Context, window clients.Window, userID uint, hazardousOnly bool) (*service.WeekOverview, error) {
	s.gotWindow, s.gotUserID, s.gotHazardous = window, userID, hazardousOnly
	if s.err != nil {
		return nil, s.err
	}
	return &service.WeekOverview{
		StartDate:  window.StartString(),
		EndDate:    window.EndString(),
		Flybys:     []models.Flyby{},
		Summary:    &models.HazardSummary{},
		WatchedIDs: []uint{},
	}, nil
}

type stubExportService struct {
	path string
	err  error
}

func (s *stubExportService) ExportFlybys(ctx context.Context, window clients.Window, format string) (string, error) {
	if format != "csv" && format != "xlsx" {
		return "", service.ErrUnsupportedFormat
	}
	return s.path, s.err
}

type stubAsteroidService struct {
	asteroids map[uint]*models.Asteroid
}

func (s *stubAsteroidService) Search(ctx context.Context, query string, limit int) ([]models.Asteroid, error) {
	out := []models.Asteroid{}
	for _, a := range s.asteroids {
		out = append(out, *a)
	}
	return out, nil
}

func (s *stubAsteroidService) Get(ctx context.Context, id uint) (*models.Asteroid, error) {
	if a, ok := s.asteroids[id]; ok {
		return a, nil
	}
	return nil, models.ErrNotFound
}

type stubWatchlistService struct {
	items  map[uint]*models.WatchlistItem
	nextID uint
}

func newStubWatchlistService() *stubWatchlistService {
	return &stubWatchlistService{items: make(map[uint]*models.WatchlistItem)}
}

func (s *stubWatchlistService) Add(ctx context.Context, userID, asteroidID uint) (*models.WatchlistItem, bool, error) {
	if asteroidID == 404 {
		return nil, false, models.ErrNotFound
	}
	for _, item := range s.items {
		if item.UserID == userID && item.AsteroidID == asteroidID {
			return item, false, nil
		}
	}
	s.nextID++
	item := &models.WatchlistItem{
		ID:         s.nextID,
		UserID:     userID,
		AsteroidID: asteroidID,
		Asteroid:   &models.Asteroid{ID: asteroidID, Name: "Apollo"},
	}
	s.items[item.ID] = item
	return item, true, nil
}

func (s *stubWatchlistService) owned(userID, itemID uint) (*models.WatchlistItem, error) {
	item, ok := s.items[itemID]
	if !ok || item.UserID != userID {
		return nil, models.ErrNotFound
	}
	return item, nil
}

func (s *stubWatchlistService) Remove(ctx context.Context, userID, itemID uint) (*models.WatchlistItem, error) {
	item, err := s.owned(userID, itemID)
	if err != nil {
		return nil, err
	}
	delete(s.items, itemID)
	return item, nil
}

func (s *stubWatchlistService) UpdateNotes(ctx context.Context, userID, itemID uint, notes string) (*models.WatchlistItem, error) {
	item, err := s.owned(userID, itemID)
	if err != nil {
		return nil, err
	}
	item.UserNotes = notes
	return item, nil
}

func (s *stubWatchlistService) Overview(ctx context.Context, userID uint, hazardousOnly bool) (*service.WatchlistOverview, error) {
	overview := &service.WatchlistOverview{Items: []models.WatchlistItem{}, Upcoming: []models.Flyby{}}
	for _, item := range s.items {
		if item.UserID == userID {
			overview.Items = append(overview.Items, *item)
		}
	}
	return overview, nil
}

type stubIngestService struct {
	result    *service.IngestResult
	err       error
	gotWindow clients.Window
	trigger   string
}

func (s *stubIngestService) Reconcile(ctx context.Context, payload []byte) (service.IngestResult, error) {
	return service.IngestResult{}, nil
}

func (s *stubIngestService) FetchAndStore(ctx context.Context, window clients.Window, trigger string) (*service.IngestResult, error) {
	s.gotWindow, s.trigger = window, trigger
	return s.result, s.err
}

func (s *stubIngestService) ListRuns(ctx context.Context, limit int) ([]models.IngestionRun, error) {
	return []models.IngestionRun{{Status: models.RunStatusSuccess}}, nil
}

func (s *stubIngestService) LatestRun(ctx context.Context) (*models.IngestionRun, error) {
	return nil, nil
}

func (s *stubIngestService) PruneRuns(ctx context.Context, retention time.Duration) (int64, error) {
	return 0, nil
}

type stubStatsService struct{}

func (s *stubStatsService) GetStats(ctx context.Context) (*service.SystemStats, error) {
	return &service.SystemStats{Asteroids: 3, Flybys: 5, Users: 1}, nil
}

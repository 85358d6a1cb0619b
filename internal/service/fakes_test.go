package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"neowatch/internal/clients"
	"neowatch/internal/models"
	"neowatch/internal/repository"
)

var (
	_ repository.AsteroidRepository     = (*fakeAsteroidRepo)(nil)
	_ repository.FlybyRepository        = (*fakeFlybyRepo)(nil)
	_ repository.WatchlistRepository    = (*fakeWatchlistRepo)(nil)
	_ repository.IngestionRunRepository = (*fakeRunRepo)(nil)
	_ clients.NEOClient                 = (*fakeNEOClient)(nil)
)

type fakeAsteroidRepo struct {
	mu     sync.Mutex
	nextID uint
	byNasa map[string]*models.Asteroid
}

func newFakeAsteroidRepo() *fakeAsteroidRepo {
	return &fakeAsteroidRepo{byNasa: make(map[string]*models.Asteroid)}
}

func (r *fakeAsteroidRepo) Upsert(ctx context.Context, a *models.Asteroid) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if stored, ok := r.byNasa[a.NasaID]; ok {
		if len(stored.Changes(a)) > 0 {
			stored.Apply(a)
		}
		*a = *stored
		return false, nil
	}

	r.nextID++
	stored := *a
	stored.ID = r.nextID
	r.byNasa[a.NasaID] = &stored
	*a = stored
	return true, nil
}

func (r *fakeAsteroidRepo) GetByID(ctx context.Context, id uint) (*models.Asteroid, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.byNasa {
		if a.ID == id {
			copied := *a
			return &copied, nil
		}
	}
	return nil, models.ErrNotFound
}

func (r *fakeAsteroidRepo) GetByNasaID(ctx context.Context, nasaID string) (*models.Asteroid, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byNasa[nasaID]
	if !ok {
		return nil, models.ErrNotFound
	}
	copied := *a
	return &copied, nil
}

func (r *fakeAsteroidRepo) Search(ctx context.Context, query string, limit int) ([]models.Asteroid, error) {
	return nil, nil
}

func (r *fakeAsteroidRepo) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.byNasa)), nil
}

type flybyKey struct {
	asteroidID uint
	date       int64
}

type fakeFlybyRepo struct {
	mu        sync.Mutex
	asteroids *fakeAsteroidRepo
	watchlist *fakeWatchlistRepo
	rows      map[flybyKey]models.Flyby

	// failOnCall makes the n-th CreateIfAbsent call fail when positive.
	failOnCall int
	calls      int
}

func newFakeFlybyRepo(asteroids *fakeAsteroidRepo) *fakeFlybyRepo {
	return &fakeFlybyRepo{asteroids: asteroids, rows: make(map[flybyKey]models.Flyby)}
}

func (r *fakeFlybyRepo) CreateIfAbsent(ctx context.Context, f *models.Flyby) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.calls++
	if r.failOnCall > 0 && r.calls == r.failOnCall {
		return false, errors.New("connection reset")
	}

	key := flybyKey{f.AsteroidID, f.Date.UnixNano()}
	if _, ok := r.rows[key]; ok {
		return false, nil
	}
	f.ID = uint(len(r.rows) + 1)
	r.rows[key] = *f
	return true, nil
}

func (r *fakeFlybyRepo) all() []models.Flyby {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]models.Flyby, 0, len(r.rows))
	for _, f := range r.rows {
		if a, err := r.asteroids.GetByID(context.Background(), f.AsteroidID); err == nil {
			f.Asteroid = a
		}
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

func (r *fakeFlybyRepo) ListInWindow(ctx context.Context, from, to time.Time, hazardousOnly bool) ([]models.Flyby, error) {
	var out []models.Flyby
	for _, f := range r.all() {
		if f.Date.Before(from) || f.Date.After(to) {
			continue
		}
		if hazardousOnly && !f.Asteroid.IsPotentiallyHazardous {
			continue
		}
		out = append(out, f)
	}
	return out, nil
}

func (r *fakeFlybyRepo) SummarizeWindow(ctx context.Context, from, to time.Time) (*models.HazardSummary, error) {
	flybys, _ := r.ListInWindow(ctx, from, to, false)
	seen := make(map[uint]bool)
	summary := &models.HazardSummary{}
	for _, f := range flybys {
		if seen[f.AsteroidID] {
			continue
		}
		seen[f.AsteroidID] = true
		summary.Total++
		if f.Asteroid.IsPotentiallyHazardous {
			summary.Hazardous++
		}
	}
	summary.Safe = summary.Total - summary.Hazardous
	return summary, nil
}

func (r *fakeFlybyRepo) ListForUserWatchlist(ctx context.Context, userID uint, from, to time.Time) ([]models.Flyby, error) {
	ids, _ := r.watchlist.AsteroidIDs(ctx, userID)
	watched := make(map[uint]bool)
	for _, id := range ids {
		watched[id] = true
	}

	flybys, _ := r.ListInWindow(ctx, from, to, false)
	var out []models.Flyby
	for _, f := range flybys {
		if watched[f.AsteroidID] {
			out = append(out, f)
		}
	}
	return out, nil
}

func (r *fakeFlybyRepo) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.rows)), nil
}

type fakeWatchlistRepo struct {
	mu     sync.Mutex
	nextID uint
	items  []models.WatchlistItem
}

func (r *fakeWatchlistRepo) GetOrCreate(ctx context.Context, userID, asteroidID uint) (*models.WatchlistItem, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range r.items {
		if item.UserID == userID && item.AsteroidID == asteroidID {
			copied := item
			return &copied, false, nil
		}
	}
	r.nextID++
	item := models.WatchlistItem{ID: r.nextID, UserID: userID, AsteroidID: asteroidID, AddedAt: time.Now()}
	r.items = append(r.items, item)
	return &item, true, nil
}

func (r *fakeWatchlistRepo) Get(ctx context.Context, userID, itemID uint) (*models.WatchlistItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range r.items {
		if item.ID == itemID && item.UserID == userID {
			copied := item
			return &copied, nil
		}
	}
	return nil, models.ErrNotFound
}

func (r *fakeWatchlistRepo) Delete(ctx context.Context, userID, itemID uint) (*models.WatchlistItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, item := range r.items {
		if item.ID == itemID && item.UserID == userID {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return &item, nil
		}
	}
	return nil, models.ErrNotFound
}

func (r *fakeWatchlistRepo) UpdateNotes(ctx context.Context, userID, itemID uint, notes string) (*models.WatchlistItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if r.items[i].ID == itemID && r.items[i].UserID == userID {
			r.items[i].UserNotes = notes
			copied := r.items[i]
			return &copied, nil
		}
	}
	return nil, models.ErrNotFound
}

func (r *fakeWatchlistRepo) ListByUser(ctx context.Context, userID uint, hazardousOnly bool) ([]models.WatchlistItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.WatchlistItem
	for i := len(r.items) - 1; i >= 0; i-- {
		if r.items[i].UserID == userID {
			out = append(out, r.items[i])
		}
	}
	return out, nil
}

func (r *fakeWatchlistRepo) AsteroidIDs(ctx context.Context, userID uint) ([]uint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []uint
	for _, item := range r.items {
		if item.UserID == userID {
			ids = append(ids, item.AsteroidID)
		}
	}
	return ids, nil
}

type fakeRunRepo struct {
	mu   sync.Mutex
	runs []models.IngestionRun
}

func (r *fakeRunRepo) Create(ctx context.Context, run *models.IngestionRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs = append(r.runs, *run)
	return nil
}

func (r *fakeRunRepo) GetLatest(ctx context.Context) (*models.IngestionRun, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.runs) == 0 {
		return nil, models.ErrNotFound
	}
	run := r.runs[len(r.runs)-1]
	return &run, nil
}

func (r *fakeRunRepo) List(ctx context.Context, limit int) ([]models.IngestionRun, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.IngestionRun(nil), r.runs...), nil
}

func (r *fakeRunRepo) DeleteOld(ctx context.Context, olderThan time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.runs[:0]
	var deleted int64
	for _, run := range r.runs {
		if run.FinishedAt.Before(olderThan) {
			deleted++
			continue
		}
		kept = append(kept, run)
	}
	r.runs = kept
	return deleted, nil
}

type fakeNEOClient struct {
	payload []byte
	err     error
	calls   int
}

func (c *fakeNEOClient) FetchFeed(ctx context.Context, window clients.Window) ([]byte, error) {
	c.calls++
	return c.payload, c.err
}

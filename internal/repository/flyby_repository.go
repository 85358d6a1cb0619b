package repository

import (
	"context"
	"time"

	"neowatch/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FlybyRepository interface {
	// CreateIfAbsent inserts f unless (asteroid_id, date) is already stored.
	// The first write for a key wins.
	CreateIfAbsent(ctx context.Context, f *models.Flyby) (bool, error)
	ListInWindow(ctx context.Context, from, to time.Time, hazardousOnly bool) ([]models.Flyby, error)
	SummarizeWindow(ctx context.Context, from, to time.Time) (*models.HazardSummary, error)
	ListForUserWatchlist(ctx context.Context, userID uint, from, to time.Time) ([]models.Flyby, error)
	Count(ctx context.Context) (int64, error)
}

type flybyRepository struct {
	db *gorm.DB
}

func NewFlybyRepository(db *gorm.DB) FlybyRepository {
	return &flybyRepository{db: db}
}

func (r *flybyRepository) CreateIfAbsent(ctx context.Context, f *models.Flyby) (bool, error) {
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "asteroid_id"}, {Name: "date"}},
		DoNothing: true,
	}).Create(f)
	if res.Error != nil {
		return false, mapError(res.Error, "flyby for asteroid", f.AsteroidID)
	}
	return res.RowsAffected == 1, nil
}

func (r *flybyRepository) ListInWindow(ctx context.Context, from, to time.Time, hazardousOnly bool) ([]models.Flyby, error) {
	db := r.db.WithContext(ctx).
		Joins("Asteroid").
		Where("flybys.date BETWEEN ? AND ?", from, to)

	if hazardousOnly {
		db = db.Where(`"Asteroid"."is_potentially_hazardous" = ?`, true)
	}

	var flybys []models.Flyby
	err := db.Order("flybys.date ASC, flybys.id ASC").Find(&flybys).Error
	return flybys, err
}

func (r *flybyRepository) SummarizeWindow(ctx context.Context, from, to time.Time) (*models.HazardSummary, error) {
	var summary models.HazardSummary
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			COUNT(DISTINCT a.id) AS total,
			COUNT(DISTINCT a.id) FILTER (WHERE a.is_potentially_hazardous) AS hazardous
		FROM asteroids a
		JOIN flybys f ON f.asteroid_id = a.id
		WHERE f.date BETWEEN ? AND ?`, from, to).
		Scan(&summary).
		Error
	if err != nil {
		return nil, err
	}

	summary.Safe = summary.Total - summary.Hazardous
	return &summary, nil
}

func (r *flybyRepository) ListForUserWatchlist(ctx context.Context, userID uint, from, to time.Time) ([]models.Flyby, error) {
	watched := r.db.Model(&models.WatchlistItem{}).
		Select("asteroid_id").
		Where("user_id = ?", userID)

	var flybys []models.Flyby
	err := r.db.WithContext(ctx).
		Joins("Asteroid").
		Where("flybys.asteroid_id IN (?)", watched).
		Where("flybys.date BETWEEN ? AND ?", from, to).
		Order("flybys.date ASC, flybys.id ASC").
		Find(&flybys).
		Error
	return flybys, err
}

func (r *flybyRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Flyby{}).Count(&count).Error
	return count, err
}

package repository

import (
	"context"

	"neowatch/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// WatchlistRepository scopes every item lookup to its owner, so another
// user's item is indistinguishable from a missing one.
type WatchlistRepository interface {
	GetOrCreate(ctx context.Context, userID, asteroidID uint) (*models.WatchlistItem, bool, error)
	Get(ctx context.Context, userID, itemID uint) (*models.WatchlistItem, error)
	Delete(ctx context.Context, userID, itemID uint) (*models.WatchlistItem, error)
	UpdateNotes(ctx context.Context, userID, itemID uint, notes string) (*models.WatchlistItem, error)
	ListByUser(ctx context.Context, userID uint, hazardousOnly bool) ([]models.WatchlistItem, error)
	AsteroidIDs(ctx context.Context, userID uint) ([]uint, error)
}

type watchlistRepository struct {
	db *gorm.DB
}

func NewWatchlistRepository(db *gorm.DB) WatchlistRepository {
	return &watchlistRepository{db: db}
}

func (r *watchlistRepository) GetOrCreate(ctx context.Context, userID, asteroidID uint) (*models.WatchlistItem, bool, error) {
	item := models.WatchlistItem{UserID: userID, AsteroidID: asteroidID}
	created := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "asteroid_id"}},
			DoNothing: true,
		}).Create(&item)
		if res.Error != nil {
			return res.Error
		}
		created = res.RowsAffected == 1

		return tx.Preload("Asteroid").
			Where("user_id = ? AND asteroid_id = ?", userID, asteroidID).
			First(&item).
			Error
	})
	if err != nil {
		return nil, false, mapError(err, "asteroid", asteroidID)
	}

	return &item, created, nil
}

func (r *watchlistRepository) Get(ctx context.Context, userID, itemID uint) (*models.WatchlistItem, error) {
	var item models.WatchlistItem
	err := r.db.WithContext(ctx).
		Preload("Asteroid").
		Where("id = ? AND user_id = ?", itemID, userID).
		First(&item).
		Error
	if err != nil {
		return nil, mapError(err, "watchlist item", itemID)
	}
	return &item, nil
}

func (r *watchlistRepository) Delete(ctx context.Context, userID, itemID uint) (*models.WatchlistItem, error) {
	item, err := r.Get(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}

	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", itemID, userID).
		Delete(&models.WatchlistItem{})
	if res.Error != nil {
		return nil, mapError(res.Error, "watchlist item", itemID)
	}
	if res.RowsAffected == 0 {
		return nil, mapError(gorm.ErrRecordNotFound, "watchlist item", itemID)
	}

	return item, nil
}

func (r *watchlistRepository) UpdateNotes(ctx context.Context, userID, itemID uint, notes string) (*models.WatchlistItem, error) {
	res := r.db.WithContext(ctx).
		Model(&models.WatchlistItem{}).
		Where("id = ? AND user_id = ?", itemID, userID).
		Update("user_notes", notes)
	if res.Error != nil {
		return nil, mapError(res.Error, "watchlist item", itemID)
	}
	if res.RowsAffected == 0 {
		return nil, mapError(gorm.ErrRecordNotFound, "watchlist item", itemID)
	}

	return r.Get(ctx, userID, itemID)
}

func (r *watchlistRepository) ListByUser(ctx context.Context, userID uint, hazardousOnly bool) ([]models.WatchlistItem, error) {
	db := r.db.WithContext(ctx).
		Joins("Asteroid").
		Where("watchlist_items.user_id = ?", userID)

	if hazardousOnly {
		db = db.Where(`"Asteroid"."is_potentially_hazardous" = ?`, true)
	}

	var items []models.WatchlistItem
	err := db.Order("watchlist_items.added_at DESC, watchlist_items.id DESC").Find(&items).Error
	return items, err
}

func (r *watchlistRepository) AsteroidIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&models.WatchlistItem{}).
		Where("user_id = ?", userID).
		Pluck("asteroid_id", &ids).
		Error
	return ids, err
}

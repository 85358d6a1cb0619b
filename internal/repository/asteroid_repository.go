package repository

import (
	"context"

	"neowatch/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AsteroidRepository interface {
	// Upsert inserts the asteroid or, when nasa_id already exists, writes back
	// only the columns that changed. a is refreshed with the stored row.
	Upsert(ctx context.Context, a *models.Asteroid) (created bool, err error)
	GetByID(ctx context.Context, id uint) (*models.Asteroid, error)
	GetByNasaID(ctx context.Context, nasaID string) (*models.Asteroid, error)
	Search(ctx context.Context, query string, limit int) ([]models.Asteroid, error)
	Count(ctx context.Context) (int64, error)
}

type asteroidRepository struct {
	db *gorm.DB
}

func NewAsteroidRepository(db *gorm.DB) AsteroidRepository {
	return &asteroidRepository{db: db}
}

func (r *asteroidRepository) Upsert(ctx context.Context, a *models.Asteroid) (bool, error) {
	created := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		incoming := *a
		incoming.ID = 0

		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "nasa_id"}},
			DoNothing: true,
		}).Create(&incoming)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 1 {
			created = true
			*a = incoming
			return nil
		}

		var existing models.Asteroid
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("nasa_id = ?", a.NasaID).
			First(&existing).
			Error
		if err != nil {
			return err
		}

		if changes := existing.Changes(a); len(changes) > 0 {
			if err := tx.Model(&existing).Updates(changes).Error; err != nil {
				return err
			}
			existing.Apply(a)
		}

		*a = existing
		return nil
	})
	if err != nil {
		return false, mapError(err, "asteroid", a.NasaID)
	}

	return created, nil
}

func (r *asteroidRepository) GetByID(ctx context.Context, id uint) (*models.Asteroid, error) {
	var a models.Asteroid
	if err := r.db.WithContext(ctx).First(&a, id).Error; err != nil {
		return nil, mapError(err, "asteroid", id)
	}
	return &a, nil
}

func (r *asteroidRepository) GetByNasaID(ctx context.Context, nasaID string) (*models.Asteroid, error) {
	var a models.Asteroid
	if err := r.db.WithContext(ctx).First(&a, "nasa_id = ?", nasaID).Error; err != nil {
		return nil, mapError(err, "asteroid", nasaID)
	}
	return &a, nil
}

func (r *asteroidRepository) Search(ctx context.Context, query string, limit int) ([]models.Asteroid, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}

	db := r.db.WithContext(ctx)
	if query != "" {
		pattern := "%" + query + "%"
		db = db.Where("name ILIKE ? OR nasa_id ILIKE ?", pattern, pattern)
	}

	var asteroids []models.Asteroid
	err := db.Order("name ASC").Limit(limit).Find(&asteroids).Error
	return asteroids, err
}

func (r *asteroidRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Asteroid{}).Count(&count).Error
	return count, err
}

package repository

import (
	"context"
	"time"

	"neowatch/internal/models"

	"gorm.io/gorm"
)

type IngestionRunRepository interface {
	Create(ctx context.Context, run *models.IngestionRun) error
	GetLatest(ctx context.Context) (*models.IngestionRun, error)
	List(ctx context.Context, limit int) ([]models.IngestionRun, error)
	DeleteOld(ctx context.Context, olderThan time.Time) (int64, error)
}

type ingestionRunRepository struct {
	db *gorm.DB
}

func NewIngestionRunRepository(db *gorm.DB) IngestionRunRepository {
	return &ingestionRunRepository{db: db}
}

func (r *ingestionRunRepository) Create(ctx context.Context, run *models.IngestionRun) error {
	return r.db.WithContext(ctx).Create(run).Error
}

func (r *ingestionRunRepository) GetLatest(ctx context.Context) (*models.IngestionRun, error) {
	var run models.IngestionRun
	err := r.db.WithContext(ctx).
		Order("finished_at DESC").
		First(&run).
		Error
	if err != nil {
		return nil, mapError(err, "ingestion run", "latest")
	}
	return &run, nil
}

func (r *ingestionRunRepository) List(ctx context.Context, limit int) ([]models.IngestionRun, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var runs []models.IngestionRun
	err := r.db.WithContext(ctx).
		Order("finished_at DESC").
		Limit(limit).
		Find(&runs).
		Error
	return runs, err
}

func (r *ingestionRunRepository) DeleteOld(ctx context.Context, olderThan time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("finished_at < ?", olderThan).
		Delete(&models.IngestionRun{})
	return res.RowsAffected, res.Error
}

package repository

import (
	"context"

	"neowatch/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	// Ensure returns the user with this username, creating it if needed.
	Ensure(ctx context.Context, username string) (*models.User, bool, error)
	Count(ctx context.Context) (int64, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, mapError(err, "user", id)
	}
	return &u, nil
}

func (r *userRepository) Ensure(ctx context.Context, username string) (*models.User, bool, error) {
	u := models.User{Username: username}

	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "username"}},
		DoNothing: true,
	}).Create(&u)
	if res.Error != nil {
		return nil, false, mapError(res.Error, "user", username)
	}
	if res.RowsAffected == 1 {
		return &u, true, nil
	}

	if err := r.db.WithContext(ctx).First(&u, "username = ?", username).Error; err != nil {
		return nil, false, mapError(err, "user", username)
	}
	return &u, false, nil
}

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Count(&count).Error
	return count, err
}

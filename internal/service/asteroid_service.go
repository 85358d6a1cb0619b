package service

import (
	"context"
	"strings"

	"neowatch/internal/models"
	"neowatch/internal/repository"
)

type AsteroidService interface {
	Search(ctx context.Context, query string, limit int) ([]models.Asteroid, error)
	Get(ctx context.Context, id uint) (*models.Asteroid, error)
}

type asteroidService struct {
	repo repository.AsteroidRepository
}

func NewAsteroidService(repo repository.AsteroidRepository) AsteroidService {
	return &asteroidService{repo: repo}
}

func (s *asteroidService) Search(ctx context.Context, query string, limit int) ([]models.Asteroid, error) {
	asteroids, err := s.repo.Search(ctx, strings.TrimSpace(query), limit)
	if err != nil {
		return nil, err
	}
	if asteroids == nil {
		asteroids = []models.Asteroid{}
	}
	return asteroids, nil
}

func (s *asteroidService) Get(ctx context.Context, id uint) (*models.Asteroid, error) {
	return s.repo.GetByID(ctx, id)
}

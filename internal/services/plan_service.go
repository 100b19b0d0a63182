package services

import (
	"context"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/coolair/coolair-backend/internal/apperr"
	"github.com/coolair/coolair-backend/internal/logging"
	"github.com/coolair/coolair-backend/internal/models"
)

const planCatalogKey = "plans:catalog"

// PlanService reads the plan catalog, through the cache when one is set.
// Cache errors fall back to the database.
type PlanService struct {
	db    *gorm.DB
	cache Cache
	ttl   time.Duration
}

func NewPlanService(db *gorm.DB, cache Cache, ttl time.Duration) *PlanService {
	return &PlanService{db: db, cache: cache, ttl: ttl}
}

func (s *PlanService) List(ctx context.Context) ([]models.Plan, error) {
	if s.cache != nil {
		var cached []models.Plan
		hit, err := s.cache.Get(ctx, planCatalogKey, &cached)
		if err != nil {
			slog.Warn("plan cache read failed", logging.Err(err))
		}
		if hit {
			return cached, nil
		}
	}

	plans := []models.Plan{}
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&plans).Error; err != nil {
		return nil, apperr.Storage("failed to list plans", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, planCatalogKey, plans, s.ttl); err != nil {
			slog.Warn("plan cache write failed", logging.Err(err))
		}
	}
	return plans, nil
}

package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/coolair/coolair-backend/internal/apperr"
	"github.com/coolair/coolair-backend/internal/dto"
	"github.com/coolair/coolair-backend/internal/models"
	"github.com/coolair/coolair-backend/internal/validation"
)

type PropertyService struct {
	db *gorm.DB
}

func NewPropertyService(db *gorm.DB) *PropertyService {
	return &PropertyService{db: db}
}

func (s *PropertyService) List(ctx context.Context, userID uuid.UUID) ([]models.Property, error) {
	props := []models.Property{}
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Find(&props).Error
	if err != nil {
		return nil, apperr.Storage("failed to list properties", err)
	}
	return props, nil
}

// Create stores a property for userID. Type defaults to residential and the
// AC-unit count to 1.
func (s *PropertyService) Create(ctx context.Context, userID uuid.UUID, req *dto.CreatePropertyRequest) (*models.Property, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	propertyType := models.PropertyResidential
	if req.PropertyType != "" {
		propertyType = models.PropertyType(req.PropertyType)
	}
	acUnits := 1
	if req.ACUnits != nil {
		acUnits = *req.ACUnits
	}

	prop := &models.Property{
		UserID:       userID,
		Name:         strings.TrimSpace(req.Name),
		Address:      strings.TrimSpace(req.Address),
		City:         strings.TrimSpace(req.City),
		State:        strings.TrimSpace(req.State),
		ZipCode:      strings.TrimSpace(req.ZipCode),
		PropertyType: propertyType,
		ACUnits:      acUnits,
	}
	if err := s.db.WithContext(ctx).Create(prop).Error; err != nil {
		return nil, apperr.Storage("failed to create property", err)
	}
	return prop, nil
}

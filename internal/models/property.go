package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PropertyType string

const (
	PropertyResidential PropertyType = "residential"
	PropertyCommercial  PropertyType = "commercial"
)

func (t PropertyType) Valid() bool {
	return t == PropertyResidential || t == PropertyCommercial
}

// Property is a serviceable location. UserID is set at creation and never changes.
type Property struct {
	ID           uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID    `gorm:"type:uuid;not null;index" json:"userId"`
	Name         string       `gorm:"size:100" json:"name,omitempty"`
	Address      string       `gorm:"size:255;not null" json:"address"`
	City         string       `gorm:"size:100;not null" json:"city"`
	State        string       `gorm:"size:100;not null" json:"state"`
	ZipCode      string       `gorm:"size:20;not null" json:"zipCode"`
	PropertyType PropertyType `gorm:"size:20;not null;default:'residential'" json:"propertyType"`
	ACUnits      int          `gorm:"not null;default:1" json:"acUnits"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
	User         User         `gorm:"foreignKey:UserID" json:"-"`
}

func (p *Property) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

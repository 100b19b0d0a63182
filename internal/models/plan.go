package models

import (
	"time"

	"gorm.io/datatypes"
)

// Plan is immutable reference data. IDs are fixed so clients can subscribe
// by the catalog number they were shown.
type Plan struct {
	ID        uint                        `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Title     string                      `gorm:"size:50;not null;uniqueIndex" json:"title"`
	Price     float64                     `gorm:"type:decimal(10,2);not null" json:"price"`
	Features  datatypes.JSONSlice[string] `json:"features"`
	CreatedAt time.Time                   `json:"-"`
	UpdatedAt time.Time                   `json:"-"`
}

// DefaultPlans is the catalog seeded on startup.
func DefaultPlans() []Plan {
	return []Plan{
		{
			ID:    1,
			Title: "Basic",
			Price: 29.99,
			Features: datatypes.JSONSlice[string]{
				"Bi-annual AC maintenance",
				"Filter replacements",
				"Basic system health check",
				"Email support",
				"20% discount on repairs",
			},
		},
		{
			ID:    2,
			Title: "Premium",
			Price: 49.99,
			Features: datatypes.JSONSlice[string]{
				"Quarterly AC maintenance",
				"Filter replacements",
				"Comprehensive system check",
				"Priority email & phone support",
				"30% discount on repairs",
				"Emergency service within 24 hours",
			},
		},
		{
			ID:    3,
			Title: "Business",
			Price: 99.99,
			Features: datatypes.JSONSlice[string]{
				"Monthly AC maintenance",
				"All filter and part replacements",
				"Advanced system diagnostics",
				"Dedicated support line",
				"40% discount on repairs",
				"Emergency service within 8 hours",
				"Multiple unit coverage",
			},
		},
	}
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AppointmentStatus string

const (
	AppointmentScheduled AppointmentStatus = "scheduled"
	AppointmentCompleted AppointmentStatus = "completed"
	AppointmentCancelled AppointmentStatus = "cancelled"
)

type ServiceType string

const (
	ServiceMaintenance  ServiceType = "maintenance"
	ServiceRepair       ServiceType = "repair"
	ServiceInstallation ServiceType = "installation"
)

func (t ServiceType) Valid() bool {
	switch t {
	case ServiceMaintenance, ServiceRepair, ServiceInstallation:
		return true
	}
	return false
}

// Appointment is a service visit. PropertyID must belong to UserID; this is
// checked when the appointment is scheduled.
type Appointment struct {
	ID              uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          uuid.UUID         `gorm:"type:uuid;not null;index" json:"userId"`
	PropertyID      uuid.UUID         `gorm:"type:uuid;not null;index" json:"propertyId"`
	AppointmentDate datatypes.Date    `gorm:"not null" json:"appointmentDate"`
	TimeSlot        string            `gorm:"size:50;not null" json:"timeSlot"`
	ServiceType     ServiceType       `gorm:"size:20;not null" json:"serviceType"`
	Status          AppointmentStatus `gorm:"size:20;not null;default:'scheduled';index" json:"status"`
	Notes           string            `gorm:"size:1000" json:"notes,omitempty"`
	CancelledAt     *time.Time        `json:"cancelledAt,omitempty"`
	CompletedAt     *time.Time        `json:"completedAt,omitempty"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
	Property        *Property         `gorm:"foreignKey:PropertyID" json:"property,omitempty"`
	User            User              `gorm:"foreignKey:UserID" json:"-"`
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

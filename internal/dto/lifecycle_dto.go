package dto

import "github.com/coolair/coolair-backend/internal/models"

type CreatePropertyRequest struct {
	Name         string `json:"name" validate:"max=100"`
	Address      string `json:"address" validate:"required,max=255"`
	City         string `json:"city" validate:"required,max=100"`
	State        string `json:"state" validate:"required,max=100"`
	ZipCode      string `json:"zipCode" validate:"required,max=20"`
	PropertyType string `json:"propertyType" validate:"omitempty,oneof=residential commercial"`
	ACUnits      *int   `json:"acUnits" validate:"omitempty,min=1"`
}

type PropertyResponse struct {
	Success  bool             `json:"success"`
	Property *models.Property `json:"property"`
}

type CreateSubscriptionRequest struct {
	PlanID uint `json:"planId" validate:"required"`
}

type SubscriptionResponse struct {
	Success      bool                 `json:"success"`
	Subscription *models.Subscription `json:"subscription"`
}

type CreateAppointmentRequest struct {
	PropertyID      string `json:"propertyId" validate:"required,max=64"`
	AppointmentDate string `json:"appointmentDate" validate:"required,max=64"`
	TimeSlot        string `json:"timeSlot" validate:"max=50"`
	ServiceType     string `json:"serviceType" validate:"required,max=32"`
	Notes           string `json:"notes" validate:"max=1000"`
}

// RescheduleAppointmentRequest keeps the current slot when TimeSlot is empty.
type RescheduleAppointmentRequest struct {
	AppointmentDate string `json:"appointmentDate" validate:"required,max=64"`
	TimeSlot        string `json:"timeSlot" validate:"max=50"`
}

type AppointmentResponse struct {
	Success     bool                `json:"success"`
	Appointment *models.Appointment `json:"appointment"`
}

type DashboardResponse struct {
	Properties            []models.Property    `json:"properties"`
	TotalACUnits          int                  `json:"totalAcUnits"`
	UpcomingAppointments  []models.Appointment `json:"upcomingAppointments"`
	ServiceHistory        []models.Appointment `json:"serviceHistory"`
	NextAppointment       *models.Appointment  `json:"nextAppointment"`
	CurrentSubscription   *models.Subscription `json:"currentSubscription"`
	HasActiveSubscription bool                 `json:"hasActiveSubscription"`
}

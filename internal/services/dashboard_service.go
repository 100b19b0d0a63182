package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/coolair/coolair-backend/internal/dto"
	"github.com/coolair/coolair-backend/internal/lifecycle"
	"github.com/coolair/coolair-backend/internal/models"
)

// DashboardService assembles the signed-in user's overview.
type DashboardService struct {
	properties    *PropertyService
	appointments  *AppointmentService
	subscriptions *SubscriptionService
}

func NewDashboardService(properties *PropertyService, appointments *AppointmentService, subscriptions *SubscriptionService) *DashboardService {
	return &DashboardService{
		properties:    properties,
		appointments:  appointments,
		subscriptions: subscriptions,
	}
}

func (s *DashboardService) Get(ctx context.Context, userID uuid.UUID) (*dto.DashboardResponse, error) {
	props, err := s.properties.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	appts, err := s.appointments.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	subs, err := s.subscriptions.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	total := 0
	for _, p := range props {
		total += p.ACUnits
	}

	views := lifecycle.Project(appts)
	current := lifecycle.ResolveCurrent(subs)

	return &dto.DashboardResponse{
		Properties:            props,
		TotalACUnits:          total,
		UpcomingAppointments:  views.Upcoming,
		ServiceHistory:        views.History,
		NextAppointment:       views.Next,
		CurrentSubscription:   current,
		HasActiveSubscription: current != nil && current.Status == models.SubscriptionActive,
	}, nil
}

package routes

import (
	"gorm.io/gorm"

	"github.com/coolair/coolair-backend/internal/config"
	"github.com/coolair/coolair-backend/internal/database"
	"github.com/coolair/coolair-backend/internal/events"
	"github.com/coolair/coolair-backend/internal/handlers"
	"github.com/coolair/coolair-backend/internal/services"
)

// NewHandlers wires services and handlers over db. cache may be nil.
func NewHandlers(db *gorm.DB, cfg *config.Config, cache services.Cache, pub events.Publisher) Handlers {
	authService := services.NewAuthService(db, cfg)
	planService := services.NewPlanService(db, cache, cfg.PlanCacheTTL)
	propertyService := services.NewPropertyService(db)
	subscriptionService := services.NewSubscriptionService(db, pub)
	appointmentService := services.NewAppointmentService(db, pub)
	dashboardService := services.NewDashboardService(propertyService, appointmentService, subscriptionService)

	return Handlers{
		Auth:         handlers.NewAuthHandler(authService),
		Health:       handlers.NewHealthHandler(func() error { return database.Ping(db) }),
		Plans:        handlers.NewPlanHandler(planService),
		Properties:   handlers.NewPropertyHandler(propertyService),
		Subscription: handlers.NewSubscriptionHandler(subscriptionService),
		Appointment:  handlers.NewAppointmentHandler(appointmentService),
		Dashboard:    handlers.NewDashboardHandler(dashboardService),
		Admin:        handlers.NewAdminHandler(appointmentService, subscriptionService),
	}
}

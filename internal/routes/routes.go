package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"gorm.io/gorm"

	"github.com/coolair/coolair-backend/internal/config"
	"github.com/coolair/coolair-backend/internal/handlers"
	"github.com/coolair/coolair-backend/internal/metrics"
	"github.com/coolair/coolair-backend/internal/middleware"
)

type Handlers struct {
	Auth         *handlers.AuthHandler
	Health       *handlers.HealthHandler
	Plans        *handlers.PlanHandler
	Properties   *handlers.PropertyHandler
	Subscription *handlers.SubscriptionHandler
	Appointment  *handlers.AppointmentHandler
	Dashboard    *handlers.DashboardHandler
	Admin        *handlers.AdminHandler
}

func Setup(app *fiber.App, cfg *config.Config, db *gorm.DB, h Handlers) {
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", h.Health.Check)
	api.Get("/plans", h.Plans.List)

	// Credential endpoints: 10 req/min per IP (stricter)
	authLimit := limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	})
	api.Post("/register", authLimit, h.Auth.Register)
	api.Post("/login", authLimit, h.Auth.Login)
	api.Post("/refresh", authLimit, h.Auth.Refresh)

	// Protected routes carry the JWT middleware individually so public
	// routes stay unaffected.
	protected := middleware.JWTProtected(cfg)
	api.Post("/logout", protected, h.Auth.Logout)
	api.Get("/user", protected, h.Auth.Profile)
	api.Put("/user", protected, h.Auth.UpdateProfile)

	api.Get("/dashboard", protected, h.Dashboard.Get)

	api.Get("/properties", protected, h.Properties.List)
	api.Post("/properties", protected, h.Properties.Create)

	api.Get("/subscriptions", protected, h.Subscription.List)
	api.Post("/subscriptions", protected, h.Subscription.Create)
	api.Put("/subscriptions/:id/cancel", protected, h.Subscription.Cancel)

	api.Get("/appointments", protected, h.Appointment.List)
	api.Post("/appointments", protected, h.Appointment.Create)
	api.Put("/appointments/:id", protected, h.Appointment.Reschedule)
	api.Delete("/appointments/:id", protected, h.Appointment.Cancel)

	// Operator transitions (protected + admin required)
	admin := api.Group("/admin", protected, middleware.AdminRequired(db, cfg))
	admin.Put("/appointments/:id/complete", h.Admin.CompleteAppointment)
	admin.Put("/subscriptions/:id/expire", h.Admin.ExpireSubscription)
	admin.Get("/subscriptions/overdue", h.Admin.OverdueSubscriptions)
}

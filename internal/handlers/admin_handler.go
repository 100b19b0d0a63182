package handlers

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/coolair/coolair-backend/internal/apperr"
	"github.com/coolair/coolair-backend/internal/dto"
	"github.com/coolair/coolair-backend/internal/lifecycle"
	"github.com/coolair/coolair-backend/internal/services"
)

// AdminHandler exposes the operator-only transitions. Nothing runs them
// automatically.
type AdminHandler struct {
	appointments  *services.AppointmentService
	subscriptions *services.SubscriptionService
}

func NewAdminHandler(appointments *services.AppointmentService, subscriptions *services.SubscriptionService) *AdminHandler {
	return &AdminHandler{appointments: appointments, subscriptions: subscriptions}
}

func (h *AdminHandler) CompleteAppointment(c *fiber.Ctx) error {
	id, err := pathID(c, apperr.NotFound(lifecycle.ErrAppointmentNotFound))
	if err != nil {
		return fail(c, err)
	}

	appt, err := h.appointments.Complete(c.UserContext(), id)
	if err != nil {
		return fail(c, err)
	}

	slog.Info("appointment completed by operator", "appointment_id", id.String(), "request_id", requestID(c))
	return c.JSON(dto.AppointmentResponse{Success: true, Appointment: appt})
}

func (h *AdminHandler) ExpireSubscription(c *fiber.Ctx) error {
	id, err := pathID(c, apperr.InvalidState(lifecycle.ErrSubscriptionNotActive))
	if err != nil {
		return fail(c, err)
	}

	sub, err := h.subscriptions.Expire(c.UserContext(), id)
	if err != nil {
		return fail(c, err)
	}

	slog.Info("subscription expired by operator", "subscription_id", id.String(), "request_id", requestID(c))
	return c.JSON(dto.SubscriptionResponse{Success: true, Subscription: sub})
}

func (h *AdminHandler) OverdueSubscriptions(c *fiber.Ctx) error {
	subs, err := h.subscriptions.Overdue(c.UserContext(), time.Now())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(subs)
}

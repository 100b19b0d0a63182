package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/coolair/coolair-backend/internal/apperr"
	"github.com/coolair/coolair-backend/internal/dto"
	"github.com/coolair/coolair-backend/internal/lifecycle"
	"github.com/coolair/coolair-backend/internal/services"
)

type AppointmentHandler struct {
	appointments *services.AppointmentService
}

func NewAppointmentHandler(appointments *services.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{appointments: appointments}
}

func (h *AppointmentHandler) Create(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return fail(c, err)
	}

	var req dto.CreateAppointmentRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}

	appt, err := h.appointments.Schedule(c.UserContext(), userID, &req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.AppointmentResponse{Success: true, Appointment: appt})
}

func (h *AppointmentHandler) List(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return fail(c, err)
	}

	appts, err := h.appointments.ListByUser(c.UserContext(), userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(appts)
}

func (h *AppointmentHandler) Reschedule(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return fail(c, err)
	}
	id, err := pathID(c, apperr.NotFound(lifecycle.ErrAppointmentNotFound))
	if err != nil {
		return fail(c, err)
	}

	var req dto.RescheduleAppointmentRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}

	appt, err := h.appointments.Reschedule(c.UserContext(), id, userID, &req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.AppointmentResponse{Success: true, Appointment: appt})
}

func (h *AppointmentHandler) Cancel(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return fail(c, err)
	}
	id, err := pathID(c, apperr.NotFound(lifecycle.ErrAppointmentNotFound))
	if err != nil {
		return fail(c, err)
	}

	appt, err := h.appointments.Cancel(c.UserContext(), id, userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.AppointmentResponse{Success: true, Appointment: appt})
}

package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/coolair/coolair-backend/internal/services"
)

type PlanHandler struct {
	plans *services.PlanService
}

func NewPlanHandler(plans *services.PlanService) *PlanHandler {
	return &PlanHandler{plans: plans}
}

func (h *PlanHandler) List(c *fiber.Ctx) error {
	plans, err := h.plans.List(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(plans)
}

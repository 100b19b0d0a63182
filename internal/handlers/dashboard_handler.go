package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/coolair/coolair-backend/internal/services"
)

type DashboardHandler struct {
	dashboard *services.DashboardService
}

func NewDashboardHandler(dashboard *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

func (h *DashboardHandler) Get(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return fail(c, err)
	}

	resp, err := h.dashboard.Get(c.UserContext(), userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(resp)
}

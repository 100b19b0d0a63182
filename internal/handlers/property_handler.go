package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/coolair/coolair-backend/internal/dto"
	"github.com/coolair/coolair-backend/internal/services"
)

type PropertyHandler struct {
	properties *services.PropertyService
}

func NewPropertyHandler(properties *services.PropertyService) *PropertyHandler {
	return &PropertyHandler{properties: properties}
}

func (h *PropertyHandler) List(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return fail(c, err)
	}

	props, err := h.properties.List(c.UserContext(), userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(props)
}

func (h *PropertyHandler) Create(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return fail(c, err)
	}

	var req dto.CreatePropertyRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}

	prop, err := h.properties.Create(c.UserContext(), userID, &req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.PropertyResponse{Success: true, Property: prop})
}

package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/coolair/coolair-backend/internal/apperr"
	"github.com/coolair/coolair-backend/internal/dto"
	"github.com/coolair/coolair-backend/internal/lifecycle"
	"github.com/coolair/coolair-backend/internal/services"
	"github.com/coolair/coolair-backend/internal/validation"
)

type SubscriptionHandler struct {
	subscriptions *services.SubscriptionService
}

func NewSubscriptionHandler(subscriptions *services.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptions: subscriptions}
}

func (h *SubscriptionHandler) Create(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return fail(c, err)
	}

	var req dto.CreateSubscriptionRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}
	if err := validation.Struct(&req); err != nil {
		return fail(c, err)
	}

	sub, err := h.subscriptions.Subscribe(c.UserContext(), userID, req.PlanID)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SubscriptionResponse{Success: true, Subscription: sub})
}

func (h *SubscriptionHandler) List(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return fail(c, err)
	}

	subs, err := h.subscriptions.List(c.UserContext(), userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(subs)
}

func (h *SubscriptionHandler) Cancel(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return fail(c, err)
	}
	id, err := pathID(c, apperr.InvalidState(lifecycle.ErrSubscriptionNotActive))
	if err != nil {
		return fail(c, err)
	}

	sub, err := h.subscriptions.Cancel(c.UserContext(), id, userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.SubscriptionResponse{Success: true, Subscription: sub})
}

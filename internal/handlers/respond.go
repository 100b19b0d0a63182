package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	sentryfiber "github.com/getsentry/sentry-go/fiber"

	"github.com/coolair/coolair-backend/internal/apperr"
	"github.com/coolair/coolair-backend/internal/dto"
	"github.com/coolair/coolair-backend/internal/identity"
	"github.com/coolair/coolair-backend/internal/logging"
)

var errInvalidBody = &apperr.Error{Kind: apperr.ErrValidation, Message: "Invalid request body"}

// StatusFor maps an error kind to its HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, apperr.ErrUnauthorized):
		return fiber.StatusUnauthorized
	case errors.Is(err, apperr.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, apperr.ErrInvalidState), errors.Is(err, apperr.ErrConflict):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// fail writes err as a dto.ErrorResponse. Server faults are logged with the
// request context and reported to Sentry; the client sees a generic message.
func fail(c *fiber.Ctx, err error) error {
	status := StatusFor(err)
	if status >= fiber.StatusInternalServerError {
		slog.Error("request failed",
			"request_id", requestID(c),
			"user_id", identity.LoggedUserID(c),
			"action", c.Method()+" "+c.Route().Path,
			logging.Err(err),
		)
		if hub := sentryfiber.GetHubFromContext(c); hub != nil {
			hub.CaptureException(err)
		}
	}

	return c.Status(status).JSON(dto.ErrorResponse{
		Success: false,
		Error:   true,
		Message: apperr.PublicMessage(err),
		Fields:  apperr.FieldsOf(err),
	})
}

func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return c.GetRespHeader(fiber.HeaderXRequestID)
}

func currentUser(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := identity.GetUserID(c)
	if err != nil {
		return uuid.Nil, apperr.Unauthorized("Unauthorized")
	}
	return id, nil
}

func parseBody(c *fiber.Ctx, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return errInvalidBody
	}
	return nil
}

// pathID parses the :id parameter. An unparseable id cannot name a stored
// row, so the caller gets notFound.
func pathID(c *fiber.Ctx, notFound error) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, notFound
	}
	return id, nil
}

// ErrorHandler handles errors returned past the handlers, such as fiber's
// own 404 and 405. Details of 5xx errors are not exposed.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}

	if code >= fiber.StatusInternalServerError {
		slog.Error("unhandled server error",
			"method", c.Method(),
			"path", c.Path(),
			"request_id", requestID(c),
			logging.Err(err),
		)
		message = "Internal server error"
	}

	return c.Status(code).JSON(dto.ErrorResponse{
		Success: false,
		Error:   true,
		Message: message,
	})
}

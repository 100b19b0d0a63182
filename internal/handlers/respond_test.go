package handlers

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coolair/coolair-backend/internal/apperr"
	"github.com/coolair/coolair-backend/internal/dto"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{apperr.Required("planId"), fiber.StatusBadRequest},
		{apperr.Unauthorized("Unauthorized"), fiber.StatusUnauthorized},
		{apperr.NotFound("appointment not found"), fiber.StatusNotFound},
		{apperr.InvalidState("only scheduled appointments can be cancelled"), fiber.StatusConflict},
		{apperr.Conflict("email already registered"), fiber.StatusConflict},
		{apperr.Storage("failed to create appointment", errors.New("db gone")), fiber.StatusInternalServerError},
		{errors.New("unclassified"), fiber.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusFor(tt.err), tt.err.Error())
	}
}

func decodeError(t *testing.T, app *fiber.App, path string) (int, dto.ErrorResponse) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", path, nil))
	require.NoError(t, err)
	var body dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestFailHidesStorageDetails(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Get("/storage", func(c *fiber.Ctx) error {
		return fail(c, apperr.Storage("failed to list appointments", errors.New("password=hunter2")))
	})
	app.Get("/validation", func(c *fiber.Ctx) error {
		return fail(c, apperr.Validation("appointmentDate", "serviceType"))
	})
	app.Get("/panic-ish", func(c *fiber.Ctx) error {
		return errors.New("raw failure")
	})

	code, body := decodeError(t, app, "/storage")
	assert.Equal(t, fiber.StatusInternalServerError, code)
	assert.Equal(t, "Internal server error", body.Message)
	assert.False(t, body.Success)
	assert.True(t, body.Error)

	code, body = decodeError(t, app, "/validation")
	assert.Equal(t, fiber.StatusBadRequest, code)
	assert.Equal(t, []string{"appointmentDate", "serviceType"}, body.Fields)

	code, body = decodeError(t, app, "/panic-ish")
	assert.Equal(t, fiber.StatusInternalServerError, code)
	assert.Equal(t, "Internal server error", body.Message)

	code, _ = decodeError(t, app, "/missing")
	assert.Equal(t, fiber.StatusNotFound, code)
}

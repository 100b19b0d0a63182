package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/coolair/coolair-backend/internal/config"
	"github.com/coolair/coolair-backend/internal/events"
	"github.com/coolair/coolair-backend/internal/handlers"
	"github.com/coolair/coolair-backend/internal/models"
	"github.com/coolair/coolair-backend/internal/services"
	"github.com/coolair/coolair-backend/internal/testutil"
)

type testServer struct {
	t   *testing.T
	app *fiber.App
	db  *gorm.DB
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db := testutil.NewDB(t)
	cfg := &config.Config{
		JWTSecret:        "routes-secret",
		JWTAccessExpiry:  time.Hour,
		JWTRefreshExpiry: time.Hour,
		AdminToken:       "ops-token",
	}

	app := fiber.New(fiber.Config{ErrorHandler: handlers.ErrorHandler})
	Setup(app, cfg, db, NewHandlers(db, cfg, nil, events.Nop{}))
	return &testServer{t: t, app: app, db: db}
}

func (s *testServer) do(method, path, token string, body any) (int, map[string]any) {
	s.t.Helper()
	code, raw := s.doRaw(method, path, token, body)
	out := map[string]any{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(s.t, json.Unmarshal(raw, &out))
	}
	return code, out
}

func (s *testServer) doList(path, token string) (int, []map[string]any) {
	s.t.Helper()
	code, raw := s.doRaw(http.MethodGet, path, token, nil)
	var out []map[string]any
	require.NoError(s.t, json.Unmarshal(raw, &out))
	return code, out
}

func (s *testServer) doRaw(method, path, token string, body any) (int, []byte) {
	s.t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(s.t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(s.t, err)
	return resp.StatusCode, raw
}

func (s *testServer) register(email string) string {
	s.t.Helper()
	code, body := s.do(http.MethodPost, "/api/register", "", map[string]string{
		"name":     "Test Person",
		"email":    email,
		"password": "password123",
		"phone":    "555-0101",
	})
	require.Equal(s.t, fiber.StatusCreated, code, body)
	return body["token"].(string)
}

// promote grants the admin role the way coolairctl does.
func (s *testServer) promote(email string) {
	s.t.Helper()
	_, err := services.NewAuthService(s.db, &config.Config{}).SetRole(context.Background(), email, models.RoleAdmin)
	require.NoError(s.t, err)
}

func (s *testServer) login(email string) string {
	s.t.Helper()
	code, body := s.do(http.MethodPost, "/api/login", "", map[string]string{"email": email, "password": "password123"})
	require.Equal(s.t, fiber.StatusOK, code, body)
	return body["token"].(string)
}

func (s *testServer) scheduleFor(token, propertyID string) string {
	s.t.Helper()
	code, body := s.do(http.MethodPost, "/api/appointments", token, map[string]any{
		"propertyId":      propertyID,
		"appointmentDate": "2024-07-15",
		"serviceType":     "installation",
	})
	require.Equal(s.t, fiber.StatusCreated, code, body)
	return body["appointment"].(map[string]any)["id"].(string)
}

func (s *testServer) createProperty(token string) string {
	s.t.Helper()
	code, body := s.do(http.MethodPost, "/api/properties", token, map[string]any{
		"address": "42 Breeze Rd",
		"city":    "Austin",
		"state":   "TX",
		"zipCode": "73301",
		"acUnits": 3,
	})
	require.Equal(s.t, fiber.StatusCreated, code, body)
	assert.Equal(s.t, true, body["success"])
	return body["property"].(map[string]any)["id"].(string)
}

func TestPublicRoutes(t *testing.T) {
	s := newTestServer(t)

	code, body := s.do(http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "ok", body["db"])

	code, plans := s.doList("/api/plans", "")
	assert.Equal(t, fiber.StatusOK, code)
	require.Len(t, plans, 3)
	assert.Equal(t, "Business", plans[2]["title"])

	code, raw := s.doRaw(http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, fiber.StatusOK, code)
	assert.Contains(t, string(raw), "coolair_http_requests_total")
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/api/appointments", "/api/subscriptions", "/api/dashboard", "/api/user"} {
		code, body := s.do(http.MethodGet, path, "", nil)
		assert.Equal(t, fiber.StatusUnauthorized, code, path)
		assert.Equal(t, true, body["error"])
	}
}

func TestSubscriptionLifecycle(t *testing.T) {
	s := newTestServer(t)
	token := s.register("sub@example.com")

	code, body := s.do(http.MethodPost, "/api/subscriptions", token, map[string]any{"planId": 42})
	assert.Equal(t, fiber.StatusNotFound, code)
	assert.Equal(t, false, body["success"])

	code, body = s.do(http.MethodPost, "/api/subscriptions", token, map[string]any{})
	assert.Equal(t, fiber.StatusBadRequest, code)
	assert.Equal(t, "planId is required", body["message"])

	code, body = s.do(http.MethodPost, "/api/subscriptions", token, map[string]any{"planId": 2})
	require.Equal(t, fiber.StatusCreated, code, body)
	assert.Equal(t, true, body["success"])
	sub := body["subscription"].(map[string]any)
	assert.Equal(t, "active", sub["status"])
	assert.Equal(t, "Premium", sub["plan"].(map[string]any)["title"])
	id := sub["id"].(string)

	code, body = s.do(http.MethodPut, "/api/subscriptions/"+id+"/cancel", token, nil)
	require.Equal(t, fiber.StatusOK, code, body)
	assert.Equal(t, "cancelled", body["subscription"].(map[string]any)["status"])

	code, body = s.do(http.MethodPut, "/api/subscriptions/"+id+"/cancel", token, nil)
	assert.Equal(t, fiber.StatusConflict, code)
	assert.Equal(t, "subscription not found or not active", body["message"])

	code, body = s.do(http.MethodPut, "/api/subscriptions/not-a-uuid/cancel", token, nil)
	assert.Equal(t, fiber.StatusConflict, code)
	assert.Equal(t, "subscription not found or not active", body["message"])

	code, list := s.doList("/api/subscriptions", token)
	assert.Equal(t, fiber.StatusOK, code)
	require.Len(t, list, 1)
	assert.Equal(t, "cancelled", list[0]["status"])
}

func TestAppointmentLifecycle(t *testing.T) {
	s := newTestServer(t)
	owner := s.register("owner@example.com")
	stranger := s.register("stranger@example.com")
	propertyID := s.createProperty(owner)

	code, body := s.do(http.MethodPost, "/api/appointments", owner, map[string]any{"propertyId": propertyID})
	assert.Equal(t, fiber.StatusBadRequest, code)
	assert.ElementsMatch(t, []any{"appointmentDate", "serviceType"}, body["fields"])

	code, body = s.do(http.MethodPost, "/api/appointments", stranger, map[string]any{
		"propertyId":      propertyID,
		"appointmentDate": "2024-07-15",
		"serviceType":     "repair",
	})
	assert.Equal(t, fiber.StatusNotFound, code)
	assert.Equal(t, "property not found or does not belong to user", body["message"])

	code, body = s.do(http.MethodPost, "/api/appointments", owner, map[string]any{
		"propertyId":      propertyID,
		"appointmentDate": "2024-07-15",
		"serviceType":     "maintenance",
	})
	require.Equal(t, fiber.StatusCreated, code, body)
	appt := body["appointment"].(map[string]any)
	assert.Equal(t, "9:00 AM - 11:00 AM", appt["timeSlot"])
	assert.Equal(t, "scheduled", appt["status"])
	id := appt["id"].(string)

	code, body = s.do(http.MethodPut, "/api/appointments/"+id, owner, map[string]any{
		"appointmentDate": "2024-07-20",
		"timeSlot":        "1:00 PM - 3:00 PM",
	})
	require.Equal(t, fiber.StatusOK, code, body)
	assert.Equal(t, "1:00 PM - 3:00 PM", body["appointment"].(map[string]any)["timeSlot"])

	code, body = s.do(http.MethodDelete, "/api/appointments/"+id, stranger, nil)
	assert.Equal(t, fiber.StatusNotFound, code)
	assert.Equal(t, "appointment not found", body["message"])

	code, body = s.do(http.MethodDelete, "/api/appointments/"+id, owner, nil)
	require.Equal(t, fiber.StatusOK, code, body)
	assert.Equal(t, "cancelled", body["appointment"].(map[string]any)["status"])

	code, body = s.do(http.MethodDelete, "/api/appointments/"+id, owner, nil)
	assert.Equal(t, fiber.StatusConflict, code)
	assert.Equal(t, "only scheduled appointments can be cancelled", body["message"])

	code, body = s.do(http.MethodPut, "/api/appointments/"+id, owner, map[string]any{"appointmentDate": "2024-08-01"})
	assert.Equal(t, fiber.StatusConflict, code)
	assert.Equal(t, "only scheduled appointments can be rescheduled", body["message"])

	code, list := s.doList("/api/appointments", owner)
	assert.Equal(t, fiber.StatusOK, code)
	require.Len(t, list, 1)
	assert.NotNil(t, list[0]["property"])
}

func TestAdminRoutes(t *testing.T) {
	s := newTestServer(t)
	owner := s.register("owner@example.com")
	s.register("ops@coolair.test")
	s.promote("ops@coolair.test")
	ops := s.login("ops@coolair.test")
	propertyID := s.createProperty(owner)

	apptID := s.scheduleFor(owner, propertyID)
	_, body := s.do(http.MethodPost, "/api/subscriptions", owner, map[string]any{"planId": 1})
	subID := body["subscription"].(map[string]any)["id"].(string)

	code, _ := s.do(http.MethodPut, "/api/admin/appointments/"+apptID+"/complete", owner, nil)
	assert.Equal(t, fiber.StatusForbidden, code)

	code, body = s.do(http.MethodPut, "/api/admin/appointments/"+apptID+"/complete", ops, nil)
	require.Equal(t, fiber.StatusOK, code, body)
	assert.Equal(t, "completed", body["appointment"].(map[string]any)["status"])

	code, body = s.do(http.MethodPut, "/api/admin/subscriptions/"+subID+"/expire", ops, nil)
	require.Equal(t, fiber.StatusOK, code, body)
	assert.Equal(t, "expired", body["subscription"].(map[string]any)["status"])

	code, overdue := s.doList("/api/admin/subscriptions/overdue", ops)
	assert.Equal(t, fiber.StatusOK, code)
	assert.Empty(t, overdue)

	code, dash := s.do(http.MethodGet, "/api/dashboard", owner, nil)
	require.Equal(t, fiber.StatusOK, code)
	assert.Len(t, dash["serviceHistory"], 1)
	assert.Nil(t, dash["nextAppointment"])
	assert.Equal(t, false, dash["hasActiveSubscription"])
	assert.Equal(t, float64(3), dash["totalAcUnits"])
}

func TestAdminAccessComesOnlyFromRoleOrToken(t *testing.T) {
	s := newTestServer(t)
	owner := s.register("owner@example.com")
	apptID := s.scheduleFor(owner, s.createProperty(owner))
	completePath := "/api/admin/appointments/" + apptID + "/complete"

	// An address an operator might use, claimed at registration.
	squatter := s.register("admin@coolair.test")
	code, _ := s.do(http.MethodPut, completePath, squatter, nil)
	assert.Equal(t, fiber.StatusForbidden, code)

	// An email switched through the profile, then a fresh login.
	mallory := s.register("mallory@example.com")
	code, body := s.do(http.MethodPut, "/api/user", mallory, map[string]string{"email": "ops@coolair.test"})
	require.Equal(t, fiber.StatusOK, code, body)
	assert.Equal(t, "user", body["role"])
	mallory = s.login("ops@coolair.test")
	code, _ = s.do(http.MethodPut, completePath, mallory, nil)
	assert.Equal(t, fiber.StatusForbidden, code)

	var stored models.Appointment
	require.NoError(t, s.db.First(&stored, "id = ?", apptID).Error)
	assert.Equal(t, models.AppointmentScheduled, stored.Status)

	req := httptest.NewRequest(http.MethodPut, completePath, nil)
	req.Header.Set("Authorization", "Bearer "+mallory)
	req.Header.Set("X-Admin-Token", "ops-token")
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestScheduleRejectsOversizedNotes(t *testing.T) {
	s := newTestServer(t)
	owner := s.register("owner@example.com")
	propertyID := s.createProperty(owner)

	code, body := s.do(http.MethodPost, "/api/appointments", owner, map[string]any{
		"propertyId":      propertyID,
		"appointmentDate": "2024-07-15",
		"serviceType":     "repair",
		"notes":           strings.Repeat("x", 1001),
	})
	assert.Equal(t, fiber.StatusBadRequest, code)
	assert.Equal(t, []any{"notes"}, body["fields"])

	code, list := s.doList("/api/appointments", owner)
	assert.Equal(t, fiber.StatusOK, code)
	assert.Empty(t, list)
}

func TestProfileRoutes(t *testing.T) {
	s := newTestServer(t)
	token := s.register("me@example.com")

	code, body := s.do(http.MethodGet, "/api/user", token, nil)
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "me@example.com", body["email"])

	code, body = s.do(http.MethodPut, "/api/user", token, map[string]string{"phone": "555-0199"})
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "555-0199", body["phone"])

	code, body = s.do(http.MethodPost, "/api/login", "", map[string]string{"email": "me@example.com", "password": "nope-nope"})
	assert.Equal(t, fiber.StatusUnauthorized, code)
	assert.Equal(t, "invalid email or password", body["message"])

	code, _ = s.do(http.MethodGet, "/api/nowhere", token, nil)
	assert.Equal(t, fiber.StatusNotFound, code)
}

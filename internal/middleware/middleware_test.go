package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coolair/coolair-backend/internal/config"
	"github.com/coolair/coolair-backend/internal/models"
	"github.com/coolair/coolair-backend/internal/testutil"
)

const testSecret = "middleware-secret"

func signedToken(t *testing.T, user models.User) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   user.ID.String(),
		"email": user.Email,
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	s, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return s
}

func TestAdminRequired(t *testing.T) {
	db := testutil.NewDB(t)
	cfg := &config.Config{
		JWTSecret:  testSecret,
		AdminToken: "let-me-in",
	}

	regular := testutil.CreateUser(t, db, "regular@example.com")
	opsLookalike := testutil.CreateUser(t, db, "ops@coolair.test")
	roleAdmin := testutil.CreateUser(t, db, "role@example.com")
	require.NoError(t, db.Model(&roleAdmin).Update("role", models.RoleAdmin).Error)

	app := fiber.New()
	app.Get("/admin", JWTProtected(cfg), AdminRequired(db, cfg), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	tests := []struct {
		name       string
		token      string
		adminToken string
		want       int
	}{
		{"no token", "", "", fiber.StatusUnauthorized},
		{"regular user", signedToken(t, regular), "", fiber.StatusForbidden},
		{"operator-looking email without role", signedToken(t, opsLookalike), "", fiber.StatusForbidden},
		{"admin role", signedToken(t, roleAdmin), "", fiber.StatusNoContent},
		{"admin header", signedToken(t, regular), "let-me-in", fiber.StatusNoContent},
		{"wrong admin header", signedToken(t, regular), "guess", fiber.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/admin", nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			if tt.adminToken != "" {
				req.Header.Set("X-Admin-Token", tt.adminToken)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestSecurityHeaders(t *testing.T) {
	app := fiber.New()
	app.Use(SecurityHeaders())
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString("ok") })

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", resp.Header.Get("X-Frame-Options"))
}

package middleware

import (
	"crypto/subtle"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/coolair/coolair-backend/internal/config"
	"github.com/coolair/coolair-backend/internal/dto"
	"github.com/coolair/coolair-backend/internal/identity"
	"github.com/coolair/coolair-backend/internal/models"
)

// AdminRequired lets a request through when X-Admin-Token matches
// ADMIN_TOKEN or the caller's stored role is admin. Roles are granted with
// `coolairctl users promote`; nothing a user can edit about their own
// account grants access. It must run after JWTProtected.
func AdminRequired(db *gorm.DB, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if cfg.AdminToken != "" {
			if subtle.ConstantTimeCompare([]byte(c.Get("X-Admin-Token")), []byte(cfg.AdminToken)) == 1 {
				return c.Next()
			}
		}

		userID, err := identity.GetUserID(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		var user models.User
		err = db.WithContext(c.UserContext()).Select("id", "role").First(&user, "id = ?", userID).Error
		if err == nil && user.Role == models.RoleAdmin {
			return c.Next()
		}

		slog.Warn("admin access denied",
			"user_id", userID.String(),
			"email", identity.GetEmail(c),
			"path", c.Path(),
		)
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "Admin access required",
		})
	}
}

package middleware

import (
	"slices"

	"sellersync/internal/common/models"
	"sellersync/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

// RequireRole allows the request through only when the caller holds one of
// the listed roles. Superadmins pass every check.
func RequireRole(roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := c.Locals(utils.UserClaimsKey).(*utils.UserClaims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}

		if claims.Role == string(models.RoleSuperAdmin) {
			return c.Next()
		}

		if !slices.Contains(roles, models.Role(claims.Role)) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Forbidden: Insufficient permissions",
			})
		}

		return c.Next()
	}
}

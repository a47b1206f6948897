package middleware

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
)

// CronAuthMiddleware gates the cron trigger endpoints behind the shared
// secret. An empty secret disables the check (local development).
func CronAuthMiddleware(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if secret == "" {
			return c.Next()
		}

		authHeader := c.Get("Authorization")
		if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authorization header required",
			})
		}

		if subtle.ConstantTimeCompare([]byte(authHeader[7:]), []byte(secret)) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid cron secret",
			})
		}

		return c.Next()
	}
}

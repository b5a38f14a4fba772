package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/clinic-app/models"
)

// RequireRole lets the request through only when the caller has one of the roles.
func RequireRole(roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller, ok := CallerFrom(c)
		if !ok {
			return unauthorized(c, "Not Authorized, Login Again")
		}

		for _, role := range roles {
			if caller.Role == role {
				return c.Next()
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"success": false,
			"message": "You don't have the required role to perform this action",
		})
	}
}

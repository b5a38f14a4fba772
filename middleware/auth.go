package middleware

import (
	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v3"
	"github.com/golang-jwt/jwt/v4"
	"github.com/sirupsen/logrus"

	"github.com/meinhoongagan/clinic-app/auth"
	"github.com/meinhoongagan/clinic-app/models"
)

const callerKey = "caller"

// Protected verifies the bearer token and stores the caller in the request locals.
func Protected(secret []byte, log *logrus.Entry) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:    secret,
		SigningMethod: "HS256",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.WithError(err).WithField("path", c.Path()).Debug("JWT rejected")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "Not Authorized, Login Again",
			})
		},
		SuccessHandler: func(c *fiber.Ctx) error {
			token, ok := c.Locals("user").(*jwt.Token)
			if !ok {
				return unauthorized(c, "Invalid token")
			}
			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return unauthorized(c, "Invalid token claims")
			}
			caller, err := auth.CallerFromClaims(claims)
			if err != nil {
				log.WithError(err).Debug("Token claims rejected")
				return unauthorized(c, "Invalid token claims")
			}

			SetCaller(c, caller)
			return c.Next()
		},
	})
}

// SetCaller stores the authenticated caller on the request.
func SetCaller(c *fiber.Ctx, caller models.Caller) {
	c.Locals(callerKey, caller)
}

// CallerFrom returns the caller stored by Protected.
func CallerFrom(c *fiber.Ctx) (models.Caller, bool) {
	caller, ok := c.Locals(callerKey).(models.Caller)
	return caller, ok
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

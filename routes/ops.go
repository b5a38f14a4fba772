package routes

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/meinhoongagan/clinic-app/metrics"
)

// SetupOpsRoutes exposes the health check and the prometheus scrape endpoint.
func SetupOpsRoutes(app *fiber.App, ping func(ctx context.Context) error, log *logrus.Entry) {
	app.Get("/health", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()

		if err := ping(ctx); err != nil {
			log.WithError(err).Warn("Health check failed")
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"success":  false,
				"database": "down",
			})
		}
		return c.JSON(fiber.Map{"success": true, "database": "up"})
	})

	app.Get("/metrics", metrics.Handler())
}

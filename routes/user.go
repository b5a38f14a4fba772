package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/clinic-app/controllers/user"
	"github.com/meinhoongagan/clinic-app/middleware"
	"github.com/meinhoongagan/clinic-app/models"
)

// SetupUserRoutes configures the patient facing routes
func SetupUserRoutes(app *fiber.App, h *user.Handler, protect fiber.Handler) {
	api := app.Group("/api/user")

	// Public routes
	api.Post("/register", h.Register)
	api.Post("/login", h.Login)

	// Protected routes
	patient := api.Group("", protect, middleware.RequireRole(models.RoleUser))
	patient.Get("/get-profile", h.GetProfile)
	patient.Post("/update-profile", h.UpdateProfile)
	patient.Post("/book-appointment", h.BookAppointment)
	patient.Get("/appointments", h.ListAppointments)
	patient.Post("/cancel-appointment", h.CancelAppointment)
}

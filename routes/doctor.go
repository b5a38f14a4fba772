package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/clinic-app/controllers/doctor"
	"github.com/meinhoongagan/clinic-app/middleware"
	"github.com/meinhoongagan/clinic-app/models"
)

// SetupDoctorRoutes configures the doctor portal routes
func SetupDoctorRoutes(app *fiber.App, h *doctor.Handler, protect fiber.Handler) {
	api := app.Group("/api/doctor")

	api.Get("/list", h.List)
	api.Get("/slots/:docId", h.Slots)
	api.Post("/login", h.Login)

	portal := api.Group("", protect, middleware.RequireRole(models.RoleDoctor))
	portal.Get("/appointments", h.ListAppointments)
	portal.Post("/cancel-appointment", h.CancelAppointment)
	portal.Post("/complete-appointment", h.CompleteAppointment)
	portal.Get("/dashboard", h.Dashboard)
	portal.Get("/profile", h.Profile)
	portal.Post("/update-profile", h.UpdateProfile)
	portal.Post("/change-availability", h.ChangeAvailability)
}

package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/clinic-app/controllers/admin"
	"github.com/meinhoongagan/clinic-app/middleware"
	"github.com/meinhoongagan/clinic-app/models"
)

// SetupAdminRoutes configures the admin console routes
func SetupAdminRoutes(app *fiber.App, h *admin.Handler, protect fiber.Handler) {
	api := app.Group("/api/admin")
	api.Post("/login", h.Login)

	console := api.Group("", protect, middleware.RequireRole(models.RoleAdmin))
	console.Post("/add-doctor", h.AddDoctor)
	console.Post("/all-doctors", h.AllDoctors)
	console.Post("/change-availability", h.ChangeAvailability)
	console.Delete("/delete-doctor/:docId", h.DeleteDoctor)
	console.Get("/appointments", h.ListAppointments)
	console.Put("/cancel-appointment", h.CancelAppointment)
	console.Post("/complete-appointment", h.CompleteAppointment)
	console.Get("/dashboard", h.Dashboard)
	console.Get("/get-diagnosis", h.ListDiagnoses)
}

package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/clinic-app/controllers/diagnosis"
	"github.com/meinhoongagan/clinic-app/middleware"
	"github.com/meinhoongagan/clinic-app/models"
)

// SetupDiagnosisRoutes configures diagnosis routes, every one of them needs a token
func SetupDiagnosisRoutes(app *fiber.App, h *diagnosis.Handler, protect fiber.Handler) {
	api := app.Group("/api/diagnosis", protect)

	doctorOnly := middleware.RequireRole(models.RoleDoctor)
	api.Post("/add", doctorOnly, h.Add)
	api.Get("/get-diagnosis", doctorOnly, h.ForDoctor)
	api.Delete("/delete-diagnosis/:id", doctorOnly, h.Delete)

	api.Get("/my", middleware.RequireRole(models.RoleUser), h.ForPatient)
	api.Get("/:id/pdf", middleware.RequireRole(models.RoleUser, models.RoleDoctor, models.RoleAdmin), h.PDF)
}

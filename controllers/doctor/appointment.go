package doctor

import (
	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/clinic-app/controllers"
	"github.com/meinhoongagan/clinic-app/utils"
)

// ListAppointments returns every appointment booked with the logged in doctor.
func (h *Handler) ListAppointments(c *fiber.Ctx) error {
	appointments, err := h.Appointments.ForDoctor(c.UserContext(), controllers.Caller(c).ID)
	if err != nil {
		h.Log.WithError(err).Error("Failed to fetch appointments")
		return utils.Fail(c, fiber.StatusInternalServerError, "Failed to fetch appointments")
	}
	return c.JSON(fiber.Map{
		"success":      true,
		"appointments": controllers.PresentAppointments(appointments),
	})
}

type appointmentInput struct {
	AppointmentID controllers.FlexibleID `json:"appointmentId"`
}

func (h *Handler) CancelAppointment(c *fiber.Ctx) error {
	input := new(appointmentInput)
	if err := c.BodyParser(input); err != nil || input.AppointmentID == 0 {
		return utils.Fail(c, fiber.StatusBadRequest, "appointmentId is required")
	}
	if err := h.Ledger.CancelSlot(c.UserContext(), uint(input.AppointmentID), controllers.Caller(c)); err != nil {
		return utils.LedgerFail(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "message": "Appointment Cancelled"})
}

func (h *Handler) CompleteAppointment(c *fiber.Ctx) error {
	input := new(appointmentInput)
	if err := c.BodyParser(input); err != nil || input.AppointmentID == 0 {
		return utils.Fail(c, fiber.StatusBadRequest, "appointmentId is required")
	}
	if err := h.Ledger.Complete(c.UserContext(), uint(input.AppointmentID), controllers.Caller(c)); err != nil {
		return utils.LedgerFail(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "message": "Appointment Completed"})
}

// Dashboard summarises earnings, appointments and patients of the logged in doctor.
func (h *Handler) Dashboard(c *fiber.Ctx) error {
	dash, err := h.Appointments.DoctorDashboard(c.UserContext(), controllers.Caller(c).ID)
	if err != nil {
		h.Log.WithError(err).Error("Failed to build doctor dashboard")
		return utils.Fail(c, fiber.StatusInternalServerError, "Failed to load dashboard")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"dashData": fiber.Map{
			"earnings":           dash.Earnings,
			"appointments":       dash.Appointments,
			"patients":           dash.Patients,
			"latestAppointments": controllers.PresentAppointments(dash.LatestAppointments),
		},
	})
}

package admin

import (
	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/clinic-app/controllers"
	"github.com/meinhoongagan/clinic-app/utils"
)

// ListAppointments returns every appointment, newest first.
func (h *Handler) ListAppointments(c *fiber.Ctx) error {
	appointments, err := h.Appointments.All(c.UserContext())
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

// CancelAppointment cancels any appointment and frees its slot.
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

// Dashboard counts doctors, appointments and patients and lists the latest bookings.
func (h *Handler) Dashboard(c *fiber.Ctx) error {
	dash, err := h.Appointments.AdminDashboard(c.UserContext())
	if err != nil {
		h.Log.WithError(err).Error("Failed to build admin dashboard")
		return utils.Fail(c, fiber.StatusInternalServerError, "Failed to load dashboard")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"dashData": fiber.Map{
			"doctors":            dash.Doctors,
			"appointments":       dash.Appointments,
			"patients":           dash.Patients,
			"latestAppointments": controllers.PresentAppointments(dash.LatestAppointments),
		},
	})
}

// ListDiagnoses returns every diagnosis with its medications and checkups.
func (h *Handler) ListDiagnoses(c *fiber.Ctx) error {
	diagnoses, err := h.Diagnoses.All(c.UserContext())
	if err != nil {
		h.Log.WithError(err).Error("Failed to fetch diagnoses")
		return utils.Fail(c, fiber.StatusInternalServerError, "Failed to fetch diagnoses")
	}
	return c.JSON(fiber.Map{"success": true, "diagnoses": diagnoses})
}

package user

import (
	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/clinic-app/controllers"
	"github.com/meinhoongagan/clinic-app/ledger"
	"github.com/meinhoongagan/clinic-app/utils"
)

type bookInput struct {
	DocID    controllers.FlexibleID `json:"docId"`
	SlotDate string                 `json:"slotDate"`
	SlotTime string                 `json:"slotTime"`
}

// BookAppointment books a slot such as {"slotDate": "5_1_2024", "slotTime": "2:30 PM"} for the caller.
func (h *Handler) BookAppointment(c *fiber.Ctx) error {
	input := new(bookInput)
	if err := c.BodyParser(input); err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, "Cannot parse JSON")
	}
	if input.DocID == 0 || input.SlotDate == "" || input.SlotTime == "" {
		return utils.Fail(c, fiber.StatusBadRequest, "Missing Details")
	}

	date, clock, err := ledger.NormalizeSlot(input.SlotDate, input.SlotTime)
	if err != nil {
		return utils.LedgerFail(c, err)
	}

	appt, err := h.Ledger.BookSlot(c.UserContext(), controllers.Caller(c).ID, uint(input.DocID), date, clock)
	if err != nil {
		return utils.LedgerFail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":       true,
		"message":       "Appointment Booked",
		"appointmentId": appt.ID,
		"amount":        appt.Amount,
	})
}

// ListAppointments returns the caller's appointments, newest first.
func (h *Handler) ListAppointments(c *fiber.Ctx) error {
	appointments, err := h.Appointments.ForUser(c.UserContext(), controllers.Caller(c).ID)
	if err != nil {
		h.Log.WithError(err).Error("Failed to fetch appointments")
		return utils.Fail(c, fiber.StatusInternalServerError, "Failed to fetch appointments")
	}
	return c.JSON(fiber.Map{
		"success":      true,
		"appointments": controllers.PresentAppointments(appointments),
	})
}

type cancelInput struct {
	AppointmentID controllers.FlexibleID `json:"appointmentId"`
}

// CancelAppointment cancels one of the caller's own appointments and frees its slot.
func (h *Handler) CancelAppointment(c *fiber.Ctx) error {
	input := new(cancelInput)
	if err := c.BodyParser(input); err != nil || input.AppointmentID == 0 {
		return utils.Fail(c, fiber.StatusBadRequest, "appointmentId is required")
	}

	if err := h.Ledger.CancelSlot(c.UserContext(), uint(input.AppointmentID), controllers.Caller(c)); err != nil {
		return utils.LedgerFail(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "message": "Appointment Cancelled"})
}

package utils

import (
	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/clinic-app/ledger"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// StatusFor maps a ledger error kind to its HTTP status.
func StatusFor(kind ledger.Kind) int {
	switch kind {
	case ledger.KindDoctorNotFound, ledger.KindAppointmentNotFound:
		return fiber.StatusNotFound
	case ledger.KindDoctorUnavailable, ledger.KindSlotTaken, ledger.KindAppointmentClosed:
		return fiber.StatusConflict
	case ledger.KindUnauthorized:
		return fiber.StatusForbidden
	case ledger.KindMalformedSlotToken:
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

func Fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(ErrorResponse{Success: false, Message: message})
}

// LedgerFail answers with the status and message carried by a ledger error.
func LedgerFail(c *fiber.Ctx, err error) error {
	return Fail(c, StatusFor(ledger.KindOf(err)), ledger.MessageOf(err))
}

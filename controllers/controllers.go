package controllers

import (
	"context"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	"github.com/meinhoongagan/clinic-app/ledger"
	"github.com/meinhoongagan/clinic-app/middleware"
	"github.com/meinhoongagan/clinic-app/models"
	"github.com/meinhoongagan/clinic-app/utils"
)

// SlotLedger is the booking surface the handlers drive.
type SlotLedger interface {
	BookSlot(ctx context.Context, userID, doctorID uint, date, clock string) (*models.Appointment, error)
	CancelSlot(ctx context.Context, appointmentID uint, caller models.Caller) error
	Complete(ctx context.Context, appointmentID uint, caller models.Caller) error
	ListSlots(ctx context.Context, doctorID uint) (models.SlotMap, error)
}

// TokenIssuer signs tokens for logged in callers.
type TokenIssuer interface {
	Issue(caller models.Caller) (string, error)
}

// DoctorCache invalidates cached doctor data after a doctor record changes.
type DoctorCache interface {
	Invalidate(ctx context.Context) error
}

// AppointmentView is an appointment with its slot rendered back into request tokens.
type AppointmentView struct {
	models.Appointment
	SlotDateToken string `json:"slot_date_token"`
	SlotTimeToken string `json:"slot_time_token"`
}

func PresentAppointments(appointments []models.Appointment) []AppointmentView {
	views := make([]AppointmentView, 0, len(appointments))
	for _, appt := range appointments {
		appt.User.Password = ""
		appt.Doctor.Password = ""
		view := AppointmentView{Appointment: appt}
		// Stored slots are always canonical, a failure leaves the token empty.
		view.SlotDateToken, _ = ledger.FormatSlotDate(appt.SlotDate)
		view.SlotTimeToken, _ = ledger.FormatSlotTime(appt.SlotTime)
		views = append(views, view)
	}
	return views
}

// Caller returns the authenticated caller. Routes are always mounted behind middleware.Protected.
func Caller(c *fiber.Ctx) models.Caller {
	caller, _ := middleware.CallerFrom(c)
	return caller
}

// ParseID reads a positive numeric id from a route parameter.
func ParseID(c *fiber.Ctx, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Params(param), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// FlexibleID accepts ids sent either as JSON numbers or numeric strings.
type FlexibleID uint

func (id *FlexibleID) UnmarshalJSON(data []byte) error {
	raw := string(data)
	if unquoted, err := strconv.Unquote(raw); err == nil {
		raw = unquoted
	}
	if raw == "" || raw == "null" {
		*id = 0
		return nil
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return err
	}
	*id = FlexibleID(n)
	return nil
}

// UploadImage uploads the optional "image" form file and returns its URL, or "" when none was sent.
func UploadImage(c *fiber.Ctx, uploader utils.Uploader, folder string) (string, error) {
	header, err := c.FormFile("image")
	if errors.Is(err, fasthttp.ErrMissingFile) || errors.Is(err, fasthttp.ErrNoMultipartForm) {
		return "", nil
	}
	if err != nil {
		return "", fiber.NewError(fiber.StatusBadRequest, "Invalid multipart form")
	}
	if uploader == nil {
		return "", fiber.NewError(fiber.StatusServiceUnavailable, "Image uploads are not configured")
	}

	file, err := header.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	return uploader.Upload(c.UserContext(), file, folder)
}

// UploadFailed answers a failed UploadImage call.
func UploadFailed(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return utils.Fail(c, fe.Code, fe.Message)
	}
	return utils.Fail(c, fiber.StatusBadGateway, "Failed to upload image")
}

// Address reads address lines from either the JSON "address" field or the flat form fields.
func Address(c *fiber.Ctx) (line1, line2 string, err error) {
	line1, line2 = c.FormValue("address_line1"), c.FormValue("address_line2")
	raw := c.FormValue("address")
	if raw == "" {
		return line1, line2, nil
	}

	var parsed struct {
		Line1 string `json:"line1"`
		Line2 string `json:"line2"`
	}
	if err := c.App().Config().JSONDecoder([]byte(raw), &parsed); err != nil {
		return "", "", err
	}
	if parsed.Line1 != "" {
		line1 = parsed.Line1
	}
	if parsed.Line2 != "" {
		line2 = parsed.Line2
	}
	return line1, line2, nil
}

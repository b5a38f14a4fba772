package doctor

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/meinhoongagan/clinic-app/auth"
	"github.com/meinhoongagan/clinic-app/controllers"
	"github.com/meinhoongagan/clinic-app/db"
	"github.com/meinhoongagan/clinic-app/models"
	"github.com/meinhoongagan/clinic-app/utils"
)

type Doctors interface {
	FindByEmail(ctx context.Context, email string) (*models.Doctor, error)
	Get(ctx context.Context, id uint) (*models.Doctor, error)
	List(ctx context.Context) ([]models.Doctor, error)
	UpdateProfile(ctx context.Context, id uint, fields map[string]interface{}) error
	ToggleAvailability(ctx context.Context, id uint) (bool, error)
}

type Appointments interface {
	ForDoctor(ctx context.Context, doctorID uint) ([]models.Appointment, error)
	DoctorDashboard(ctx context.Context, doctorID uint) (*models.DoctorDashboard, error)
}

// ListCache holds the public doctor list between slot changes.
type ListCache interface {
	Get(ctx context.Context) ([]models.Doctor, int64, bool)
	Set(ctx context.Context, stamp int64, doctors []models.Doctor)
	Invalidate(ctx context.Context) error
}

// Handler serves the doctor portal and the public doctor listing. Cache may be nil.
type Handler struct {
	Doctors      Doctors
	Appointments Appointments
	Ledger       controllers.SlotLedger
	Tokens       controllers.TokenIssuer
	Cache        ListCache
	Log          *logrus.Entry
}

// List returns every doctor with its booked slots, without credentials.
func (h *Handler) List(c *fiber.Ctx) error {
	ctx := c.UserContext()
	var stamp int64
	if h.Cache != nil {
		doctors, gen, ok := h.Cache.Get(ctx)
		if ok {
			return c.JSON(fiber.Map{"success": true, "doctors": doctors})
		}
		stamp = gen
	}

	doctors, err := h.Doctors.List(ctx)
	if err != nil {
		h.Log.WithError(err).Error("Failed to fetch doctors")
		return utils.Fail(c, fiber.StatusInternalServerError, "Failed to fetch doctors")
	}
	public := make([]models.Doctor, 0, len(doctors))
	for _, doc := range doctors {
		if doc.SlotsBooked == nil {
			doc.SlotsBooked = models.SlotMap{}
		}
		public = append(public, doc.Public())
	}

	if h.Cache != nil {
		h.Cache.Set(ctx, stamp, public)
	}
	return c.JSON(fiber.Map{"success": true, "doctors": public})
}

// Slots returns the booked slot map of one doctor.
func (h *Handler) Slots(c *fiber.Ctx) error {
	docID, ok := controllers.ParseID(c, "docId")
	if !ok {
		return utils.Fail(c, fiber.StatusBadRequest, "Invalid doctor id")
	}
	slots, err := h.Ledger.ListSlots(c.UserContext(), docID)
	if err != nil {
		return utils.LedgerFail(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "slots_booked": slots})
}

type loginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login checks the doctor's password and returns a doctor token.
func (h *Handler) Login(c *fiber.Ctx) error {
	input := new(loginInput)
	if err := c.BodyParser(input); err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, "Cannot parse JSON")
	}

	doc, err := h.Doctors.FindByEmail(c.UserContext(), strings.ToLower(strings.TrimSpace(input.Email)))
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return utils.Fail(c, fiber.StatusUnauthorized, "Invalid credentials")
		}
		h.Log.WithError(err).Error("Failed to load doctor")
		return utils.Fail(c, fiber.StatusInternalServerError, "Failed to load doctor")
	}
	if !auth.CheckPassword(doc.Password, input.Password) {
		return utils.Fail(c, fiber.StatusUnauthorized, "Invalid credentials")
	}

	token, err := h.Tokens.Issue(models.Caller{ID: doc.ID, Role: models.RoleDoctor})
	if err != nil {
		h.Log.WithError(err).Error("Failed to sign token")
		return utils.Fail(c, fiber.StatusInternalServerError, "Failed to sign token")
	}
	return c.JSON(fiber.Map{"success": true, "token": token})
}

// Profile returns the logged in doctor.
func (h *Handler) Profile(c *fiber.Ctx) error {
	doc, err := h.Doctors.Get(c.UserContext(), controllers.Caller(c).ID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return utils.Fail(c, fiber.StatusNotFound, "Doctor not found")
		}
		return utils.Fail(c, fiber.StatusInternalServerError, "Failed to load profile")
	}
	doc.Password = ""
	return c.JSON(fiber.Map{"success": true, "profileData": doc})
}

type addressInput struct {
	Line1 string `json:"line1"`
	Line2 string `json:"line2"`
}

type profileInput struct {
	Fees      *float64      `json:"fees" validate:"omitempty,gt=0"`
	Address   *addressInput `json:"address"`
	Available *bool         `json:"available"`
}

// UpdateProfile changes the doctor's fee, address or availability.
func (h *Handler) UpdateProfile(c *fiber.Ctx) error {
	input := new(profileInput)
	if err := c.BodyParser(input); err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, "Cannot parse JSON")
	}
	if err := utils.Validate(input); err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, err.Error())
	}

	fields := map[string]interface{}{}
	if input.Fees != nil {
		fields["fees"] = *input.Fees
	}
	if input.Address != nil {
		fields["address_line1"] = input.Address.Line1
		fields["address_line2"] = input.Address.Line2
	}
	if input.Available != nil {
		fields["available"] = *input.Available
	}
	if len(fields) == 0 {
		return utils.Fail(c, fiber.StatusBadRequest, "Nothing to update")
	}

	docID := controllers.Caller(c).ID
	if err := h.Doctors.UpdateProfile(c.UserContext(), docID, fields); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return utils.Fail(c, fiber.StatusNotFound, "Doctor not found")
		}
		h.Log.WithError(err).WithField("doctor_id", docID).Error("Failed to update doctor profile")
		return utils.Fail(c, fiber.StatusInternalServerError, "Failed to update profile")
	}
	h.invalidate(c.UserContext())
	return c.JSON(fiber.Map{"success": true, "message": "Profile Updated"})
}

// ChangeAvailability toggles the logged in doctor's availability.
func (h *Handler) ChangeAvailability(c *fiber.Ctx) error {
	available, err := h.Doctors.ToggleAvailability(c.UserContext(), controllers.Caller(c).ID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return utils.Fail(c, fiber.StatusNotFound, "Doctor not found")
		}
		return utils.Fail(c, fiber.StatusInternalServerError, "Failed to change availability")
	}
	h.invalidate(c.UserContext())
	return c.JSON(fiber.Map{"success": true, "message": "Availability Changed", "available": available})
}

func (h *Handler) invalidate(ctx context.Context) {
	if h.Cache == nil {
		return
	}
	if err := h.Cache.Invalidate(ctx); err != nil {
		h.Log.WithError(err).Warn("Failed to invalidate doctor cache")
	}
}

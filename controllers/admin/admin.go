package admin

import (
	"context"
	"errors"
	"strconv"
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
	Create(ctx context.Context, doc *models.Doctor) error
	List(ctx context.Context) ([]models.Doctor, error)
	ToggleAvailability(ctx context.Context, id uint) (bool, error)
	Delete(ctx context.Context, id uint) error
}

type Appointments interface {
	All(ctx context.Context) ([]models.Appointment, error)
	AdminDashboard(ctx context.Context) (*models.AdminDashboard, error)
}

type Diagnoses interface {
	All(ctx context.Context) ([]models.Diagnosis, error)
}

// Handler serves the admin console. Cache and Uploader may be nil.
type Handler struct {
	Policy       auth.AdminPolicy
	Doctors      Doctors
	Appointments Appointments
	Diagnoses    Diagnoses
	Ledger       controllers.SlotLedger
	Tokens       controllers.TokenIssuer
	Cache        controllers.DoctorCache
	Uploader     utils.Uploader
	Log          *logrus.Entry
}

type loginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login issues an admin token when the credentials match the configured admin account.
func (h *Handler) Login(c *fiber.Ctx) error {
	input := new(loginInput)
	if err := c.BodyParser(input); err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, "Cannot parse JSON")
	}
	if !h.Policy.Authenticate(input.Email, input.Password) {
		h.Log.WithField("client_ip", c.IP()).Warn("Admin login rejected")
		return utils.Fail(c, fiber.StatusUnauthorized, "Invalid credentials")
	}

	token, err := h.Tokens.Issue(models.Caller{Role: models.RoleAdmin})
	if err != nil {
		h.Log.WithError(err).Error("Failed to sign token")
		return utils.Fail(c, fiber.StatusInternalServerError, "Failed to sign token")
	}
	return c.JSON(fiber.Map{"success": true, "token": token})
}

type doctorInput struct {
	Name         string  `validate:"required"`
	Email        string  `validate:"required,email"`
	Password     string  `validate:"required,min=8"`
	Specialty    string  `validate:"required"`
	Degree       string  `validate:"required"`
	Experience   string  `validate:"required"`
	About        string  `validate:"required"`
	Fees         float64 `validate:"gt=0"`
	AddressLine1 string  `validate:"required"`
	AddressLine2 string  `validate:"required"`
}

// AddDoctor registers a doctor from a multipart form. New doctors start available with no booked slots.
func (h *Handler) AddDoctor(c *fiber.Ctx) error {
	line1, line2, err := controllers.Address(c)
	if err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, "Invalid address format")
	}

	input := doctorInput{
		Name:         strings.TrimSpace(c.FormValue("name")),
		Email:        strings.ToLower(strings.TrimSpace(c.FormValue("email"))),
		Password:     c.FormValue("password"),
		Specialty:    strings.TrimSpace(c.FormValue("specialty")),
		Degree:       strings.TrimSpace(c.FormValue("degree")),
		Experience:   strings.TrimSpace(c.FormValue("experience")),
		About:        strings.TrimSpace(c.FormValue("about")),
		AddressLine1: line1,
		AddressLine2: line2,
	}
	if raw := c.FormValue("fees"); raw != "" {
		fees, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return utils.Fail(c, fiber.StatusBadRequest, "fees must be a number")
		}
		input.Fees = fees
	}
	if err := utils.Validate(input); err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, err.Error())
	}

	hashed, err := auth.HashPassword(input.Password)
	if err != nil {
		h.Log.WithError(err).Error("Failed to hash password")
		return utils.Fail(c, fiber.StatusInternalServerError, "Failed to hash password")
	}

	image, err := controllers.UploadImage(c, h.Uploader, "doctors")
	if err != nil {
		h.Log.WithError(err).Warn("Doctor image upload failed")
		return controllers.UploadFailed(c, err)
	}

	doc := &models.Doctor{
		Name:         input.Name,
		Email:        input.Email,
		Password:     hashed,
		Image:        image,
		Specialty:    input.Specialty,
		Degree:       input.Degree,
		Experience:   input.Experience,
		About:        input.About,
		Fees:         input.Fees,
		AddressLine1: input.AddressLine1,
		AddressLine2: input.AddressLine2,
		Available:    true,
		SlotsBooked:  models.SlotMap{},
	}
	if err := h.Doctors.Create(c.UserContext(), doc); err != nil {
		if errors.Is(err, db.ErrEmailTaken) {
			return utils.Fail(c, fiber.StatusConflict, "Doctor already exists")
		}
		h.Log.WithError(err).Error("Failed to create doctor")
		return utils.Fail(c, fiber.StatusInternalServerError, "Failed to create doctor")
	}

	h.invalidate(c.UserContext())
	h.Log.WithField("doctor_id", doc.ID).Info("Doctor added")
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":  true,
		"message":  "Doctor successfully added",
		"doctorId": doc.ID,
	})
}

// AllDoctors lists every doctor, emails included.
func (h *Handler) AllDoctors(c *fiber.Ctx) error {
	doctors, err := h.Doctors.List(c.UserContext())
	if err != nil {
		h.Log.WithError(err).Error("Failed to fetch doctors")
		return utils.Fail(c, fiber.StatusInternalServerError, "Failed to fetch doctors")
	}
	for i := range doctors {
		doctors[i].Password = ""
	}
	return c.JSON(fiber.Map{"success": true, "doctors": doctors})
}

type doctorIDInput struct {
	DocID controllers.FlexibleID `json:"docId"`
}

func (h *Handler) ChangeAvailability(c *fiber.Ctx) error {
	input := new(doctorIDInput)
	if err := c.BodyParser(input); err != nil || input.DocID == 0 {
		return utils.Fail(c, fiber.StatusBadRequest, "docId is required")
	}

	available, err := h.Doctors.ToggleAvailability(c.UserContext(), uint(input.DocID))
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return utils.Fail(c, fiber.StatusNotFound, "Doctor not found")
		}
		h.Log.WithError(err).Error("Failed to change availability")
		return utils.Fail(c, fiber.StatusInternalServerError, "Failed to change availability")
	}
	h.invalidate(c.UserContext())
	return c.JSON(fiber.Map{"success": true, "message": "Availability Changed", "available": available})
}

// DeleteDoctor removes a doctor that has no active appointments left.
func (h *Handler) DeleteDoctor(c *fiber.Ctx) error {
	docID, ok := controllers.ParseID(c, "docId")
	if !ok {
		return utils.Fail(c, fiber.StatusBadRequest, "Invalid doctor id")
	}

	if err := h.Doctors.Delete(c.UserContext(), docID); err != nil {
		switch {
		case errors.Is(err, db.ErrNotFound):
			return utils.Fail(c, fiber.StatusNotFound, "Doctor not found")
		case errors.Is(err, db.ErrDoctorBusy):
			return utils.Fail(c, fiber.StatusConflict, "Doctor has active appointments")
		}
		h.Log.WithError(err).WithField("doctor_id", docID).Error("Failed to delete doctor")
		return utils.Fail(c, fiber.StatusInternalServerError, "Failed to delete doctor")
	}

	h.invalidate(c.UserContext())
	h.Log.WithField("doctor_id", docID).Info("Doctor deleted")
	return c.JSON(fiber.Map{"success": true, "message": "Doctor deleted"})
}

func (h *Handler) invalidate(ctx context.Context) {
	if h.Cache == nil {
		return
	}
	if err := h.Cache.Invalidate(ctx); err != nil {
		h.Log.WithError(err).Warn("Failed to invalidate doctor cache")
	}
}

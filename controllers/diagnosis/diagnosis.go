package diagnosis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/meinhoongagan/clinic-app/controllers"
	"github.com/meinhoongagan/clinic-app/db"
	"github.com/meinhoongagan/clinic-app/models"
	"github.com/meinhoongagan/clinic-app/utils"
)

type Diagnoses interface {
	Create(ctx context.Context, diag *models.Diagnosis) error
	ForDoctor(ctx context.Context, doctorID uint) ([]models.Diagnosis, error)
	ForUser(ctx context.Context, userID uint) ([]models.Diagnosis, error)
	Get(ctx context.Context, id uint) (*models.Diagnosis, error)
	Delete(ctx context.Context, id, doctorID uint) error
}

type Handler struct {
	Diagnoses Diagnoses
	Location  *time.Location
	Now       func() time.Time
	Log       *logrus.Entry
}

type medicationInput struct {
	MedicationName string `json:"medication_name" validate:"required"`
	Dosage         string `json:"dosage"`
	Duration       string `json:"duration"`
	Notes          string `json:"notes"`
}

type checkupInput struct {
	CheckupDate string `json:"checkup_date" validate:"required"`
	Purpose     string `json:"purpose"`
	Notes       string `json:"notes"`
}

type diagnosisInput struct {
	UserID         controllers.FlexibleID `json:"user_id" validate:"required"`
	AppointmentID  controllers.FlexibleID `json:"appointment_id"`
	DiagnosisTitle string                 `json:"diagnosis_title" validate:"required"`
	Description    string                 `json:"description"`
	DiagnosisDate  string                 `json:"diagnosis_date"`
	Medications    []medicationInput      `json:"medications" validate:"dive"`
	FutureCheckups []checkupInput         `json:"future_checkups" validate:"dive"`
}

// Add records a diagnosis written by the logged in doctor.
func (h *Handler) Add(c *fiber.Ctx) error {
	input := new(diagnosisInput)
	if err := c.BodyParser(input); err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, "Cannot parse JSON")
	}
	input.DiagnosisTitle = strings.TrimSpace(input.DiagnosisTitle)
	if input.UserID == 0 || input.DiagnosisTitle == "" {
		return utils.Fail(c, fiber.StatusBadRequest, "Missing required fields: user_id and diagnosis_title are required")
	}
	if err := utils.Validate(input); err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, err.Error())
	}

	date, err := utils.ParseDiagnosisDate(input.DiagnosisDate, h.Location, h.Now())
	if err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, "Invalid diagnosis_date")
	}

	diag := &models.Diagnosis{
		UserID:         uint(input.UserID),
		DoctorID:       controllers.Caller(c).ID,
		DiagnosisTitle: input.DiagnosisTitle,
		Description:    input.Description,
		DiagnosisDate:  date,
	}
	if input.AppointmentID != 0 {
		id := uint(input.AppointmentID)
		diag.AppointmentID = &id
	}
	for _, med := range input.Medications {
		diag.Medications = append(diag.Medications, models.Medication{
			MedicationName: med.MedicationName,
			Dosage:         med.Dosage,
			Duration:       med.Duration,
			Notes:          med.Notes,
		})
	}
	for _, checkup := range input.FutureCheckups {
		diag.FutureCheckups = append(diag.FutureCheckups, models.FutureCheckup{
			CheckupDate: checkup.CheckupDate,
			Purpose:     checkup.Purpose,
			Notes:       checkup.Notes,
		})
	}

	if err := h.Diagnoses.Create(c.UserContext(), diag); err != nil {
		h.Log.WithError(err).Error("Failed to create diagnosis")
		return utils.Fail(c, fiber.StatusInternalServerError, "Failed to create diagnosis")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":     true,
		"message":     "Diagnosis created successfully",
		"diagnosisId": diag.ID,
	})
}

// ForDoctor lists the diagnoses written by the logged in doctor.
func (h *Handler) ForDoctor(c *fiber.Ctx) error {
	diagnoses, err := h.Diagnoses.ForDoctor(c.UserContext(), controllers.Caller(c).ID)
	if err != nil {
		h.Log.WithError(err).Error("Failed to fetch diagnoses")
		return utils.Fail(c, fiber.StatusInternalServerError, "Failed to fetch diagnoses")
	}
	return c.JSON(fiber.Map{"success": true, "diagnoses": diagnoses})
}

// ForPatient lists the logged in patient's diagnoses.
func (h *Handler) ForPatient(c *fiber.Ctx) error {
	diagnoses, err := h.Diagnoses.ForUser(c.UserContext(), controllers.Caller(c).ID)
	if err != nil {
		h.Log.WithError(err).Error("Failed to fetch diagnoses")
		return utils.Fail(c, fiber.StatusInternalServerError, "Failed to fetch diagnoses")
	}
	return c.JSON(fiber.Map{"success": true, "diagnoses": diagnoses})
}

func (h *Handler) Delete(c *fiber.Ctx) error {
	id, ok := controllers.ParseID(c, "id")
	if !ok {
		return utils.Fail(c, fiber.StatusBadRequest, "Invalid diagnosis id")
	}

	if err := h.Diagnoses.Delete(c.UserContext(), id, controllers.Caller(c).ID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return utils.Fail(c, fiber.StatusNotFound, "Diagnosis not found")
		}
		h.Log.WithError(err).WithField("diagnosis_id", id).Error("Failed to delete diagnosis")
		return utils.Fail(c, fiber.StatusInternalServerError, "Failed to delete diagnosis")
	}
	return c.JSON(fiber.Map{"success": true, "message": "Diagnosis deleted"})
}

// PDF renders a diagnosis report for its patient, its doctor or an admin.
func (h *Handler) PDF(c *fiber.Ctx) error {
	id, ok := controllers.ParseID(c, "id")
	if !ok {
		return utils.Fail(c, fiber.StatusBadRequest, "Invalid diagnosis id")
	}

	diag, err := h.Diagnoses.Get(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return utils.Fail(c, fiber.StatusNotFound, "Diagnosis not found")
		}
		return utils.Fail(c, fiber.StatusInternalServerError, "Failed to load diagnosis")
	}
	if !canRead(diag, controllers.Caller(c)) {
		return utils.Fail(c, fiber.StatusForbidden, "Unauthorized action")
	}

	report, err := utils.DiagnosisPDF(diag)
	if err != nil {
		h.Log.WithError(err).WithField("diagnosis_id", id).Error("Failed to render diagnosis report")
		return utils.Fail(c, fiber.StatusInternalServerError, "Failed to render report")
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="diagnosis-%d.pdf"`, diag.ID))
	return c.Send(report)
}

func canRead(diag *models.Diagnosis, caller models.Caller) bool {
	switch caller.Role {
	case models.RoleAdmin:
		return true
	case models.RoleDoctor:
		return diag.DoctorID == caller.ID
	case models.RoleUser:
		return diag.UserID == caller.ID
	}
	return false
}

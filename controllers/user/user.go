package user

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

type Users interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Get(ctx context.Context, id uint) (*models.User, error)
	UpdateProfile(ctx context.Context, id uint, fields map[string]interface{}) error
}

type Appointments interface {
	ForUser(ctx context.Context, userID uint) ([]models.Appointment, error)
}

// Handler serves the patient API.
type Handler struct {
	Users        Users
	Appointments Appointments
	Ledger       controllers.SlotLedger
	Tokens       controllers.TokenIssuer
	Uploader     utils.Uploader
	Log          *logrus.Entry
}

type registerInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// Register creates a patient account and logs it in.
func (h *Handler) Register(c *fiber.Ctx) error {
	input := new(registerInput)
	if err := c.BodyParser(input); err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, "Cannot parse JSON")
	}
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if err := utils.Validate(input); err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, err.Error())
	}

	hashed, err := auth.HashPassword(input.Password)
	if err != nil {
		h.Log.WithError(err).Error("Failed to hash password")
		return utils.Fail(c, fiber.StatusInternalServerError, "Failed to hash password")
	}

	user := &models.User{Name: input.Name, Email: input.Email, Password: hashed}
	if err := h.Users.Create(c.UserContext(), user); err != nil {
		if errors.Is(err, db.ErrEmailTaken) {
			return utils.Fail(c, fiber.StatusConflict, "User already exists")
		}
		h.Log.WithError(err).Error("Failed to create user")
		return utils.Fail(c, fiber.StatusInternalServerError, "Failed to create user")
	}

	return h.issue(c, fiber.StatusCreated, models.Caller{ID: user.ID, Role: models.RoleUser})
}

type loginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login checks the patient's password and returns a token.
func (h *Handler) Login(c *fiber.Ctx) error {
	input := new(loginInput)
	if err := c.BodyParser(input); err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, "Cannot parse JSON")
	}

	user, err := h.Users.FindByEmail(c.UserContext(), strings.ToLower(strings.TrimSpace(input.Email)))
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return utils.Fail(c, fiber.StatusNotFound, "User does not exist")
		}
		h.Log.WithError(err).Error("Failed to load user")
		return utils.Fail(c, fiber.StatusInternalServerError, "Failed to load user")
	}
	if !auth.CheckPassword(user.Password, input.Password) {
		return utils.Fail(c, fiber.StatusUnauthorized, "Invalid credentials")
	}

	return h.issue(c, fiber.StatusOK, models.Caller{ID: user.ID, Role: models.RoleUser})
}

func (h *Handler) issue(c *fiber.Ctx, status int, caller models.Caller) error {
	token, err := h.Tokens.Issue(caller)
	if err != nil {
		h.Log.WithError(err).Error("Failed to sign token")
		return utils.Fail(c, fiber.StatusInternalServerError, "Failed to sign token")
	}
	return c.Status(status).JSON(fiber.Map{"success": true, "token": token})
}

// GetProfile returns the logged in patient.
func (h *Handler) GetProfile(c *fiber.Ctx) error {
	user, err := h.Users.Get(c.UserContext(), controllers.Caller(c).ID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return utils.Fail(c, fiber.StatusNotFound, "User not found")
		}
		return utils.Fail(c, fiber.StatusInternalServerError, "Failed to load profile")
	}
	user.Password = ""
	return c.JSON(fiber.Map{"success": true, "userData": user})
}

// UpdateProfile rewrites the patient's profile from a multipart form, with an optional image.
func (h *Handler) UpdateProfile(c *fiber.Ctx) error {
	name := strings.TrimSpace(c.FormValue("name"))
	phone := strings.TrimSpace(c.FormValue("phone"))
	dob := strings.TrimSpace(c.FormValue("dob"))
	gender := strings.TrimSpace(c.FormValue("gender"))
	if name == "" || phone == "" || dob == "" || gender == "" {
		return utils.Fail(c, fiber.StatusBadRequest, "Data Missing")
	}

	line1, line2, err := controllers.Address(c)
	if err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, "Invalid address format")
	}

	fields := map[string]interface{}{
		"name":          name,
		"phone":         phone,
		"address_line1": line1,
		"address_line2": line2,
		"dob":           dob,
		"gender":        gender,
	}

	image, err := controllers.UploadImage(c, h.Uploader, "users")
	if err != nil {
		h.Log.WithError(err).Warn("Profile image upload failed")
		return controllers.UploadFailed(c, err)
	}
	if image != "" {
		fields["image"] = image
	}

	userID := controllers.Caller(c).ID
	if err := h.Users.UpdateProfile(c.UserContext(), userID, fields); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return utils.Fail(c, fiber.StatusNotFound, "User not found")
		}
		h.Log.WithError(err).WithField("user_id", userID).Error("Failed to update profile")
		return utils.Fail(c, fiber.StatusInternalServerError, "Failed to update profile")
	}
	return c.JSON(fiber.Map{"success": true, "message": "Profile Updated"})
}

// Package mocks holds testify mocks of the stores and services the HTTP handlers depend on.
package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/meinhoongagan/clinic-app/models"
)

type Ledger struct{ mock.Mock }

func (m *Ledger) BookSlot(ctx context.Context, userID, doctorID uint, date, clock string) (*models.Appointment, error) {
	args := m.Called(ctx, userID, doctorID, date, clock)
	appt, _ := args.Get(0).(*models.Appointment)
	return appt, args.Error(1)
}

func (m *Ledger) CancelSlot(ctx context.Context, appointmentID uint, caller models.Caller) error {
	return m.Called(ctx, appointmentID, caller).Error(0)
}

func (m *Ledger) Complete(ctx context.Context, appointmentID uint, caller models.Caller) error {
	return m.Called(ctx, appointmentID, caller).Error(0)
}

func (m *Ledger) ListSlots(ctx context.Context, doctorID uint) (models.SlotMap, error) {
	args := m.Called(ctx, doctorID)
	slots, _ := args.Get(0).(models.SlotMap)
	return slots, args.Error(1)
}

type Tokens struct{ mock.Mock }

func (m *Tokens) Issue(caller models.Caller) (string, error) {
	args := m.Called(caller)
	return args.String(0), args.Error(1)
}

type Users struct{ mock.Mock }

func (m *Users) Create(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *Users) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *Users) Get(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *Users) UpdateProfile(ctx context.Context, id uint, fields map[string]interface{}) error {
	return m.Called(ctx, id, fields).Error(0)
}

type Doctors struct{ mock.Mock }

func (m *Doctors) Create(ctx context.Context, doc *models.Doctor) error {
	return m.Called(ctx, doc).Error(0)
}

func (m *Doctors) FindByEmail(ctx context.Context, email string) (*models.Doctor, error) {
	args := m.Called(ctx, email)
	doc, _ := args.Get(0).(*models.Doctor)
	return doc, args.Error(1)
}

func (m *Doctors) Get(ctx context.Context, id uint) (*models.Doctor, error) {
	args := m.Called(ctx, id)
	doc, _ := args.Get(0).(*models.Doctor)
	return doc, args.Error(1)
}

func (m *Doctors) List(ctx context.Context) ([]models.Doctor, error) {
	args := m.Called(ctx)
	doctors, _ := args.Get(0).([]models.Doctor)
	return doctors, args.Error(1)
}

func (m *Doctors) UpdateProfile(ctx context.Context, id uint, fields map[string]interface{}) error {
	return m.Called(ctx, id, fields).Error(0)
}

func (m *Doctors) ToggleAvailability(ctx context.Context, id uint) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *Doctors) Delete(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

type Appointments struct{ mock.Mock }

func (m *Appointments) ForUser(ctx context.Context, userID uint) ([]models.Appointment, error) {
	args := m.Called(ctx, userID)
	appts, _ := args.Get(0).([]models.Appointment)
	return appts, args.Error(1)
}

func (m *Appointments) ForDoctor(ctx context.Context, doctorID uint) ([]models.Appointment, error) {
	args := m.Called(ctx, doctorID)
	appts, _ := args.Get(0).([]models.Appointment)
	return appts, args.Error(1)
}

func (m *Appointments) All(ctx context.Context) ([]models.Appointment, error) {
	args := m.Called(ctx)
	appts, _ := args.Get(0).([]models.Appointment)
	return appts, args.Error(1)
}

func (m *Appointments) DoctorDashboard(ctx context.Context, doctorID uint) (*models.DoctorDashboard, error) {
	args := m.Called(ctx, doctorID)
	dash, _ := args.Get(0).(*models.DoctorDashboard)
	return dash, args.Error(1)
}

func (m *Appointments) AdminDashboard(ctx context.Context) (*models.AdminDashboard, error) {
	args := m.Called(ctx)
	dash, _ := args.Get(0).(*models.AdminDashboard)
	return dash, args.Error(1)
}

type Diagnoses struct{ mock.Mock }

func (m *Diagnoses) Create(ctx context.Context, diag *models.Diagnosis) error {
	return m.Called(ctx, diag).Error(0)
}

func (m *Diagnoses) ForDoctor(ctx context.Context, doctorID uint) ([]models.Diagnosis, error) {
	args := m.Called(ctx, doctorID)
	diags, _ := args.Get(0).([]models.Diagnosis)
	return diags, args.Error(1)
}

func (m *Diagnoses) ForUser(ctx context.Context, userID uint) ([]models.Diagnosis, error) {
	args := m.Called(ctx, userID)
	diags, _ := args.Get(0).([]models.Diagnosis)
	return diags, args.Error(1)
}

func (m *Diagnoses) All(ctx context.Context) ([]models.Diagnosis, error) {
	args := m.Called(ctx)
	diags, _ := args.Get(0).([]models.Diagnosis)
	return diags, args.Error(1)
}

func (m *Diagnoses) Get(ctx context.Context, id uint) (*models.Diagnosis, error) {
	args := m.Called(ctx, id)
	diag, _ := args.Get(0).(*models.Diagnosis)
	return diag, args.Error(1)
}

func (m *Diagnoses) Delete(ctx context.Context, id, doctorID uint) error {
	return m.Called(ctx, id, doctorID).Error(0)
}

type Uploader struct{ mock.Mock }

func (m *Uploader) Upload(ctx context.Context, file io.Reader, folder string) (string, error) {
	args := m.Called(ctx, file, folder)
	return args.String(0), args.Error(1)
}

type Cache struct{ mock.Mock }

func (m *Cache) Invalidate(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type DoctorList struct{ mock.Mock }

func (m *DoctorList) Get(ctx context.Context) ([]models.Doctor, int64, bool) {
	args := m.Called(ctx)
	doctors, _ := args.Get(0).([]models.Doctor)
	return doctors, args.Get(1).(int64), args.Bool(2)
}

func (m *DoctorList) Set(ctx context.Context, stamp int64, doctors []models.Doctor) {
	m.Called(ctx, stamp, doctors)
}

func (m *DoctorList) Invalidate(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

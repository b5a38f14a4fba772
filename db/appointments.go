package db

import (
	"context"

	"gorm.io/gorm"

	"github.com/meinhoongagan/clinic-app/models"
)

const latestAppointments = 5

type AppointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(conn *gorm.DB) *AppointmentRepository {
	return &AppointmentRepository{db: conn}
}

// withoutPassword preloads a related account even when it was soft deleted, minus the hash.
func withoutPassword(tx *gorm.DB) *gorm.DB {
	return tx.Unscoped().Omit("password")
}

func (r *AppointmentRepository) ForUser(ctx context.Context, userID uint) ([]models.Appointment, error) {
	var appointments []models.Appointment
	err := r.db.WithContext(ctx).
		Preload("Doctor", withoutPassword).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&appointments).Error
	return appointments, err
}

func (r *AppointmentRepository) ForDoctor(ctx context.Context, doctorID uint) ([]models.Appointment, error) {
	var appointments []models.Appointment
	err := r.db.WithContext(ctx).
		Preload("User", withoutPassword).
		Where("doc_id = ?", doctorID).
		Order("created_at DESC").
		Find(&appointments).Error
	return appointments, err
}

func (r *AppointmentRepository) All(ctx context.Context) ([]models.Appointment, error) {
	var appointments []models.Appointment
	err := r.db.WithContext(ctx).
		Preload("User", withoutPassword).
		Preload("Doctor", withoutPassword).
		Order("created_at DESC").
		Find(&appointments).Error
	return appointments, err
}

func (r *AppointmentRepository) DoctorDashboard(ctx context.Context, doctorID uint) (*models.DoctorDashboard, error) {
	dash := &models.DoctorDashboard{}
	conn := r.db.WithContext(ctx)
	scoped := func() *gorm.DB {
		return conn.Model(&models.Appointment{}).Where("doc_id = ?", doctorID)
	}

	if err := scoped().
		Where("is_completed = ? OR payment = ?", true, true).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&dash.Earnings).Error; err != nil {
		return nil, err
	}
	if err := scoped().Count(&dash.Appointments).Error; err != nil {
		return nil, err
	}
	if err := scoped().Distinct("user_id").Count(&dash.Patients).Error; err != nil {
		return nil, err
	}
	if err := scoped().
		Preload("User", withoutPassword).
		Order("created_at DESC").
		Limit(latestAppointments).
		Find(&dash.LatestAppointments).Error; err != nil {
		return nil, err
	}
	return dash, nil
}

func (r *AppointmentRepository) AdminDashboard(ctx context.Context) (*models.AdminDashboard, error) {
	dash := &models.AdminDashboard{}
	conn := r.db.WithContext(ctx)

	if err := conn.Model(&models.Doctor{}).Count(&dash.Doctors).Error; err != nil {
		return nil, err
	}
	if err := conn.Model(&models.Appointment{}).Count(&dash.Appointments).Error; err != nil {
		return nil, err
	}
	if err := conn.Model(&models.User{}).Count(&dash.Patients).Error; err != nil {
		return nil, err
	}
	if err := conn.Model(&models.Appointment{}).
		Preload("User", withoutPassword).
		Preload("Doctor", withoutPassword).
		Order("created_at DESC").
		Limit(latestAppointments).
		Find(&dash.LatestAppointments).Error; err != nil {
		return nil, err
	}
	return dash, nil
}

package db

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/meinhoongagan/clinic-app/models"
)

type DiagnosisRepository struct {
	db *gorm.DB
}

func NewDiagnosisRepository(conn *gorm.DB) *DiagnosisRepository {
	return &DiagnosisRepository{db: conn}
}

// Create inserts the diagnosis with its medications and checkups in one transaction.
func (r *DiagnosisRepository) Create(ctx context.Context, diag *models.Diagnosis) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(diag).Error; err != nil {
			return err
		}

		for i := range diag.Medications {
			diag.Medications[i].DiagnosisID = diag.ID
		}
		if len(diag.Medications) > 0 {
			if err := tx.Create(&diag.Medications).Error; err != nil {
				return err
			}
		}

		for i := range diag.FutureCheckups {
			diag.FutureCheckups[i].DiagnosisID = diag.ID
		}
		if len(diag.FutureCheckups) > 0 {
			if err := tx.Create(&diag.FutureCheckups).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *DiagnosisRepository) detailed(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Medications").
		Preload("FutureCheckups").
		Preload("User", withoutPassword).
		Preload("Doctor", withoutPassword).
		Order("diagnosis_date DESC")
}

func (r *DiagnosisRepository) ForDoctor(ctx context.Context, doctorID uint) ([]models.Diagnosis, error) {
	var diagnoses []models.Diagnosis
	err := r.detailed(ctx).Where("doctor_id = ?", doctorID).Find(&diagnoses).Error
	return diagnoses, err
}

func (r *DiagnosisRepository) ForUser(ctx context.Context, userID uint) ([]models.Diagnosis, error) {
	var diagnoses []models.Diagnosis
	err := r.detailed(ctx).Where("user_id = ?", userID).Find(&diagnoses).Error
	return diagnoses, err
}

func (r *DiagnosisRepository) All(ctx context.Context) ([]models.Diagnosis, error) {
	var diagnoses []models.Diagnosis
	err := r.detailed(ctx).Find(&diagnoses).Error
	return diagnoses, err
}

func (r *DiagnosisRepository) Get(ctx context.Context, id uint) (*models.Diagnosis, error) {
	var diag models.Diagnosis
	if err := r.detailed(ctx).First(&diag, id).Error; err != nil {
		return nil, translate(err)
	}
	return &diag, nil
}

// Delete removes a diagnosis written by doctorID together with its medications and checkups.
func (r *DiagnosisRepository) Delete(ctx context.Context, id, doctorID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND doctor_id = ?", id, doctorID).Delete(&models.Diagnosis{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		if err := tx.Where("diagnosis_id = ?", id).Delete(&models.Medication{}).Error; err != nil {
			return err
		}
		return tx.Where("diagnosis_id = ?", id).Delete(&models.FutureCheckup{}).Error
	})
}

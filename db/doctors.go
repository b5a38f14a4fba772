package db

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/meinhoongagan/clinic-app/models"
)

// ErrDoctorBusy is returned when a doctor still has appointments that are neither cancelled
// nor completed.
var ErrDoctorBusy = errors.New("doctor has active appointments")

type DoctorRepository struct {
	db *gorm.DB
}

func NewDoctorRepository(conn *gorm.DB) *DoctorRepository {
	return &DoctorRepository{db: conn}
}

func (r *DoctorRepository) Create(ctx context.Context, doc *models.Doctor) error {
	err := r.db.WithContext(ctx).Create(doc).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrEmailTaken
	}
	return err
}

func (r *DoctorRepository) FindByEmail(ctx context.Context, email string) (*models.Doctor, error) {
	var doc models.Doctor
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&doc).Error; err != nil {
		return nil, translate(err)
	}
	return &doc, nil
}

func (r *DoctorRepository) Get(ctx context.Context, id uint) (*models.Doctor, error) {
	var doc models.Doctor
	if err := r.db.WithContext(ctx).Omit("password").First(&doc, id).Error; err != nil {
		return nil, translate(err)
	}
	return &doc, nil
}

// List returns every doctor without password hashes, ordered by id.
func (r *DoctorRepository) List(ctx context.Context) ([]models.Doctor, error) {
	var doctors []models.Doctor
	if err := r.db.WithContext(ctx).Omit("password").Order("id").Find(&doctors).Error; err != nil {
		return nil, err
	}
	return doctors, nil
}

func (r *DoctorRepository) UpdateProfile(ctx context.Context, id uint, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&models.Doctor{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ToggleAvailability flips the doctor's availability flag and returns the new value.
func (r *DoctorRepository) ToggleAvailability(ctx context.Context, id uint) (bool, error) {
	var available bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var doc models.Doctor
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id", "available").
			First(&doc, id).Error
		if err != nil {
			return translate(err)
		}
		available = !doc.Available
		return tx.Model(&models.Doctor{}).Where("id = ?", id).Update("available", available).Error
	})
	return available, err
}

// Delete soft deletes a doctor. It refuses while the doctor still has active appointments.
func (r *DoctorRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var doc models.Doctor
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			First(&doc, id).Error
		if err != nil {
			return translate(err)
		}

		var active int64
		err = tx.Model(&models.Appointment{}).
			Where("doc_id = ? AND cancelled = ? AND is_completed = ?", id, false, false).
			Count(&active).Error
		if err != nil {
			return err
		}
		if active > 0 {
			return ErrDoctorBusy
		}

		return tx.Delete(&models.Doctor{}, id).Error
	})
}

package db

import (
	"gorm.io/gorm"

	"github.com/meinhoongagan/clinic-app/models"
)

// Migrate creates or updates every table the service uses, including the partial unique
// index that keeps two live appointments off the same doctor slot.
func Migrate(conn *gorm.DB) error {
	return conn.AutoMigrate(
		&models.User{},
		&models.Doctor{},
		&models.Appointment{},
		&models.Diagnosis{},
		&models.Medication{},
		&models.FutureCheckup{},
	)
}

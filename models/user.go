package models

import (
	"time"
)

// User is a patient account.
type User struct {
	ID           uint          `json:"id" gorm:"primaryKey"`
	Name         string        `json:"name"`
	Email        string        `json:"email" gorm:"uniqueIndex"`
	Password     string        `json:"password,omitempty"`
	Image        string        `json:"image"`
	Phone        string        `json:"phone"`
	AddressLine1 string        `json:"address_line1"`
	AddressLine2 string        `json:"address_line2"`
	Gender       string        `json:"gender"`
	DOB          string        `json:"dob"`
	Appointments []Appointment `json:"appointments,omitempty" gorm:"foreignKey:UserID"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

package models

import (
	"time"
)

type Diagnosis struct {
	ID             uint            `json:"id" gorm:"primaryKey"`
	UserID         uint            `json:"user_id" gorm:"index;not null"`
	User           User            `json:"user,omitempty" gorm:"foreignKey:UserID"`
	DoctorID       uint            `json:"doctor_id" gorm:"index;not null"`
	Doctor         Doctor          `json:"doctor,omitempty" gorm:"foreignKey:DoctorID"`
	AppointmentID  *uint           `json:"appointment_id"`
	DiagnosisTitle string          `json:"diagnosis_title" gorm:"not null"`
	Description    string          `json:"description"`
	DiagnosisDate  time.Time       `json:"diagnosis_date"`
	Medications    []Medication    `json:"medications" gorm:"foreignKey:DiagnosisID;constraint:OnDelete:CASCADE"`
	FutureCheckups []FutureCheckup `json:"future_checkups" gorm:"foreignKey:DiagnosisID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time       `json:"created_at"`
}

type Medication struct {
	ID             uint   `json:"id" gorm:"primaryKey"`
	DiagnosisID    uint   `json:"diagnosis_id" gorm:"index"`
	MedicationName string `json:"medication_name"`
	Dosage         string `json:"dosage"`
	Duration       string `json:"duration"`
	Notes          string `json:"notes"`
}

type FutureCheckup struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	DiagnosisID uint   `json:"diagnosis_id" gorm:"index"`
	CheckupDate string `json:"checkup_date"`
	Purpose     string `json:"purpose"`
	Notes       string `json:"notes"`
}

package models

import (
	"time"
)

// Appointment is created only by a successful booking and is never deleted, only flagged.
// The partial unique index keeps two live appointments off the same doctor slot.
type Appointment struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	UserID      uint      `json:"user_id" gorm:"index"`
	User        User      `json:"user_data" gorm:"foreignKey:UserID"`
	DocID       uint      `json:"doc_id" gorm:"uniqueIndex:idx_active_doctor_slot,where:cancelled = false"`
	Doctor      Doctor    `json:"doc_data" gorm:"foreignKey:DocID"`
	SlotDate    string    `json:"slot_date" gorm:"uniqueIndex:idx_active_doctor_slot"`
	SlotTime    string    `json:"slot_time" gorm:"uniqueIndex:idx_active_doctor_slot"`
	Amount      float64   `json:"amount" gorm:"type:decimal(10,2)"`
	Cancelled   bool      `json:"cancelled"`
	Payment     bool      `json:"payment"`
	IsCompleted bool      `json:"is_completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Active reports whether the appointment still holds its slot and is not finished.
func (a *Appointment) Active() bool {
	return !a.Cancelled && !a.IsCompleted
}

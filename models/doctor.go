package models

import (
	"gorm.io/gorm"
)

type Doctor struct {
	gorm.Model
	Name         string  `json:"name"`
	Email        string  `json:"email,omitempty" gorm:"uniqueIndex"`
	Password     string  `json:"password,omitempty"`
	Image        string  `json:"image"`
	Specialty    string  `json:"specialty"`
	Degree       string  `json:"degree"`
	Experience   string  `json:"experience"`
	About        string  `json:"about"`
	Fees         float64 `json:"fees" gorm:"type:decimal(10,2)"`
	AddressLine1 string  `json:"address_line1"`
	AddressLine2 string  `json:"address_line2"`
	// Available is always written explicitly; a gorm default would swallow false on create.
	Available   bool    `json:"available"`
	SlotsBooked SlotMap `json:"slots_booked"`
}

// BeforeCreate makes sure a new doctor starts with an empty slot map instead of NULL.
func (d *Doctor) BeforeCreate(tx *gorm.DB) error {
	if d.SlotsBooked == nil {
		d.SlotsBooked = SlotMap{}
	}
	return nil
}

// Public strips credentials before the record leaves the API.
func (d Doctor) Public() Doctor {
	d.Password = ""
	d.Email = ""
	return d
}

package ledger

import (
	"context"
	"errors"

	"github.com/meinhoongagan/clinic-app/models"
)

// ErrRecordNotFound is returned by a Store when the requested row does not exist.
var ErrRecordNotFound = errors.New("record not found")

// Store is the persistence the ledger needs. Implementations translate their own not-found errors
// into ErrRecordNotFound and may return ErrSlotTaken when the database itself rejects a duplicate slot.
type Store interface {
	// WithinTx runs fn against a Store bound to one transaction. A non-nil error from fn rolls back.
	WithinTx(ctx context.Context, fn func(tx Store) error) error

	GetDoctor(ctx context.Context, doctorID uint) (*models.Doctor, error)
	// LockDoctor reads the doctor row and holds a write lock on it until the transaction ends.
	LockDoctor(ctx context.Context, doctorID uint) (*models.Doctor, error)
	// SaveSlots overwrites the whole slot map of a doctor.
	SaveSlots(ctx context.Context, doctorID uint, slots models.SlotMap) error

	CreateAppointment(ctx context.Context, appt *models.Appointment) error
	GetAppointment(ctx context.Context, id uint) (*models.Appointment, error)
	LockAppointment(ctx context.Context, id uint) (*models.Appointment, error)
	MarkCancelled(ctx context.Context, id uint) error
	MarkCompleted(ctx context.Context, id uint) error
}

// Invalidator is notified whenever a doctor's public slot data changes.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

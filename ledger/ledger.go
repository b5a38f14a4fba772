package ledger

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/meinhoongagan/clinic-app/logger"
	"github.com/meinhoongagan/clinic-app/metrics"
	"github.com/meinhoongagan/clinic-app/models"
)

// Ledger owns the booking and cancellation transitions over doctors' slot maps.
//
// Every transition runs inside one transaction that holds the doctor row lock, so the
// duplicate check, the slot map overwrite and the appointment write commit together.
type Ledger struct {
	store Store
	cache Invalidator
	log   *logrus.Entry
}

// New builds a Ledger. cache may be nil.
func New(store Store, cache Invalidator, log *logger.Logger) *Ledger {
	return &Ledger{
		store: store,
		cache: cache,
		log:   log.WithComponent("slot_ledger"),
	}
}

// BookSlot reserves time on date with the doctor and creates the appointment for userID.
// date and clock must already be in the YYYY-MM-DD and HH:MM:00 forms NormalizeSlot returns.
func (l *Ledger) BookSlot(ctx context.Context, userID, doctorID uint, date, clock string) (*models.Appointment, error) {
	if !canonicalSlot(date, clock) {
		return nil, l.bookingResult(malformed("Slot %s %s is not normalized", date, clock))
	}

	var booked *models.Appointment
	err := l.store.WithinTx(ctx, func(tx Store) error {
		doc, err := tx.LockDoctor(ctx, doctorID)
		if err != nil {
			if errors.Is(err, ErrRecordNotFound) {
				return ErrDoctorNotFound
			}
			return persistenceFailure("load doctor", err)
		}

		if !doc.Available {
			return ErrDoctorUnavailable
		}

		slots := doc.SlotsBooked.Clone()
		if slots.Has(date, clock) {
			return ErrSlotTaken
		}
		slots.Add(date, clock)

		if err := tx.SaveSlots(ctx, doctorID, slots); err != nil {
			return asLedgerError(err, "save slots")
		}

		appt := &models.Appointment{
			UserID:   userID,
			DocID:    doctorID,
			SlotDate: date,
			SlotTime: clock,
			Amount:   doc.Fees,
		}
		if err := tx.CreateAppointment(ctx, appt); err != nil {
			return asLedgerError(err, "create appointment")
		}
		booked = appt
		return nil
	})
	if err != nil {
		return nil, l.bookingResult(asLedgerError(err, "book appointment"))
	}

	l.invalidate(ctx)
	l.bookingResult(nil)
	l.log.WithFields(logrus.Fields{
		"appointment_id": booked.ID,
		"doctor_id":      doctorID,
		"user_id":        userID,
		"slot_date":      date,
		"slot_time":      clock,
	}).Info("Appointment booked")
	return booked, nil
}

// CancelSlot flags the appointment cancelled and frees its slot in the doctor's slot map.
// Cancelling an appointment that is already cancelled succeeds without touching the slot map.
func (l *Ledger) CancelSlot(ctx context.Context, appointmentID uint, caller models.Caller) error {
	err := l.cancel(ctx, appointmentID, caller)

	outcome := "cancelled"
	if err != nil {
		outcome = string(KindOf(err))
	}
	metrics.CancellationsTotal.WithLabelValues(string(caller.Role), outcome).Inc()
	return err
}

func (l *Ledger) cancel(ctx context.Context, appointmentID uint, caller models.Caller) error {
	appt, err := l.store.GetAppointment(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return ErrAppointmentNotFound
		}
		return persistenceFailure("load appointment", err)
	}

	if !authorized(appt, caller) {
		l.log.WithFields(logrus.Fields{
			"appointment_id": appointmentID,
			"caller_id":      caller.ID,
			"caller_role":    caller.Role,
		}).Warn("Cancellation rejected")
		return ErrUnauthorized
	}

	if appt.Cancelled {
		return nil
	}

	freed := false
	err = l.store.WithinTx(ctx, func(tx Store) error {
		// Lock order is doctor then appointment, the same as booking.
		doc, err := tx.LockDoctor(ctx, appt.DocID)
		if err != nil && !errors.Is(err, ErrRecordNotFound) {
			return persistenceFailure("load doctor", err)
		}

		current, err := tx.LockAppointment(ctx, appointmentID)
		if err != nil {
			if errors.Is(err, ErrRecordNotFound) {
				return ErrAppointmentNotFound
			}
			return persistenceFailure("load appointment", err)
		}
		if current.Cancelled {
			return nil
		}

		if err := tx.MarkCancelled(ctx, appointmentID); err != nil {
			return asLedgerError(err, "cancel appointment")
		}

		// The doctor may have been removed, the appointment is still flagged.
		if doc == nil {
			return nil
		}
		slots := doc.SlotsBooked.Clone()
		if !slots.Remove(current.SlotDate, current.SlotTime) {
			return nil
		}
		if err := tx.SaveSlots(ctx, doc.ID, slots); err != nil {
			return asLedgerError(err, "save slots")
		}
		freed = true
		return nil
	})
	if err != nil {
		return asLedgerError(err, "cancel appointment")
	}

	if freed {
		l.invalidate(ctx)
	}
	l.log.WithFields(logrus.Fields{
		"appointment_id": appointmentID,
		"caller_role":    caller.Role,
		"slot_freed":     freed,
	}).Info("Appointment cancelled")
	return nil
}

// Complete marks an appointment as done. Patients cannot complete appointments and a cancelled
// appointment cannot be completed. The slot stays held.
func (l *Ledger) Complete(ctx context.Context, appointmentID uint, caller models.Caller) error {
	if caller.Role == models.RoleUser {
		return ErrUnauthorized
	}

	err := l.store.WithinTx(ctx, func(tx Store) error {
		appt, err := tx.LockAppointment(ctx, appointmentID)
		if err != nil {
			if errors.Is(err, ErrRecordNotFound) {
				return ErrAppointmentNotFound
			}
			return persistenceFailure("load appointment", err)
		}
		if !authorized(appt, caller) {
			return ErrUnauthorized
		}
		if appt.Cancelled {
			return ErrAppointmentClosed
		}
		if appt.IsCompleted {
			return nil
		}
		if err := tx.MarkCompleted(ctx, appointmentID); err != nil {
			return asLedgerError(err, "complete appointment")
		}
		return nil
	})
	if err != nil {
		return asLedgerError(err, "complete appointment")
	}

	l.log.WithField("appointment_id", appointmentID).Info("Appointment completed")
	return nil
}

// ListSlots returns the doctor's current slot map.
func (l *Ledger) ListSlots(ctx context.Context, doctorID uint) (models.SlotMap, error) {
	doc, err := l.store.GetDoctor(ctx, doctorID)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return nil, ErrDoctorNotFound
		}
		return nil, persistenceFailure("load doctor", err)
	}
	if doc.SlotsBooked == nil {
		return models.SlotMap{}, nil
	}
	return doc.SlotsBooked, nil
}

func (l *Ledger) bookingResult(err error) error {
	outcome := "booked"
	if err != nil {
		outcome = string(KindOf(err))
		entry := l.log.WithField("kind", outcome)
		if KindOf(err) == KindPersistenceFailure {
			entry.WithError(err).Error("Booking failed")
		} else {
			entry.Info("Booking rejected")
		}
	}
	metrics.BookingsTotal.WithLabelValues(outcome).Inc()
	return err
}

func (l *Ledger) invalidate(ctx context.Context) {
	if l.cache == nil {
		return
	}
	if err := l.cache.Invalidate(ctx); err != nil {
		l.log.WithError(err).Warn("Failed to invalidate doctor cache")
	}
}

func authorized(appt *models.Appointment, caller models.Caller) bool {
	switch caller.Role {
	case models.RoleAdmin:
		return true
	case models.RoleDoctor:
		return appt.DocID == caller.ID
	case models.RoleUser:
		return appt.UserID == caller.ID
	}
	return false
}

// asLedgerError keeps tagged errors as they are and wraps anything else as a persistence failure.
func asLedgerError(err error, op string) error {
	var le *Error
	if errors.As(err, &le) {
		return le
	}
	return persistenceFailure(op, err)
}

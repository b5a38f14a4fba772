package db

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/meinhoongagan/clinic-app/ledger"
	"github.com/meinhoongagan/clinic-app/models"
)

// SlotStore is the gorm backed ledger.Store.
type SlotStore struct {
	db *gorm.DB
}

func NewSlotStore(conn *gorm.DB) *SlotStore {
	return &SlotStore{db: conn}
}

func (s *SlotStore) WithinTx(ctx context.Context, fn func(tx ledger.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&SlotStore{db: tx})
	})
}

func (s *SlotStore) GetDoctor(ctx context.Context, doctorID uint) (*models.Doctor, error) {
	var doc models.Doctor
	if err := s.db.WithContext(ctx).First(&doc, doctorID).Error; err != nil {
		return nil, translate(err)
	}
	return &doc, nil
}

func (s *SlotStore) LockDoctor(ctx context.Context, doctorID uint) (*models.Doctor, error) {
	var doc models.Doctor
	err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&doc, doctorID).Error
	if err != nil {
		return nil, translate(err)
	}
	return &doc, nil
}

func (s *SlotStore) SaveSlots(ctx context.Context, doctorID uint, slots models.SlotMap) error {
	res := s.db.WithContext(ctx).
		Model(&models.Doctor{}).
		Where("id = ?", doctorID).
		Update("slots_booked", slots)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SlotStore) CreateAppointment(ctx context.Context, appt *models.Appointment) error {
	err := s.db.WithContext(ctx).Omit(clause.Associations).Create(appt).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ledger.ErrSlotTaken
	}
	return err
}

func (s *SlotStore) GetAppointment(ctx context.Context, id uint) (*models.Appointment, error) {
	var appt models.Appointment
	if err := s.db.WithContext(ctx).First(&appt, id).Error; err != nil {
		return nil, translate(err)
	}
	return &appt, nil
}

func (s *SlotStore) LockAppointment(ctx context.Context, id uint) (*models.Appointment, error) {
	var appt models.Appointment
	err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&appt, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &appt, nil
}

func (s *SlotStore) MarkCancelled(ctx context.Context, id uint) error {
	return s.flag(ctx, id, "cancelled")
}

func (s *SlotStore) MarkCompleted(ctx context.Context, id uint) error {
	return s.flag(ctx, id, "is_completed")
}

func (s *SlotStore) flag(ctx context.Context, id uint, column string) error {
	res := s.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ?", id).
		Update(column, true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// PruneSlots drops dates before cutoff from every doctor's slot map, one locked transaction per
// doctor, and reports how many dates were removed.
func (s *SlotStore) PruneSlots(ctx context.Context, cutoff string) (int, error) {
	var ids []uint
	if err := s.db.WithContext(ctx).Model(&models.Doctor{}).Order("id").Pluck("id", &ids).Error; err != nil {
		return 0, err
	}

	total := 0
	for _, id := range ids {
		removed := 0
		err := s.WithinTx(ctx, func(tx ledger.Store) error {
			doc, err := tx.LockDoctor(ctx, id)
			if err != nil {
				return err
			}
			slots := doc.SlotsBooked.Clone()
			removed = slots.PruneBefore(cutoff)
			if removed == 0 {
				return nil
			}
			return tx.SaveSlots(ctx, id, slots)
		})
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return total, err
		}
		total += removed
	}
	return total, nil
}

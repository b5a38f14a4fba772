package ledger

import (
	"context"
	"errors"
	"sync"

	"github.com/meinhoongagan/clinic-app/models"
)

// memStore is an in-memory Store. WithinTx snapshots the state and restores it when fn fails,
// which is enough to observe rollback behaviour.
type memStore struct {
	mu      sync.Mutex
	inTx    bool
	doctors map[uint]*models.Doctor
	appts   map[uint]*models.Appointment
	nextID  uint

	saveSlotsErr error
	createErr    error
	cancelErr    error
	saveCalls    int
}

func newMemStore() *memStore {
	return &memStore{
		doctors: map[uint]*models.Doctor{},
		appts:   map[uint]*models.Appointment{},
		nextID:  1,
	}
}

func (s *memStore) addDoctor(id uint, fees float64, available bool) {
	doc := &models.Doctor{Name: "Dr. Test", Fees: fees, Available: available, SlotsBooked: models.SlotMap{}}
	doc.ID = id
	s.doctors[id] = doc
}

func (s *memStore) slots(doctorID uint) models.SlotMap {
	return s.doctors[doctorID].SlotsBooked.Clone()
}

func (s *memStore) WithinTx(ctx context.Context, fn func(tx Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doctors := make(map[uint]*models.Doctor, len(s.doctors))
	for id, d := range s.doctors {
		cp := *d
		cp.SlotsBooked = d.SlotsBooked.Clone()
		doctors[id] = &cp
	}
	appts := make(map[uint]*models.Appointment, len(s.appts))
	for id, a := range s.appts {
		cp := *a
		appts[id] = &cp
	}
	nextID := s.nextID

	s.inTx = true
	err := fn(s)
	s.inTx = false
	if err != nil {
		s.doctors, s.appts, s.nextID = doctors, appts, nextID
	}
	return err
}

func (s *memStore) GetDoctor(ctx context.Context, id uint) (*models.Doctor, error) {
	d, ok := s.doctors[id]
	if !ok {
		return nil, ErrRecordNotFound
	}
	cp := *d
	cp.SlotsBooked = d.SlotsBooked.Clone()
	return &cp, nil
}

func (s *memStore) LockDoctor(ctx context.Context, id uint) (*models.Doctor, error) {
	if !s.inTx {
		return nil, errors.New("LockDoctor outside transaction")
	}
	return s.GetDoctor(ctx, id)
}

func (s *memStore) SaveSlots(ctx context.Context, id uint, slots models.SlotMap) error {
	s.saveCalls++
	if s.saveSlotsErr != nil {
		return s.saveSlotsErr
	}
	s.doctors[id].SlotsBooked = slots.Clone()
	return nil
}

func (s *memStore) CreateAppointment(ctx context.Context, appt *models.Appointment) error {
	if s.createErr != nil {
		return s.createErr
	}
	appt.ID = s.nextID
	s.nextID++
	cp := *appt
	s.appts[appt.ID] = &cp
	return nil
}

func (s *memStore) GetAppointment(ctx context.Context, id uint) (*models.Appointment, error) {
	a, ok := s.appts[id]
	if !ok {
		return nil, ErrRecordNotFound
	}
	cp := *a
	return &cp, nil
}

func (s *memStore) LockAppointment(ctx context.Context, id uint) (*models.Appointment, error) {
	if !s.inTx {
		return nil, errors.New("LockAppointment outside transaction")
	}
	return s.GetAppointment(ctx, id)
}

func (s *memStore) MarkCancelled(ctx context.Context, id uint) error {
	if s.cancelErr != nil {
		return s.cancelErr
	}
	s.appts[id].Cancelled = true
	return nil
}

func (s *memStore) MarkCompleted(ctx context.Context, id uint) error {
	s.appts[id].IsCompleted = true
	return nil
}

type countingCache struct {
	calls int
	err   error
}

func (c *countingCache) Invalidate(ctx context.Context) error {
	c.calls++
	return c.err
}

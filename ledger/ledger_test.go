package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meinhoongagan/clinic-app/logger"
	"github.com/meinhoongagan/clinic-app/models"
)

const (
	doctorID = uint(1)
	patient  = uint(100)
	day      = "2024-05-01"
	nine     = "09:00:00"
)

func newTestLedger(t *testing.T) (*Ledger, *memStore, *countingCache) {
	t.Helper()
	store := newMemStore()
	store.addDoctor(doctorID, 50, true)
	cache := &countingCache{}
	return New(store, cache, logger.Discard()), store, cache
}

func asUser(id uint) models.Caller   { return models.Caller{ID: id, Role: models.RoleUser} }
func asDoctor(id uint) models.Caller { return models.Caller{ID: id, Role: models.RoleDoctor} }

var asAdmin = models.Caller{Role: models.RoleAdmin}

func TestBookSlotCreatesAppointment(t *testing.T) {
	l, store, cache := newTestLedger(t)

	appt, err := l.BookSlot(context.Background(), patient, doctorID, day, nine)
	require.NoError(t, err)

	assert.NotZero(t, appt.ID)
	assert.Equal(t, patient, appt.UserID)
	assert.Equal(t, doctorID, appt.DocID)
	assert.Equal(t, day, appt.SlotDate)
	assert.Equal(t, nine, appt.SlotTime)
	assert.Equal(t, 50.0, appt.Amount)
	assert.False(t, appt.Cancelled)
	assert.False(t, appt.Payment)
	assert.False(t, appt.IsCompleted)

	assert.Equal(t, models.SlotMap{day: {nine}}, store.slots(doctorID))
	assert.Equal(t, 1, cache.calls)
}

func TestBookSlotKeepsInsertionOrder(t *testing.T) {
	l, store, _ := newTestLedger(t)
	ctx := context.Background()

	_, err := l.BookSlot(ctx, patient, doctorID, day, "11:00:00")
	require.NoError(t, err)
	_, err = l.BookSlot(ctx, patient+1, doctorID, day, nine)
	require.NoError(t, err)

	assert.Equal(t, []string{"11:00:00", nine}, store.slots(doctorID)[day])
}

func TestBookSlotRejectsDoubleBooking(t *testing.T) {
	l, store, _ := newTestLedger(t)
	ctx := context.Background()

	_, err := l.BookSlot(ctx, patient, doctorID, day, nine)
	require.NoError(t, err)

	_, err = l.BookSlot(ctx, patient+1, doctorID, day, nine)
	assert.ErrorIs(t, err, ErrSlotTaken)
	assert.Equal(t, KindSlotTaken, KindOf(err))

	assert.Equal(t, models.SlotMap{day: {nine}}, store.slots(doctorID))
	assert.Len(t, store.appts, 1)
}

func TestBookSlotSameTimeOtherDateIsFree(t *testing.T) {
	l, store, _ := newTestLedger(t)
	ctx := context.Background()

	_, err := l.BookSlot(ctx, patient, doctorID, day, nine)
	require.NoError(t, err)
	_, err = l.BookSlot(ctx, patient, doctorID, "2024-05-02", nine)
	require.NoError(t, err)

	assert.Equal(t, models.SlotMap{day: {nine}, "2024-05-02": {nine}}, store.slots(doctorID))
}

func TestBookSlotUnavailableDoctor(t *testing.T) {
	l, store, cache := newTestLedger(t)
	store.doctors[doctorID].Available = false
	store.doctors[doctorID].SlotsBooked = models.SlotMap{day: {"08:00:00"}}

	_, err := l.BookSlot(context.Background(), patient, doctorID, day, nine)
	assert.ErrorIs(t, err, ErrDoctorUnavailable)

	assert.Equal(t, models.SlotMap{day: {"08:00:00"}}, store.slots(doctorID))
	assert.Empty(t, store.appts)
	assert.Zero(t, cache.calls)
}

func TestBookSlotUnknownDoctor(t *testing.T) {
	l, _, _ := newTestLedger(t)

	_, err := l.BookSlot(context.Background(), patient, 42, day, nine)
	assert.ErrorIs(t, err, ErrDoctorNotFound)
}

func TestBookSlotRejectsUnnormalizedInput(t *testing.T) {
	l, store, _ := newTestLedger(t)

	_, err := l.BookSlot(context.Background(), patient, doctorID, "1_5_2024", "9:00 AM")
	assert.ErrorIs(t, err, ErrMalformedSlotToken)
	assert.Empty(t, store.slots(doctorID))
}

func TestBookSlotRejectsNonCanonicalSlot(t *testing.T) {
	l, store, _ := newTestLedger(t)
	ctx := context.Background()

	_, err := l.BookSlot(ctx, patient, doctorID, day, nine)
	require.NoError(t, err)

	tests := []struct {
		name  string
		date  string
		clock string
	}{
		{name: "time without seconds", date: day, clock: "09:00"},
		{name: "time with seconds", date: day, clock: "09:00:30"},
		{name: "hour out of range", date: day, clock: "24:00:00"},
		{name: "minute out of range", date: day, clock: "09:60:00"},
		{name: "month out of range", date: "2024-13-01", clock: nine},
		{name: "day out of range", date: "2024-02-30", clock: nine},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := l.BookSlot(ctx, patient+1, doctorID, tt.date, tt.clock)
			assert.ErrorIs(t, err, ErrMalformedSlotToken)
		})
	}

	assert.Equal(t, models.SlotMap{day: {nine}}, store.slots(doctorID))
	assert.Len(t, store.appts, 1)
}

func TestBookSlotChargesFeeAtBookingTime(t *testing.T) {
	l, store, _ := newTestLedger(t)
	ctx := context.Background()

	appt, err := l.BookSlot(ctx, patient, doctorID, day, nine)
	require.NoError(t, err)

	store.doctors[doctorID].Fees = 80
	stored, err := store.GetAppointment(ctx, appt.ID)
	require.NoError(t, err)
	assert.Equal(t, 50.0, stored.Amount)
}

func TestBookSlotRollsBackWhenAppointmentInsertFails(t *testing.T) {
	l, store, cache := newTestLedger(t)
	store.createErr = errors.New("connection reset")

	_, err := l.BookSlot(context.Background(), patient, doctorID, day, nine)
	assert.ErrorIs(t, err, ErrPersistenceFailure)
	assert.Equal(t, KindPersistenceFailure, KindOf(err))
	assert.Contains(t, err.Error(), "connection reset")

	assert.Empty(t, store.slots(doctorID))
	assert.Empty(t, store.appts)
	assert.Zero(t, cache.calls)
}

func TestBookSlotPassesThroughStoreSlotTaken(t *testing.T) {
	l, store, _ := newTestLedger(t)
	store.createErr = ErrSlotTaken

	_, err := l.BookSlot(context.Background(), patient, doctorID, day, nine)
	assert.ErrorIs(t, err, ErrSlotTaken)
	assert.Empty(t, store.slots(doctorID))
}

func TestCancelSlotFreesSlotForRebooking(t *testing.T) {
	l, store, cache := newTestLedger(t)
	ctx := context.Background()

	appt, err := l.BookSlot(ctx, patient, doctorID, day, nine)
	require.NoError(t, err)

	require.NoError(t, l.CancelSlot(ctx, appt.ID, asUser(patient)))
	assert.True(t, store.appts[appt.ID].Cancelled)
	assert.Empty(t, store.slots(doctorID)[day])
	assert.Equal(t, 2, cache.calls)

	again, err := l.BookSlot(ctx, patient, doctorID, day, nine)
	require.NoError(t, err)
	assert.NotEqual(t, appt.ID, again.ID)
	assert.Equal(t, []string{nine}, store.slots(doctorID)[day])
}

func TestCancelSlotIsIdempotent(t *testing.T) {
	l, store, _ := newTestLedger(t)
	ctx := context.Background()

	appt, err := l.BookSlot(ctx, patient, doctorID, day, nine)
	require.NoError(t, err)
	_, err = l.BookSlot(ctx, patient, doctorID, day, "10:00:00")
	require.NoError(t, err)

	require.NoError(t, l.CancelSlot(ctx, appt.ID, asUser(patient)))
	before := store.slots(doctorID)
	saves := store.saveCalls

	require.NoError(t, l.CancelSlot(ctx, appt.ID, asUser(patient)))
	assert.Equal(t, before, store.slots(doctorID))
	assert.Equal(t, saves, store.saveCalls)
}

func TestStaleCancellationDoesNotFreeRebookedSlot(t *testing.T) {
	l, store, _ := newTestLedger(t)
	ctx := context.Background()

	first, err := l.BookSlot(ctx, patient, doctorID, day, nine)
	require.NoError(t, err)
	require.NoError(t, l.CancelSlot(ctx, first.ID, asUser(patient)))

	_, err = l.BookSlot(ctx, patient+1, doctorID, day, nine)
	require.NoError(t, err)

	require.NoError(t, l.CancelSlot(ctx, first.ID, asAdmin))
	assert.Equal(t, []string{nine}, store.slots(doctorID)[day])
}

func TestCancelSlotWhenSlotAlreadyMissing(t *testing.T) {
	l, store, _ := newTestLedger(t)
	ctx := context.Background()

	appt, err := l.BookSlot(ctx, patient, doctorID, day, nine)
	require.NoError(t, err)
	store.doctors[doctorID].SlotsBooked = models.SlotMap{}

	require.NoError(t, l.CancelSlot(ctx, appt.ID, asDoctor(doctorID)))
	assert.True(t, store.appts[appt.ID].Cancelled)
}

func TestCancelSlotRejectsForeignCallers(t *testing.T) {
	tests := []struct {
		name   string
		caller models.Caller
	}{
		{name: "other patient", caller: asUser(patient + 1)},
		{name: "other doctor", caller: asDoctor(doctorID + 1)},
		{name: "patient id used as doctor", caller: asDoctor(patient)},
		{name: "unknown role", caller: models.Caller{ID: patient, Role: "nurse"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, store, _ := newTestLedger(t)
			ctx := context.Background()

			appt, err := l.BookSlot(ctx, patient, doctorID, day, nine)
			require.NoError(t, err)

			err = l.CancelSlot(ctx, appt.ID, tt.caller)
			assert.ErrorIs(t, err, ErrUnauthorized)
			assert.False(t, store.appts[appt.ID].Cancelled)
			assert.Equal(t, models.SlotMap{day: {nine}}, store.slots(doctorID))
		})
	}
}

func TestCancelSlotAllowedCallers(t *testing.T) {
	for _, caller := range []models.Caller{asUser(patient), asDoctor(doctorID), asAdmin} {
		t.Run(string(caller.Role), func(t *testing.T) {
			l, store, _ := newTestLedger(t)
			ctx := context.Background()

			appt, err := l.BookSlot(ctx, patient, doctorID, day, nine)
			require.NoError(t, err)

			require.NoError(t, l.CancelSlot(ctx, appt.ID, caller))
			assert.True(t, store.appts[appt.ID].Cancelled)
		})
	}
}

func TestCancelSlotUnknownAppointment(t *testing.T) {
	l, _, _ := newTestLedger(t)

	err := l.CancelSlot(context.Background(), 999, asAdmin)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestCancelSlotRollsBackWhenSlotWriteFails(t *testing.T) {
	l, store, _ := newTestLedger(t)
	ctx := context.Background()

	appt, err := l.BookSlot(ctx, patient, doctorID, day, nine)
	require.NoError(t, err)

	store.saveSlotsErr = errors.New("disk full")
	err = l.CancelSlot(ctx, appt.ID, asUser(patient))
	assert.ErrorIs(t, err, ErrPersistenceFailure)

	assert.False(t, store.appts[appt.ID].Cancelled)
	assert.Equal(t, models.SlotMap{day: {nine}}, store.slots(doctorID))
}

func TestCancelSlotForRemovedDoctor(t *testing.T) {
	l, store, _ := newTestLedger(t)
	ctx := context.Background()

	appt, err := l.BookSlot(ctx, patient, doctorID, day, nine)
	require.NoError(t, err)
	delete(store.doctors, doctorID)

	require.NoError(t, l.CancelSlot(ctx, appt.ID, asAdmin))
	assert.True(t, store.appts[appt.ID].Cancelled)
}

func TestCompleteAppointment(t *testing.T) {
	l, store, _ := newTestLedger(t)
	ctx := context.Background()

	appt, err := l.BookSlot(ctx, patient, doctorID, day, nine)
	require.NoError(t, err)

	assert.ErrorIs(t, l.Complete(ctx, appt.ID, asUser(patient)), ErrUnauthorized)
	assert.ErrorIs(t, l.Complete(ctx, appt.ID, asDoctor(doctorID+1)), ErrUnauthorized)
	assert.False(t, store.appts[appt.ID].IsCompleted)

	require.NoError(t, l.Complete(ctx, appt.ID, asDoctor(doctorID)))
	assert.True(t, store.appts[appt.ID].IsCompleted)
	assert.Equal(t, []string{nine}, store.slots(doctorID)[day])

	require.NoError(t, l.Complete(ctx, appt.ID, asAdmin))
	assert.ErrorIs(t, l.Complete(ctx, 999, asAdmin), ErrAppointmentNotFound)
}

func TestCompleteCancelledAppointmentFails(t *testing.T) {
	l, store, _ := newTestLedger(t)
	ctx := context.Background()

	appt, err := l.BookSlot(ctx, patient, doctorID, day, nine)
	require.NoError(t, err)
	require.NoError(t, l.CancelSlot(ctx, appt.ID, asUser(patient)))

	assert.ErrorIs(t, l.Complete(ctx, appt.ID, asAdmin), ErrAppointmentClosed)
	assert.False(t, store.appts[appt.ID].IsCompleted)
}

func TestListSlots(t *testing.T) {
	l, store, _ := newTestLedger(t)
	ctx := context.Background()

	_, err := l.BookSlot(ctx, patient, doctorID, day, nine)
	require.NoError(t, err)

	slots, err := l.ListSlots(ctx, doctorID)
	require.NoError(t, err)
	assert.Equal(t, models.SlotMap{day: {nine}}, slots)

	store.doctors[doctorID].SlotsBooked = nil
	slots, err = l.ListSlots(ctx, doctorID)
	require.NoError(t, err)
	assert.NotNil(t, slots)

	_, err = l.ListSlots(ctx, 42)
	assert.ErrorIs(t, err, ErrDoctorNotFound)
}

func TestCacheFailureDoesNotFailBooking(t *testing.T) {
	store := newMemStore()
	store.addDoctor(doctorID, 50, true)
	l := New(store, &countingCache{err: errors.New("redis down")}, logger.Discard())

	_, err := l.BookSlot(context.Background(), patient, doctorID, day, nine)
	assert.NoError(t, err)
}

package db

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/meinhoongagan/clinic-app/ledger"
	"github.com/meinhoongagan/clinic-app/logger"
	"github.com/meinhoongagan/clinic-app/models"
)

const (
	lockDoctorSQL      = `SELECT \* FROM "doctors" WHERE .* FOR UPDATE`
	lockAppointmentSQL = `SELECT \* FROM "appointments" WHERE .* FOR UPDATE`
	saveSlotsSQL       = `UPDATE "doctors" SET "slots_booked"=\$1`
	insertApptSQL      = `INSERT INTO "appointments"`
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	conn, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Discard,
	})
	require.NoError(t, err)
	return conn, mock
}

func doctorRows(id uint, fees float64, available bool, slots string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "fees", "available", "slots_booked"}).
		AddRow(id, "Dr. Ray", fees, available, slots)
}

func appointmentRows(id, userID, docID uint, date, clock string, cancelled bool) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "user_id", "doc_id", "slot_date", "slot_time", "amount", "cancelled", "payment", "is_completed"}).
		AddRow(id, userID, docID, date, clock, 50.0, cancelled, false, false)
}

func TestBookSlotCommitsMapAndAppointmentTogether(t *testing.T) {
	conn, mock := setupMockDB(t)
	l := ledger.New(NewSlotStore(conn), nil, logger.Discard())

	mock.ExpectBegin()
	mock.ExpectQuery(lockDoctorSQL).
		WillReturnRows(doctorRows(7, 50, true, `{"2024-01-05":["10:00:00"]}`))
	mock.ExpectExec(saveSlotsSQL).
		WithArgs(`{"2024-01-05":["10:00:00","14:30:00"]}`, sqlmock.AnyArg(), 7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(insertApptSQL).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))
	mock.ExpectCommit()

	appt, err := l.BookSlot(context.Background(), 3, 7, "2024-01-05", "14:30:00")
	require.NoError(t, err)
	assert.Equal(t, uint(42), appt.ID)
	assert.Equal(t, 50.0, appt.Amount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookSlotTakenSlotRollsBack(t *testing.T) {
	conn, mock := setupMockDB(t)
	l := ledger.New(NewSlotStore(conn), nil, logger.Discard())

	mock.ExpectBegin()
	mock.ExpectQuery(lockDoctorSQL).
		WillReturnRows(doctorRows(7, 50, true, `{"2024-01-05":["14:30:00"]}`))
	mock.ExpectRollback()

	_, err := l.BookSlot(context.Background(), 3, 7, "2024-01-05", "14:30:00")
	assert.ErrorIs(t, err, ledger.ErrSlotTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookSlotDuplicateKeyIsSlotTaken(t *testing.T) {
	conn, mock := setupMockDB(t)
	l := ledger.New(NewSlotStore(conn), nil, logger.Discard())

	mock.ExpectBegin()
	mock.ExpectQuery(lockDoctorSQL).
		WillReturnRows(doctorRows(7, 50, true, `{}`))
	mock.ExpectExec(saveSlotsSQL).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(insertApptSQL).
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"})
	mock.ExpectRollback()

	_, err := l.BookSlot(context.Background(), 3, 7, "2024-01-05", "14:30:00")
	assert.ErrorIs(t, err, ledger.ErrSlotTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookSlotUnknownDoctor(t *testing.T) {
	conn, mock := setupMockDB(t)
	l := ledger.New(NewSlotStore(conn), nil, logger.Discard())

	mock.ExpectBegin()
	mock.ExpectQuery(lockDoctorSQL).WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	_, err := l.BookSlot(context.Background(), 3, 99, "2024-01-05", "14:30:00")
	assert.ErrorIs(t, err, ledger.ErrDoctorNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookSlotDatabaseFailure(t *testing.T) {
	conn, mock := setupMockDB(t)
	l := ledger.New(NewSlotStore(conn), nil, logger.Discard())

	mock.ExpectBegin()
	mock.ExpectQuery(lockDoctorSQL).WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	_, err := l.BookSlot(context.Background(), 3, 7, "2024-01-05", "14:30:00")
	assert.ErrorIs(t, err, ledger.ErrPersistenceFailure)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelSlotFlagsAndFreesInOneTransaction(t *testing.T) {
	conn, mock := setupMockDB(t)
	l := ledger.New(NewSlotStore(conn), nil, logger.Discard())

	mock.ExpectQuery(`SELECT \* FROM "appointments"`).
		WillReturnRows(appointmentRows(42, 3, 7, "2024-01-05", "14:30:00", false))
	mock.ExpectBegin()
	mock.ExpectQuery(lockDoctorSQL).
		WillReturnRows(doctorRows(7, 50, true, `{"2024-01-05":["10:00:00","14:30:00"]}`))
	mock.ExpectQuery(lockAppointmentSQL).
		WillReturnRows(appointmentRows(42, 3, 7, "2024-01-05", "14:30:00", false))
	mock.ExpectExec(`UPDATE "appointments" SET "cancelled"=\$1`).
		WithArgs(true, sqlmock.AnyArg(), 42).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(saveSlotsSQL).
		WithArgs(`{"2024-01-05":["10:00:00"]}`, sqlmock.AnyArg(), 7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := l.CancelSlot(context.Background(), 42, models.Caller{ID: 3, Role: models.RoleUser})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelSlotAlreadyCancelledTouchesNothing(t *testing.T) {
	conn, mock := setupMockDB(t)
	l := ledger.New(NewSlotStore(conn), nil, logger.Discard())

	mock.ExpectQuery(`SELECT \* FROM "appointments"`).
		WillReturnRows(appointmentRows(42, 3, 7, "2024-01-05", "14:30:00", true))

	err := l.CancelSlot(context.Background(), 42, models.Caller{Role: models.RoleAdmin})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPruneSlots(t *testing.T) {
	conn, mock := setupMockDB(t)
	store := NewSlotStore(conn)

	mock.ExpectQuery(`SELECT "id" FROM "doctors"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1).AddRow(2))

	mock.ExpectBegin()
	mock.ExpectQuery(lockDoctorSQL).
		WillReturnRows(doctorRows(1, 40, true, `{"2024-01-01":["09:00:00"],"2024-01-09":["10:00:00"],"2024-01-10":[]}`))
	mock.ExpectExec(saveSlotsSQL).
		WithArgs(`{"2024-01-09":["10:00:00"]}`, sqlmock.AnyArg(), 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	mock.ExpectBegin()
	mock.ExpectQuery(lockDoctorSQL).
		WillReturnRows(doctorRows(2, 40, true, `{"2024-02-01":["09:00:00"]}`))
	mock.ExpectCommit()

	removed, err := store.PruneSlots(context.Background(), "2024-01-09")
	require.NoError(t, err)
	assert.Equal(t, 2, removed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteDoctorWithActiveAppointments(t *testing.T) {
	conn, mock := setupMockDB(t)
	repo := NewDoctorRepository(conn)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT "id" FROM "doctors" WHERE .* FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "appointments"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectRollback()

	err := repo.Delete(context.Background(), 7)
	assert.ErrorIs(t, err, ErrDoctorBusy)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteDoctorWithoutActiveAppointments(t *testing.T) {
	conn, mock := setupMockDB(t)
	repo := NewDoctorRepository(conn)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT "id" FROM "doctors" WHERE .* FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "appointments"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(`UPDATE "doctors" SET "deleted_at"=\$1`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Delete(context.Background(), 7))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleAvailability(t *testing.T) {
	conn, mock := setupMockDB(t)
	repo := NewDoctorRepository(conn)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT "id","available" FROM "doctors" WHERE .* FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "available"}).AddRow(7, true))
	mock.ExpectExec(`UPDATE "doctors" SET "available"=\$1`).
		WithArgs(false, sqlmock.AnyArg(), 7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	available, err := repo.ToggleAvailability(context.Background(), 7)
	require.NoError(t, err)
	assert.False(t, available)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	conn, mock := setupMockDB(t)
	repo := NewUserRepository(conn)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "users"`).
		WillReturnError(&pgconn.PgError{Code: "23505"})
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &models.User{Name: "Ann", Email: "ann@example.com", Password: "hash"})
	assert.ErrorIs(t, err, ErrEmailTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteDiagnosisOfAnotherDoctor(t *testing.T) {
	conn, mock := setupMockDB(t)
	repo := NewDiagnosisRepository(conn)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "diagnoses" WHERE`).
		WithArgs(5, 9).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.Delete(context.Background(), 5, 9)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

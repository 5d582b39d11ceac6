package utils

import (
	"net/http"
	"srs/src/config"
	"srs/src/db"
	"srs/src/types"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) sqlmock.Sqlmock {
	t.Helper()
	conn, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	gdb, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 conn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
	require.NoError(t, err)
	db.NewDB(gdb)
	return mock
}

func seatRow(id uint, status string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "seat_number", "location", "status"}).
		AddRow(id, "A-01", "3F", status)
}

func reservationRow(id uint, status string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "seat_id", "intern_id", "date", "start_time", "end_time", "status"}).
		AddRow(id, 2, 1, "2025-03-10", "09:00:00", "10:00:00", status)
}

func countRow(n int64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"count"}).AddRow(n)
}

// futureBody builds a request far enough out to clear the lead-time rule.
func futureBody() *types.ReserveSeatRequestBody {
	start := time.Now().Add(3 * time.Hour)
	end := start.Add(time.Hour)
	return &types.ReserveSeatRequestBody{
		InternID:  1,
		SeatID:    2,
		Date:      start.Format(config.DATE_FORMAT),
		StartTime: start.Format("15:04"),
		EndTime:   end.Format("15:04"),
	}
}

func TestValidateLeadTime(t *testing.T) {
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.Local)

	assert.NoError(t, ValidateLeadTime("2025-03-10", "09:30", now))
	assert.NoError(t, ValidateLeadTime("2025-03-10", "09:00", now))
	assert.ErrorIs(t, ValidateLeadTime("2025-03-10", "08:30", now), ErrLeadTime)
	assert.ErrorIs(t, ValidateLeadTime("2025-03-10", "07:00", now), ErrPastStart)
	assert.ErrorIs(t, ValidateLeadTime("2025-03-09", "23:59", now), ErrPastStart)
	assert.Error(t, ValidateLeadTime("2025-03-10", "bogus", now))
}

func TestCreateReservationLeadTime(t *testing.T) {
	soon := time.Now().Add(30 * time.Minute)
	body := &types.ReserveSeatRequestBody{
		InternID:  1,
		SeatID:    2,
		Date:      soon.Format(config.DATE_FORMAT),
		StartTime: soon.Format("15:04"),
		EndTime:   soon.Add(time.Hour).Format("15:04"),
	}
	_, status, err := CreateReservation(body)
	assert.ErrorIs(t, err, ErrLeadTime)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestCreateReservationDailyLimit(t *testing.T) {
	mock := setupMockDB(t)
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "seats"`).WillReturnRows(seatRow(2, "available"))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "reservations"`).WillReturnRows(countRow(1))
	mock.ExpectRollback()

	_, status, err := CreateReservation(futureBody())
	assert.ErrorIs(t, err, ErrDailyLimit)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateReservationSeatConflict(t *testing.T) {
	mock := setupMockDB(t)
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "seats"`).WillReturnRows(seatRow(2, "available"))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "reservations"`).WillReturnRows(countRow(0))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "reservations"`).WillReturnRows(countRow(1))
	mock.ExpectRollback()

	_, status, err := CreateReservation(futureBody())
	assert.ErrorIs(t, err, ErrSeatConflict)
	assert.Equal(t, http.StatusConflict, status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateReservationDisabledSeat(t *testing.T) {
	mock := setupMockDB(t)
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "seats"`).WillReturnRows(seatRow(2, "disabled"))
	mock.ExpectRollback()

	_, status, err := CreateReservation(futureBody())
	assert.ErrorIs(t, err, ErrSeatDisabled)
	assert.Equal(t, http.StatusConflict, status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateReservationSucceeds(t *testing.T) {
	mock := setupMockDB(t)
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "seats"`).WillReturnRows(seatRow(2, "available"))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "reservations"`).WillReturnRows(countRow(0))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "reservations"`).WillReturnRows(countRow(0))
	mock.ExpectQuery(`INSERT INTO "reservations"`).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))
	mock.ExpectCommit()

	reservation, status, err := CreateReservation(futureBody())
	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, status)
	assert.Equal(t, uint(11), reservation.ID)
	assert.Equal(t, string(types.RESERVATION_ACTIVE), reservation.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelReservationNotFound(t *testing.T) {
	mock := setupMockDB(t)
	mock.ExpectQuery(`SELECT (.+) FROM "reservations"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "seat_id", "intern_id", "date", "start_time", "end_time", "status"}))

	_, status, err := CancelReservation(99, 1)
	assert.ErrorIs(t, err, ErrReservationNotFound)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestCancelReservationAlreadyCancelled(t *testing.T) {
	mock := setupMockDB(t)
	mock.ExpectQuery(`SELECT (.+) FROM "reservations"`).WillReturnRows(reservationRow(7, "cancelled"))

	_, status, err := CancelReservation(7, 1)
	assert.ErrorIs(t, err, ErrNotActive)
	assert.Equal(t, http.StatusConflict, status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelReservationSucceeds(t *testing.T) {
	mock := setupMockDB(t)
	mock.ExpectQuery(`SELECT (.+) FROM "reservations"`).WillReturnRows(reservationRow(7, "active"))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "reservations" SET`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	reservation, status, err := CancelReservation(7, 1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, uint(7), reservation.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAvailableSeats(t *testing.T) {
	mock := setupMockDB(t)
	rows := sqlmock.NewRows([]string{"id", "seat_number", "location", "status"}).
		AddRow(1, "A-01", "3F", "available").
		AddRow(2, "A-02", "3F", "available")
	mock.ExpectQuery(`SELECT (.+) FROM "seats" WHERE location`).WillReturnRows(rows)

	seats, status, err := AvailableSeats("3F", "2025-03-10", "09:00", "10:00")
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, seats, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

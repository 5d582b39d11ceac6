package utils

import (
	"database/sql"
	"errors"
	"log"
	"net/http"
	"srs/src/db"
	"srs/src/models"
	"srs/src/types"
	"time"

	"gorm.io/gorm"
)

const ReservationLeadTime = 60 * time.Minute

var (
	ErrSeatNotFound        = errors.New("seat not found")
	ErrSeatDisabled        = errors.New("seat is not available for booking")
	ErrSeatConflict        = errors.New("seat is already reserved for the requested time")
	ErrDailyLimit          = errors.New("an active reservation already exists for this date")
	ErrLeadTime            = errors.New("reservations must be made at least 60 minutes in advance")
	ErrPastStart           = errors.New("reservation start time is in the past")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrNotActive           = errors.New("reservation is not active")
)

// ValidateLeadTime rejects reservations starting in the past or less than
// ReservationLeadTime from now.
func ValidateLeadTime(date, start string, now time.Time) error {
	instant, err := ParseStartInstant(date, start)
	if err != nil {
		return err
	}
	if instant.Before(now) {
		return ErrPastStart
	}
	if instant.Before(now.Add(ReservationLeadTime)) {
		return ErrLeadTime
	}
	return nil
}

// AvailableSeats lists bookable seats on a floor with no active reservation
// overlapping the requested [start, end) window.
func AvailableSeats(floor, date, start, end string) ([]models.Seat, int, error) {
	start = NormalizeClock(start)
	end = NormalizeClock(end)
	seats := []models.Seat{}
	err := db.GetDb().
		Where("location = ? AND status = ?", floor, types.SEAT_AVAILABLE).
		Where("NOT EXISTS (SELECT 1 FROM reservations r WHERE r.seat_id = seats.id AND r.date = ? AND r.status = ? AND r.start_time < ? AND r.end_time > ? AND r.deleted_at IS NULL)", date, types.RESERVATION_ACTIVE, end, start).
		Order("seat_number").
		Find(&seats).
		Error
	if err != nil {
		log.Printf("Could not query available seats: %s\n", err.Error())
		return nil, http.StatusInternalServerError, err
	}
	return seats, http.StatusOK, nil
}

// CreateReservation runs the full rule set inside one serializable
// transaction so concurrent requests for the same seat or day cannot both
// pass validation.
func CreateReservation(body *types.ReserveSeatRequestBody) (*models.Reservation, int, error) {
	start := NormalizeClock(body.StartTime)
	end := NormalizeClock(body.EndTime)
	if err := ValidateLeadTime(body.Date, start, time.Now()); err != nil {
		return nil, http.StatusBadRequest, err
	}
	reservation := &models.Reservation{
		SeatID:    body.SeatID,
		InternID:  body.InternID,
		Date:      body.Date,
		StartTime: start,
		EndTime:   end,
		Status:    string(types.RESERVATION_ACTIVE),
	}
	status := http.StatusCreated
	err := db.GetDb().Transaction(func(tx *gorm.DB) error {
		var seat models.Seat
		if err := tx.First(&seat, body.SeatID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				status = http.StatusNotFound
				return ErrSeatNotFound
			}
			status = http.StatusInternalServerError
			return err
		}
		if seat.Status != string(types.SEAT_AVAILABLE) {
			status = http.StatusConflict
			return ErrSeatDisabled
		}
		var daily int64
		if err := tx.Model(&models.Reservation{}).Where("intern_id = ? AND date = ? AND status = ?", body.InternID, body.Date, types.RESERVATION_ACTIVE).Count(&daily).Error; err != nil {
			status = http.StatusInternalServerError
			return err
		}
		if daily > 0 {
			status = http.StatusBadRequest
			return ErrDailyLimit
		}
		var conflicts int64
		if err := tx.Model(&models.Reservation{}).Where("seat_id = ? AND date = ? AND status = ? AND start_time < ? AND end_time > ?", body.SeatID, body.Date, types.RESERVATION_ACTIVE, end, start).Count(&conflicts).Error; err != nil {
			status = http.StatusInternalServerError
			return err
		}
		if conflicts > 0 {
			status = http.StatusConflict
			return ErrSeatConflict
		}
		if err := tx.Create(reservation).Error; err != nil {
			status = http.StatusInternalServerError
			return err
		}
		return nil
	}, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return nil, status, err
	}
	return reservation, status, nil
}

// EditReservation re-runs every create-time rule against the new values,
// ignoring the reservation being edited.
func EditReservation(body *types.EditReservationRequestBody, internID uint) (*models.Reservation, int, error) {
	start := NormalizeClock(body.StartTime)
	end := NormalizeClock(body.EndTime)
	if err := ValidateLeadTime(body.Date, start, time.Now()); err != nil {
		return nil, http.StatusBadRequest, err
	}
	reservation := &models.Reservation{}
	status := http.StatusOK
	err := db.GetDb().Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND intern_id = ?", body.ID, internID).First(reservation).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				status = http.StatusNotFound
				return ErrReservationNotFound
			}
			status = http.StatusInternalServerError
			return err
		}
		if reservation.Status != string(types.RESERVATION_ACTIVE) {
			status = http.StatusConflict
			return ErrNotActive
		}
		var seat models.Seat
		if err := tx.First(&seat, body.SeatID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				status = http.StatusNotFound
				return ErrSeatNotFound
			}
			status = http.StatusInternalServerError
			return err
		}
		if seat.Status != string(types.SEAT_AVAILABLE) {
			status = http.StatusConflict
			return ErrSeatDisabled
		}
		var daily int64
		if err := tx.Model(&models.Reservation{}).Where("intern_id = ? AND date = ? AND status = ? AND id <> ?", internID, body.Date, types.RESERVATION_ACTIVE, body.ID).Count(&daily).Error; err != nil {
			status = http.StatusInternalServerError
			return err
		}
		if daily > 0 {
			status = http.StatusBadRequest
			return ErrDailyLimit
		}
		var conflicts int64
		if err := tx.Model(&models.Reservation{}).Where("seat_id = ? AND date = ? AND status = ? AND id <> ? AND start_time < ? AND end_time > ?", body.SeatID, body.Date, types.RESERVATION_ACTIVE, body.ID, end, start).Count(&conflicts).Error; err != nil {
			status = http.StatusInternalServerError
			return err
		}
		if conflicts > 0 {
			status = http.StatusConflict
			return ErrSeatConflict
		}
		updates := map[string]any{
			"seat_id":    body.SeatID,
			"date":       body.Date,
			"start_time": start,
			"end_time":   end,
		}
		if err := tx.Model(reservation).Updates(updates).Error; err != nil {
			status = http.StatusInternalServerError
			return err
		}
		return nil
	}, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return nil, status, err
	}
	return reservation, status, nil
}

// CancelReservation marks an active reservation cancelled. Cancelling a
// reservation that is already cancelled is reported as a conflict.
func CancelReservation(id, internID uint) (*models.Reservation, int, error) {
	reservation := &models.Reservation{}
	if err := db.GetDb().Where("id = ? AND intern_id = ?", id, internID).First(reservation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, http.StatusNotFound, ErrReservationNotFound
		}
		return nil, http.StatusInternalServerError, err
	}
	if reservation.Status != string(types.RESERVATION_ACTIVE) {
		return nil, http.StatusConflict, ErrNotActive
	}
	if err := db.GetDb().Model(reservation).Update("status", types.RESERVATION_CANCELLED).Error; err != nil {
		return nil, http.StatusInternalServerError, err
	}
	return reservation, http.StatusOK, nil
}

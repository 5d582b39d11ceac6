package common

import (
	"srs/src/models"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReservationCalendarEvent(t *testing.T) {
	r := &models.Reservation{
		ID:        4,
		Date:      "2025-06-02",
		StartTime: "09:00:00",
		EndTime:   "11:30:00",
		Seat:      &models.Seat{SeatNumber: "2A", Location: "2nd Floor"},
	}
	event := reservationCalendarEvent(r)
	require.NotNil(t, event)
	assert.Equal(t, "Seat 2A reserved", event.Summary)
	assert.Equal(t, "2nd Floor", event.Location)
	assert.Contains(t, event.Start.DateTime, "2025-06-02T09:00:00")
	assert.Contains(t, event.End.DateTime, "2025-06-02T11:30:00")
}

func TestReservationCalendarEventSkipsIncompleteRows(t *testing.T) {
	assert.Nil(t, reservationCalendarEvent(&models.Reservation{Date: "2025-06-02", StartTime: "09:00:00", EndTime: "10:00:00"}))
	assert.Nil(t, reservationCalendarEvent(&models.Reservation{
		Date:      "not-a-date",
		StartTime: "09:00:00",
		EndTime:   "10:00:00",
		Seat:      &models.Seat{SeatNumber: "2A"},
	}))
}

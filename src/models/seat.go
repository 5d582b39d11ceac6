package models

import "srs/src/types"

type Seat struct {
	ID         uint   `gorm:"primarykey" json:"id"`
	SeatNumber string `gorm:"uniqueIndex" json:"seat_number"`
	Location   string `gorm:"index" json:"location"`
	Status     string `gorm:"default:'available'" json:"status,omitempty"`

	Reservations []Reservation `gorm:"foreignKey:seat_id" json:"reservations,omitempty"`

	types.Timestamps
}

package models

import "srs/src/types"

type Reservation struct {
	ID       uint `gorm:"primarykey" json:"id"`
	SeatID   uint `gorm:"index:idx_seat_date" json:"seat_id,omitempty"`
	InternID uint `gorm:"index:idx_intern_date" json:"intern_id,omitempty"`
	// Date is YYYY-MM-DD; StartTime/EndTime are zero-padded HH:MM:SS so the
	// half-open interval test works on plain string comparison.
	Date      string `gorm:"index:idx_seat_date;index:idx_intern_date" json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Status    string `gorm:"default:'active'" json:"status,omitempty"`

	Seat   *Seat `gorm:"foreignKey:seat_id" json:"seat,omitempty"`
	Intern *User `gorm:"foreignKey:intern_id" json:"intern,omitempty"`

	types.Timestamps
}

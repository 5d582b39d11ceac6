package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

type Timestamps struct {
	CreatedAt time.Time      `gorm:"autoCreateTime:nano" json:"created_at,omitempty"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime:nano" json:"updated_at,omitempty"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty,omitnil"`
}

type JSONB map[string]any

func (a JSONB) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a)
	return string(valueString), err
}
func (a *JSONB) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	return nil
}

type Role string

const (
	ROLE_INTERN Role = "intern"
	ROLE_ADMIN  Role = "admin"
)

type SeatStatus string

const (
	SEAT_AVAILABLE SeatStatus = "available"
	SEAT_DISABLED  SeatStatus = "disabled"
)

type ReservationStatus string

const (
	RESERVATION_ACTIVE    ReservationStatus = "active"
	RESERVATION_CANCELLED ReservationStatus = "cancelled"
)

type QRSessionStatus string

const (
	QR_SESSION_PENDING   QRSessionStatus = "pending"
	QR_SESSION_CODE_SENT QRSessionStatus = "code_sent"
	QR_SESSION_NOT_FOUND QRSessionStatus = "not_found"
	QR_SESSION_EXPIRED   QRSessionStatus = "expired"
)

type RegisterUserRequestBody struct {
	Name     string  `json:"name" binding:"required"`
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required,min=6"`
	Role     string  `json:"role" binding:"required,oneof=intern admin"`
	Phone    *string `json:"phone,omitempty"`
}

type LoginRequestBody struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UserByEmailRequestBody struct {
	Email string `json:"email" binding:"required,email"`
}

type CreateSeatRequestBody struct {
	SeatNumber string `json:"seat_number" binding:"required"`
	Location   string `json:"location" binding:"required"`
	AdminEmail string `json:"admin_email,omitempty"`
}

type UpdateSeatRequestBody struct {
	SeatNumber string `json:"seat_number" binding:"required"`
	Location   string `json:"location" binding:"required"`
	Status     string `json:"status" binding:"required,oneof=available disabled"`
	AdminEmail string `json:"admin_email,omitempty"`
}

type ReserveSeatRequestBody struct {
	InternID  uint   `json:"intern_id" binding:"required"`
	SeatID    uint   `json:"seat_id" binding:"required"`
	Date      string `json:"date" binding:"required,resdate"`
	StartTime string `json:"start_time" binding:"required,clock"`
	EndTime   string `json:"end_time" binding:"required,clock,gtclock=StartTime"`
}

type EditReservationRequestBody struct {
	ID        uint   `json:"id" binding:"required"`
	SeatID    uint   `json:"seat_id" binding:"required"`
	Date      string `json:"date" binding:"required,resdate"`
	StartTime string `json:"start_time" binding:"required,clock"`
	EndTime   string `json:"end_time" binding:"required,clock,gtclock=StartTime"`
}

type AvailabilityQueryParams struct {
	Floor string `form:"floor" binding:"required"`
	Date  string `form:"date" binding:"required"`
	Start string `form:"start" binding:"required"`
	End   string `form:"end" binding:"required"`
}

type SeatMapQueryParams struct {
	Floor  string `form:"floor" binding:"required"`
	UserID uint   `form:"userId,omitempty"`
	Date   string `form:"date,omitempty"`
}

type QRSubmitRequestBody struct {
	SessionID string `json:"session_id" binding:"required"`
	AdminID   uint   `json:"admin_id" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
}

type QRVerifyRequestBody struct {
	SessionID string `json:"session_id" binding:"required"`
	Code      string `json:"code" binding:"required,len=6"`
}

type WebAuthnUserRequestBody struct {
	UserID uint `json:"user_id" binding:"required"`
}

type SimpleRequestParams struct {
	ID uint `uri:"id" binding:"required"`
}

type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Handler consumes one raw queue message body.
type Handler func(payload string)

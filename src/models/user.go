package models

import (
	"srs/src/types"
	"strconv"

	"github.com/go-webauthn/webauthn/webauthn"
)

type User struct {
	ID       uint    `gorm:"primarykey" json:"id"`
	Name     string  `json:"name,omitempty"`
	Email    string  `gorm:"uniqueIndex" json:"email,omitempty"`
	Password string  `json:"-"`
	Role     string  `gorm:"default:'intern'" json:"role,omitempty"`
	Phone    *string `json:"phone,omitempty"`

	Reservations []Reservation `gorm:"foreignKey:intern_id" json:"reservations,omitempty"`

	// Loaded on demand by utils.GetCredentials, never persisted through this field.
	StoredCredentials []webauthn.Credential `gorm:"-" json:"-"`

	types.Timestamps
}

func (u User) WebAuthnID() []byte {
	return []byte(strconv.FormatUint(uint64(u.ID), 10))
}

func (u User) WebAuthnName() string {
	return u.Email
}

func (u User) WebAuthnDisplayName() string {
	return u.Name
}

func (u User) WebAuthnCredentials() []webauthn.Credential {
	return u.StoredCredentials
}

func (u User) WebAuthnIcon() string {
	return ""
}

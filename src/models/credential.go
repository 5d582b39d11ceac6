package models

import (
	"encoding/json"
	"log"
	"srs/src/types"

	"github.com/go-webauthn/webauthn/webauthn"
)

// Credential is one stored WebAuthn credential. RawCreds keeps the library's
// full credential record; the flat columns exist for lookups and reports.
type Credential struct {
	ID        string       `gorm:"primarykey;type:text" json:"-"`
	UserID    uint         `gorm:"index" json:"-"`
	PublicKey string       `gorm:"->;<-:create" json:"-"`
	Counter   uint32       `json:"-"`
	RawCreds  *types.JSONB `gorm:"type:jsonb" json:"-"`

	Owner *User `gorm:"foreignKey:user_id" json:"-"`

	types.Timestamps
}

func (c Credential) TableName() string {
	return "webauthn_credentials"
}

func (c *Credential) UnmarshalRawCredentials() (*webauthn.Credential, error) {
	b, err := json.Marshal(c.RawCreds)
	if err != nil {
		log.Printf("Could not marshal json: %s\n", err.Error())
		return nil, err
	}
	var rc webauthn.Credential
	if err := json.Unmarshal(b, &rc); err != nil {
		log.Printf("Could not unmarshal to RawCredentials: %s\n", err.Error())
		return nil, err
	}
	return &rc, nil
}

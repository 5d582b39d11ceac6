package utils

import (
	"log"
	"srs/src/db"
	"srs/src/models"

	"github.com/go-webauthn/webauthn/webauthn"
)

// GetCredentials loads every stored WebAuthn credential for a user and
// attaches them to StoredCredentials.
func GetCredentials(user *models.User) error {
	creds := []models.Credential{}
	if err := db.GetDb().Where(&models.Credential{UserID: user.ID}).Find(&creds).Error; err != nil {
		log.Printf("Could not load credentials for user %d: %s\n", user.ID, err.Error())
		return err
	}
	stored := make([]webauthn.Credential, 0, len(creds))
	for _, cred := range creds {
		rc, err := cred.UnmarshalRawCredentials()
		if err != nil {
			continue
		}
		stored = append(stored, *rc)
	}
	user.StoredCredentials = stored
	return nil
}

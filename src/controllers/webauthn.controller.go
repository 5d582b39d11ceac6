package controllers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"srs/src/db"
	"srs/src/lib"
	"srs/src/models"
	"srs/src/types"
	"srs/src/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-webauthn/webauthn/protocol"
	"github.com/go-webauthn/webauthn/webauthn"
	"gorm.io/gorm"
)

var ErrNoCredentials = errors.New("no credentials registered")

func loadUserWithCredentials(userId uint) (*models.User, error) {
	var user models.User
	if err := db.GetDb().
		Model(&models.User{}).
		Where(&models.User{ID: userId}).
		First(&user).
		Error; err != nil {
		return nil, err
	}
	if err := utils.GetCredentials(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

func WebAuthnRegisterStart(ctx *gin.Context) (*protocol.CredentialCreation, int, error) {
	var body types.WebAuthnUserRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		return nil, http.StatusBadRequest, err
	}
	user, err := loadUserWithCredentials(body.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, http.StatusNotFound, ErrUserNotFound
		}
		return nil, http.StatusInternalServerError, err
	}
	wa, err := lib.GetWebAuthn()
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}
	opts, ses, err := wa.BeginRegistration(*user)
	if err != nil {
		log.Printf("Could not begin passkey registration: %s\n", err.Error())
		return nil, http.StatusInternalServerError, err
	}
	rd := lib.GetRedisClient()
	rd.JSONSet(context.Background(), fmt.Sprintf("%d:passkey:register", user.ID), "$", ses)
	return opts, http.StatusOK, nil
}

func WebAuthnRegisterFinish(ctx *gin.Context) (*models.Credential, int, error) {
	var query struct {
		UserID uint `form:"user_id" binding:"required"`
	}
	if err := ctx.ShouldBindQuery(&query); err != nil {
		return nil, http.StatusBadRequest, err
	}
	user, err := loadUserWithCredentials(query.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, http.StatusNotFound, ErrUserNotFound
		}
		return nil, http.StatusInternalServerError, err
	}
	rd := lib.GetRedisClient()
	val, err := rd.JSONGet(context.Background(), fmt.Sprintf("%d:passkey:register", user.ID)).Result()
	if err != nil || val == "" {
		return nil, http.StatusInternalServerError, errors.New("registration session not found")
	}
	var ses webauthn.SessionData
	json.Unmarshal([]byte(val), &ses)
	wa, err := lib.GetWebAuthn()
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}
	credential, err := wa.FinishRegistration(*user, ses, ctx.Request)
	if err != nil {
		log.Printf("Passkey registration failed: %s\n", err.Error())
		return nil, http.StatusBadRequest, err
	}

	raw := types.JSONB{}
	b, _ := json.Marshal(credential)
	json.Unmarshal(b, &raw)
	stored := models.Credential{
		ID:        base64.RawURLEncoding.EncodeToString(credential.ID),
		UserID:    user.ID,
		PublicKey: base64.RawURLEncoding.EncodeToString(credential.PublicKey),
		Counter:   credential.Authenticator.SignCount,
		RawCreds:  &raw,
	}
	if err := db.GetDb().Save(&stored).Error; err != nil {
		log.Printf("Could not persist credential: %s\n", err.Error())
		return nil, http.StatusInternalServerError, err
	}
	return &stored, http.StatusCreated, nil
}

func WebAuthnLoginStart(ctx *gin.Context) (*protocol.CredentialAssertion, int, error) {
	var body types.WebAuthnUserRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		return nil, http.StatusBadRequest, err
	}
	user, err := loadUserWithCredentials(body.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, http.StatusNotFound, ErrUserNotFound
		}
		return nil, http.StatusInternalServerError, err
	}
	if len(user.StoredCredentials) == 0 {
		return nil, http.StatusUnauthorized, ErrNoCredentials
	}
	wa, err := lib.GetWebAuthn()
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}
	opts, ses, err := wa.BeginLogin(*user)
	if err != nil {
		log.Printf("Could not initialize login with passkey: %s\n", err.Error())
		return nil, http.StatusInternalServerError, err
	}
	rd := lib.GetRedisClient()
	rd.JSONSet(context.Background(), fmt.Sprintf("%d:passkey:login", user.ID), "$", ses)
	return opts, http.StatusOK, nil
}

func WebAuthnLoginFinish(ctx *gin.Context) (gin.H, int, error) {
	var query struct {
		UserID uint `form:"user_id" binding:"required"`
	}
	if err := ctx.ShouldBindQuery(&query); err != nil {
		return nil, http.StatusBadRequest, err
	}
	user, err := loadUserWithCredentials(query.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, http.StatusNotFound, ErrUserNotFound
		}
		return nil, http.StatusInternalServerError, err
	}
	rd := lib.GetRedisClient()
	val, err := rd.JSONGet(context.Background(), fmt.Sprintf("%d:passkey:login", user.ID)).Result()
	if err != nil || val == "" {
		return nil, http.StatusInternalServerError, errors.New("login session not found")
	}
	var ses webauthn.SessionData
	json.Unmarshal([]byte(val), &ses)
	wa, err := lib.GetWebAuthn()
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}
	credential, err := wa.FinishLogin(*user, ses, ctx.Request)
	if err != nil {
		log.Printf("Passkey login failed: %s\n", err.Error())
		return nil, http.StatusUnauthorized, err
	}
	if err := db.GetDb().
		Model(&models.Credential{}).
		Where("id = ?", base64.RawURLEncoding.EncodeToString(credential.ID)).
		Update("counter", credential.Authenticator.SignCount).
		Error; err != nil {
		log.Printf("Could not update credential counter: %s\n", err.Error())
	}
	token, err := utils.GenerateJWT(user.Email, user.ID, user.Role)
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}
	go func() {
		if _, err := rd.JSONSet(context.Background(), fmt.Sprintf("%d:user", user.ID), "$", user).Result(); err != nil {
			log.Printf("[redis] Error updating user cache: %s\n", err.Error())
		}
	}()
	return gin.H{"token": token, "user": user}, http.StatusOK, nil
}

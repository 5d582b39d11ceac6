package controllers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"srs/src/common"
	"srs/src/db"
	"srs/src/lib"
	"srs/src/models"
	"srs/src/types"
	"srs/src/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
)

// GoogleAuthPassword marks accounts provisioned through google-login; they
// have no usable local password.
const GoogleAuthPassword = "google_auth"

func AuthRegister(ctx *gin.Context) (*models.User, int, error) {
	var body types.RegisterUserRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		return nil, http.StatusBadRequest, err
	}
	var existing models.User
	err := db.GetDb().Where("email = ?", body.Email).First(&existing).Error
	if err == nil {
		return nil, http.StatusConflict, ErrEmailTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, http.StatusInternalServerError, err
	}
	hash, err := utils.HashPassword(body.Password)
	if err != nil {
		log.Printf("Could not hash password: %s\n", err.Error())
		return nil, http.StatusInternalServerError, err
	}
	user := models.User{
		Name:     body.Name,
		Email:    body.Email,
		Password: hash,
		Role:     body.Role,
		Phone:    body.Phone,
	}
	if err := db.GetDb().Create(&user).Error; err != nil {
		log.Printf("Error creating user: %s\n", err.Error())
		return nil, http.StatusInternalServerError, err
	}
	go common.NotifyUserRegistration(&user)
	return &user, http.StatusCreated, nil
}

func AuthLogin(ctx *gin.Context) (gin.H, int, error) {
	var body types.LoginRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		return nil, http.StatusBadRequest, err
	}
	var user models.User
	if err := db.GetDb().Where("email = ?", body.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, http.StatusUnauthorized, ErrInvalidCredentials
		}
		return nil, http.StatusInternalServerError, err
	}
	if !utils.CheckPasswordHash(body.Password, user.Password) {
		return nil, http.StatusUnauthorized, ErrInvalidCredentials
	}
	token, err := utils.GenerateJWT(user.Email, user.ID, user.Role)
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}
	if rd := lib.GetRedisClient(); rd != nil {
		if _, err := rd.JSONSet(context.Background(), fmt.Sprintf("%d:user", user.ID), "$", &user).Result(); err != nil {
			log.Printf("[redis] Error updating user cache: %s\n", err.Error())
		}
	}
	return gin.H{"token": token, "user": user}, http.StatusOK, nil
}

// AuthGoogleLogin runs behind the firebase token middleware; the verified
// identity is looked up from the uid the middleware stored on the context.
// First-time logins get an intern account with a sentinel password.
func AuthGoogleLogin(ctx *gin.Context) (gin.H, int, error) {
	uid := ctx.GetString("uid")
	fauth, err := lib.GetFirebaseAuth()
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}
	fuser, err := fauth.GetUser(context.Background(), uid)
	if err != nil {
		log.Printf("error from Firebase: %s\n", err.Error())
		return nil, http.StatusUnauthorized, err
	}
	var user models.User
	err = db.GetDb().Where("email = ?", fuser.Email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = models.User{
			Name:     fuser.DisplayName,
			Email:    fuser.Email,
			Password: GoogleAuthPassword,
			Role:     string(types.ROLE_INTERN),
		}
		if err := db.GetDb().Create(&user).Error; err != nil {
			log.Printf("Error creating user: %s\n", err.Error())
			return nil, http.StatusInternalServerError, err
		}
		go common.NotifyUserRegistration(&user)
	} else if err != nil {
		return nil, http.StatusInternalServerError, err
	}
	token, err := utils.GenerateJWT(user.Email, user.ID, user.Role)
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}
	return gin.H{"token": token, "user": user}, http.StatusOK, nil
}

func AuthGetUserByEmail(ctx *gin.Context) (*models.User, int, error) {
	var body types.UserByEmailRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		return nil, http.StatusBadRequest, err
	}
	var user models.User
	if err := db.GetDb().
		Select("id", "name", "email", "role", "phone").
		Where("email = ?", body.Email).
		First(&user).
		Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, http.StatusNotFound, ErrUserNotFound
		}
		return nil, http.StatusInternalServerError, err
	}
	return &user, http.StatusOK, nil
}

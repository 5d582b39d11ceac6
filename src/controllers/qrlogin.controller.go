package controllers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"path"
	"srs/src/common"
	"srs/src/config"
	"srs/src/db"
	"srs/src/lib"
	awslib "srs/src/lib/aws"
	"srs/src/models"
	"srs/src/types"
	"srs/src/utils"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yeqown/go-qrcode"
	"gorm.io/gorm"
)

const (
	qrSessionTTL        = 5 * time.Minute
	verificationCodeTTL = 10 * time.Minute
	// entries outlive their logical expiry by a grace period so polling
	// clients can observe the expired state before eviction
	evictionGrace = time.Minute
)

var (
	ErrSessionNotFound = errors.New("invalid or expired QR session")
	ErrSessionExpired  = errors.New("QR session expired")
	ErrCodeNotFound    = errors.New("invalid session or verification code expired")
	ErrCodeExpired     = errors.New("verification code expired")
	ErrCodeMismatch    = errors.New("invalid verification code")
	ErrAdminNotFound   = errors.New("admin ID not found or user is not an admin")
)

// QRLoginGenerate opens a login session and renders its QR code. The code
// carries the mobile URL the phone should open to claim the session.
func QRLoginGenerate() (gin.H, int, error) {
	sessionId := uuid.NewString()
	mobileUrl := fmt.Sprintf("%s/qr-login.html?session=%s", config.APP_HOST, sessionId)

	now := time.Now()
	lib.QRSessions().Put(sessionId, &lib.QRSession{
		Status:    types.QR_SESSION_PENDING,
		CreatedAt: now,
		ExpiresAt: now.Add(qrSessionTTL),
	}, qrSessionTTL+evictionGrace)

	qrc, err := qrcode.New(mobileUrl)
	if err != nil {
		log.Printf("QR generation error: %s\n", err.Error())
		return nil, http.StatusInternalServerError, err
	}
	wd, err := os.Getwd()
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}
	tempdir := os.Getenv("TEMP_DIR")
	filename := fmt.Sprintf("%s.jpeg", sessionId)
	filepath := path.Join(wd, tempdir, filename)
	if err := qrc.Save(filepath); err != nil {
		log.Printf("Could not save qrcode to file [%s]: %s\n", filepath, err.Error())
		return nil, http.StatusInternalServerError, err
	}

	qrUrl := fmt.Sprintf("%s/share/%s", config.API_HOST, filename)
	if !utils.IsLocal() {
		url, err := awslib.S3UploadAsset(filename, filepath)
		if err != nil {
			log.Printf("Error uploading asset to S3 bucket: %s\n", err.Error())
			return nil, http.StatusInternalServerError, err
		}
		qrUrl = *url
		if rd := lib.GetRedisClient(); rd != nil {
			rd.SetEx(context.Background(), filename, qrUrl, 2*time.Hour)
		}
	}

	return gin.H{
		"session_id": sessionId,
		"qr_code":    qrUrl,
		"expires_in": int(qrSessionTTL.Seconds()),
	}, http.StatusOK, nil
}

// QRLoginSubmit is called from the phone with a claimed admin identity. A
// matching admin gets a verification code mailed to the submitted address.
func QRLoginSubmit(ctx *gin.Context) (gin.H, int, error) {
	var body types.QRSubmitRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		return nil, http.StatusBadRequest, err
	}
	session, ok := lib.QRSessions().Get(body.SessionID)
	if !ok {
		return nil, http.StatusNotFound, ErrSessionNotFound
	}
	if time.Now().After(session.ExpiresAt) {
		lib.QRSessions().Delete(body.SessionID)
		return nil, http.StatusGone, ErrSessionExpired
	}

	var admin models.User
	if err := db.GetDb().
		Where("id = ? AND role = ?", body.AdminID, types.ROLE_ADMIN).
		First(&admin).
		Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, http.StatusNotFound, ErrAdminNotFound
		}
		return nil, http.StatusInternalServerError, err
	}

	code := utils.GenerateOTP()
	lib.VerificationCodes().Put(body.SessionID, &lib.VerificationCode{
		Code:           code,
		SubmittedEmail: body.Email,
		AdminID:        body.AdminID,
		Admin:          &admin,
		ExpiresAt:      time.Now().Add(verificationCodeTTL),
	}, verificationCodeTTL+evictionGrace)

	// never mutate the stored session in place: the browser's status poll
	// reads it concurrently, so swap in an updated copy instead
	updated := *session
	updated.Status = types.QR_SESSION_CODE_SENT
	updated.AdminData = &lib.QRAdminData{
		ID:             admin.ID,
		SubmittedEmail: body.Email,
		Name:           admin.Name,
		Email:          admin.Email,
	}
	lib.QRSessions().Put(body.SessionID, &updated, time.Until(session.ExpiresAt)+evictionGrace)

	go common.NotifyQRLoginCode(body.Email, &admin, body.Email, code)
	log.Printf("QR login verification code sent to %s\n", body.Email)

	return gin.H{
		"message":     "Verification code sent to your email. Please check your inbox and enter the code on your computer.",
		"code_length": 6,
		"expires_in":  int(verificationCodeTTL.Seconds()),
	}, http.StatusOK, nil
}

// QRLoginVerify completes the login once the correct code is typed on the
// computer. Both session entries are consumed regardless of which one the
// caller still holds.
func QRLoginVerify(ctx *gin.Context) (gin.H, int, error) {
	var body types.QRVerifyRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		return nil, http.StatusBadRequest, err
	}
	verification, ok := lib.VerificationCodes().Get(body.SessionID)
	if !ok {
		return nil, http.StatusNotFound, ErrCodeNotFound
	}
	if time.Now().After(verification.ExpiresAt) {
		lib.VerificationCodes().Delete(body.SessionID)
		return nil, http.StatusGone, ErrCodeExpired
	}
	if verification.Code != body.Code {
		return nil, http.StatusUnauthorized, ErrCodeMismatch
	}

	admin := verification.Admin
	lib.VerificationCodes().Delete(body.SessionID)
	lib.QRSessions().Delete(body.SessionID)

	token, err := utils.GenerateJWT(admin.Email, admin.ID, admin.Role)
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}
	go common.NotifyQRLoginSuccess(verification.SubmittedEmail, admin)

	return gin.H{
		"message": "QR login successful!",
		"token":   token,
		"user": gin.H{
			"id":    admin.ID,
			"name":  admin.Name,
			"email": admin.Email,
			"role":  admin.Role,
		},
	}, http.StatusOK, nil
}

// QRLoginStatus reports the session state for the polling browser.
func QRLoginStatus(sessionId string) (gin.H, int, error) {
	session, ok := lib.QRSessions().Get(sessionId)
	if !ok {
		return gin.H{"status": types.QR_SESSION_NOT_FOUND}, http.StatusNotFound, ErrSessionNotFound
	}
	if time.Now().After(session.ExpiresAt) {
		lib.QRSessions().Delete(sessionId)
		return gin.H{"status": types.QR_SESSION_EXPIRED}, http.StatusGone, ErrSessionExpired
	}
	return gin.H{
		"status":     session.Status,
		"admin_data": session.AdminData,
	}, http.StatusOK, nil
}

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path"
	"srs/src/db"
	"srs/src/lib"
	"srs/src/types"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/suite"
	"github.com/tidwall/gjson"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testTempDir = "testdata-tmp"

type MainTestSuite struct {
	suite.Suite
	router *gin.Engine
	mock   sqlmock.Sqlmock
}

func (s *MainTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	os.Setenv("TEMP_DIR", testTempDir)
	s.Require().NoError(os.MkdirAll(testTempDir, 0o755))

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("resdate", reservationDateValidatorFunc)
		v.RegisterValidation("clock", clockValidatorFunc)
		v.RegisterValidation("gtclock", gtClockValidatorFunc)
	}

	conn, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	s.Require().NoError(err)
	gdb, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 conn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	s.Require().NoError(err)
	db.NewDB(gdb)
	s.mock = mock

	router := setupRouter()
	router = maintenanceModeMiddleware(router)
	publicRoutes(router)
	internHandlers(apiv1Group(router))
	s.router = router
}

func (s *MainTestSuite) TearDownSuite() {
	os.RemoveAll(testTempDir)
	os.Unsetenv("TEMP_DIR")
}

func (s *MainTestSuite) request(method, target string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *MainTestSuite) TestPingRoute() {
	w := s.request(http.MethodGet, "/", nil)
	s.Equal(http.StatusOK, w.Code)
	s.Equal("\"ok\"", w.Body.String())
	s.Equal("nosniff", w.Header().Get("X-Content-Type-Options"))
}

func (s *MainTestSuite) TestHealthRoute() {
	w := s.request(http.MethodGet, "/api/v1/auth/health", nil)
	s.Equal(http.StatusOK, w.Code)
	s.Equal("ok", gjson.Get(w.Body.String(), "status").String())
}

func (s *MainTestSuite) TestMaintenanceMode() {
	os.Setenv("MAINTENANCE_MODE", "true")
	defer os.Unsetenv("MAINTENANCE_MODE")
	w := s.request(http.MethodGet, "/api/v1/auth/health", nil)
	s.Equal(http.StatusServiceUnavailable, w.Code)
}

func (s *MainTestSuite) TestReserveRejectsInvalidPayloads() {
	cases := []map[string]any{
		{"intern_id": 1, "seat_id": 1, "date": "2020-01-01", "start_time": "09:00", "end_time": "10:00"},
		{"intern_id": 1, "seat_id": 1, "date": "2999-01-01", "start_time": "10:00", "end_time": "09:00"},
		{"intern_id": 1, "seat_id": 1, "date": "2999-01-01", "start_time": "not-a-clock", "end_time": "10:00"},
		{"intern_id": 1, "seat_id": 1, "date": "01/01/2999", "start_time": "09:00", "end_time": "10:00"},
		{"seat_id": 1, "date": "2999-01-01", "start_time": "09:00"},
	}
	for _, body := range cases {
		w := s.request(http.MethodPost, "/api/v1/intern/reserve", body)
		s.Equal(http.StatusBadRequest, w.Code, "payload: %v", body)
	}
}

func (s *MainTestSuite) TestQRSubmitRejectsMissingFields() {
	w := s.request(http.MethodPost, "/api/v1/qr-login/submit", map[string]any{"session_id": "abc"})
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *MainTestSuite) TestQRVerifyRejectsShortCode() {
	w := s.request(http.MethodPost, "/api/v1/qr-login/verify", map[string]any{
		"session_id": "abc",
		"code":       "123",
	})
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *MainTestSuite) TestQRStatusUnknownSession() {
	w := s.request(http.MethodGet, "/api/v1/qr-login/status/does-not-exist", nil)
	s.Equal(http.StatusNotFound, w.Code)
	s.Equal(string(types.QR_SESSION_NOT_FOUND), gjson.Get(w.Body.String(), "status").String())
}

func (s *MainTestSuite) TestQRLoginFlow() {
	w := s.request(http.MethodPost, "/api/v1/qr-login/generate", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	res := w.Body.String()
	sessionId := gjson.Get(res, "session_id").String()
	s.NotEmpty(sessionId)
	s.Contains(gjson.Get(res, "qr_code").String(), "/share/")
	s.EqualValues(300, gjson.Get(res, "expires_in").Int())

	// the QR image must exist and be servable through the share route
	imageName := fmt.Sprintf("%s.jpeg", sessionId)
	_, err := os.Stat(path.Join(testTempDir, imageName))
	s.Require().NoError(err)
	w = s.request(http.MethodGet, "/api/v1/share/"+imageName, nil)
	s.Equal(http.StatusOK, w.Code)

	w = s.request(http.MethodGet, "/api/v1/qr-login/status/"+sessionId, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal(string(types.QR_SESSION_PENDING), gjson.Get(w.Body.String(), "status").String())

	adminRows := sqlmock.NewRows([]string{"id", "name", "email", "password", "role"}).
		AddRow(7, "Site Admin", "admin@example.com", "x", "admin")
	s.mock.ExpectQuery(`SELECT (.+) FROM "users"`).WillReturnRows(adminRows)

	w = s.request(http.MethodPost, "/api/v1/qr-login/submit", map[string]any{
		"session_id": sessionId,
		"admin_id":   7,
		"email":      "admin@example.com",
	})
	s.Require().Equal(http.StatusOK, w.Code)
	s.EqualValues(6, gjson.Get(w.Body.String(), "code_length").Int())

	w = s.request(http.MethodGet, "/api/v1/qr-login/status/"+sessionId, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal(string(types.QR_SESSION_CODE_SENT), gjson.Get(w.Body.String(), "status").String())
	s.Equal("admin@example.com", gjson.Get(w.Body.String(), "admin_data.email").String())

	verification, ok := lib.VerificationCodes().Get(sessionId)
	s.Require().True(ok)

	w = s.request(http.MethodPost, "/api/v1/qr-login/verify", map[string]any{
		"session_id": sessionId,
		"code":       "000000",
	})
	s.Equal(http.StatusUnauthorized, w.Code)

	w = s.request(http.MethodPost, "/api/v1/qr-login/verify", map[string]any{
		"session_id": sessionId,
		"code":       verification.Code,
	})
	s.Require().Equal(http.StatusOK, w.Code)
	s.NotEmpty(gjson.Get(w.Body.String(), "token").String())
	s.EqualValues(7, gjson.Get(w.Body.String(), "user.id").Int())

	// both session entries are consumed on success
	w = s.request(http.MethodGet, "/api/v1/qr-login/status/"+sessionId, nil)
	s.Equal(http.StatusNotFound, w.Code)
	w = s.request(http.MethodPost, "/api/v1/qr-login/verify", map[string]any{
		"session_id": sessionId,
		"code":       verification.Code,
	})
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *MainTestSuite) TestQRStatusPollingDuringSubmit() {
	w := s.request(http.MethodPost, "/api/v1/qr-login/generate", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	sessionId := gjson.Get(w.Body.String(), "session_id").String()
	s.Require().NotEmpty(sessionId)

	adminRows := sqlmock.NewRows([]string{"id", "name", "email", "password", "role"}).
		AddRow(7, "Site Admin", "admin@example.com", "x", "admin")
	s.mock.ExpectQuery(`SELECT (.+) FROM "users"`).WillReturnRows(adminRows)

	// the browser keeps polling while the phone submits its identity; both
	// touch the same session entry and must not trip the race detector
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			w := s.request(http.MethodGet, "/api/v1/qr-login/status/"+sessionId, nil)
			s.Equal(http.StatusOK, w.Code)
		}
	}()
	w = s.request(http.MethodPost, "/api/v1/qr-login/submit", map[string]any{
		"session_id": sessionId,
		"admin_id":   7,
		"email":      "admin@example.com",
	})
	s.Require().Equal(http.StatusOK, w.Code)
	<-done

	w = s.request(http.MethodGet, "/api/v1/qr-login/status/"+sessionId, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal(string(types.QR_SESSION_CODE_SENT), gjson.Get(w.Body.String(), "status").String())
}

func TestMainSuite(t *testing.T) {
	suite.Run(t, new(MainTestSuite))
}

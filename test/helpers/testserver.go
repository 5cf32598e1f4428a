package helpers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"userhub_backend/internal/app"
	"userhub_backend/internal/config"
	"userhub_backend/internal/models"
	"userhub_backend/internal/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// EmailRecorder is the mail transport used under test. It records every
// token it was asked to deliver and can be switched into failure mode.
type EmailRecorder struct {
	ActivationTokens []string
	ResetTokens      []string
	Fail             bool
}

func (r *EmailRecorder) SendAccountActivation(to, token string) error {
	if r.Fail {
		return errors.New("smtp: connection refused")
	}
	r.ActivationTokens = append(r.ActivationTokens, token)
	return nil
}

func (r *EmailRecorder) SendPasswordReset(to, token string) error {
	if r.Fail {
		return errors.New("smtp: connection refused")
	}
	r.ResetTokens = append(r.ResetTokens, token)
	return nil
}

// TestServer bundles the fully wired router with direct access to the
// database, the mail recorder and the token service.
type TestServer struct {
	Router *gin.Engine
	DB     *gorm.DB
	Email  *EmailRecorder
	Tokens services.TokenService
}

// NewTestServer mounts the whole application on an in-memory database.
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	// every pool connection would get its own empty in-memory database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, app.InitStore(db))

	cfg := &config.Config{}
	cfg.Server.Env = "development"
	cfg.Storage.UploadDir = t.TempDir()
	cfg.Storage.ProfileDir = "profile"
	cfg.Security.BcryptCost = bcrypt.MinCost

	mail := &EmailRecorder{}
	router, tokenService := app.SetupRouter(cfg, db, mail)

	return &TestServer{
		Router: router,
		DB:     db,
		Email:  mail,
		Tokens: tokenService,
	}
}

// Request performs one HTTP request against the mounted router. A non-nil
// body is sent as JSON; a non-empty token goes into the Authorization
// header as a bearer credential.
func (s *TestServer) Request(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.Router.ServeHTTP(rec, req)
	return rec
}

// CreateActiveUser inserts an already activated user with the given
// credentials, bypassing the registration flow.
func (s *TestServer) CreateActiveUser(t *testing.T, username, email, password string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Inactive:     false,
	}
	require.NoError(t, s.DB.Create(user).Error)
	return user
}

// Login authenticates the given credentials and returns the issued token.
func (s *TestServer) Login(t *testing.T, email, password string) string {
	t.Helper()

	rec := s.Request(t, http.MethodPost, "/api/1.0/auth", gin.H{
		"email":    email,
		"password": password,
	}, "")
	require.Equal(t, http.StatusOK, rec.Code, "login failed: %s", rec.Body.String())

	var body struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotEmpty(t, body.Token)
	return body.Token
}

// DecodeJSON unmarshals a recorded response body into target.
func DecodeJSON(t *testing.T, rec *httptest.ResponseRecorder, target any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), target))
}

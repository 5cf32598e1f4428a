package integration

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"userhub_backend/internal/models"
	"userhub_backend/test/helpers"
)

func registerBody() gin.H {
	return gin.H{
		"username": "user1",
		"email":    "user1@mail.com",
		"password": "P4ssword",
	}
}

func TestRegister_Success(t *testing.T) {
	srv := helpers.NewTestServer(t)

	rec := srv.Request(t, http.MethodPost, "/api/1.0/users", registerBody(), "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"message":"User created"`)

	var user models.User
	require.NoError(t, srv.DB.First(&user, "email = ?", "user1@mail.com").Error)
	assert.True(t, user.Inactive)
	require.Len(t, srv.Email.ActivationTokens, 1)
}

func TestRegister_ValidationErrorBody(t *testing.T) {
	srv := helpers.NewTestServer(t)

	rec := srv.Request(t, http.MethodPost, "/api/1.0/users", gin.H{
		"username": "",
		"email":    "mail.com",
		"password": "P4ss",
	}, "")

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body struct {
		Path             string            `json:"path"`
		Timestamp        int64             `json:"timestamp"`
		Message          string            `json:"message"`
		ValidationErrors map[string]string `json:"validationErrors"`
	}
	helpers.DecodeJSON(t, rec, &body)
	assert.Equal(t, "/api/1.0/users", body.Path)
	assert.NotZero(t, body.Timestamp)
	assert.Equal(t, "Validation Failure", body.Message)
	assert.Equal(t, map[string]string{
		"username": "Username cannot be null",
		"email":    "E-mail is not valid",
		"password": "Password must be at least 6 characters",
	}, body.ValidationErrors)
}

func TestRegister_EmptyBody(t *testing.T) {
	srv := helpers.NewTestServer(t)

	// a missing body flows into validation like an all-empty request
	rec := srv.Request(t, http.MethodPost, "/api/1.0/users", nil, "")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"username":"Username cannot be null"`)
	assert.Contains(t, rec.Body.String(), `"email":"E-mail cannot be null"`)
	assert.Contains(t, rec.Body.String(), `"password":"Password cannot be null"`)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	srv := helpers.NewTestServer(t)
	rec := srv.Request(t, http.MethodPost, "/api/1.0/users", registerBody(), "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := registerBody()
	body["username"] = "user2"
	rec = srv.Request(t, http.MethodPost, "/api/1.0/users", body, "")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"email":"E-mail in use"`)
}

func TestRegister_MailFailureLeavesNoAccount(t *testing.T) {
	srv := helpers.NewTestServer(t)
	srv.Email.Fail = true

	rec := srv.Request(t, http.MethodPost, "/api/1.0/users", registerBody(), "")

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), `"message":"E-mail Failure"`)

	var count int64
	srv.DB.Model(&models.User{}).Count(&count)
	assert.Zero(t, count)
}

func TestActivate_RoundTrip(t *testing.T) {
	srv := helpers.NewTestServer(t)
	rec := srv.Request(t, http.MethodPost, "/api/1.0/users", registerBody(), "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, srv.Email.ActivationTokens, 1)

	// the inactive account cannot log in yet
	rec = srv.Request(t, http.MethodPost, "/api/1.0/auth", gin.H{
		"email": "user1@mail.com", "password": "P4ssword",
	}, "")
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = srv.Request(t, http.MethodPost, "/api/1.0/users/token/"+srv.Email.ActivationTokens[0], nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"message":"Account is activated"`)

	srv.Login(t, "user1@mail.com", "P4ssword")
}

func TestActivate_InvalidToken(t *testing.T) {
	srv := helpers.NewTestServer(t)

	rec := srv.Request(t, http.MethodPost, "/api/1.0/users/token/does-not-exist", nil, "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"message":"This account is either active or the token is invalid"`)
}

package integration

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"userhub_backend/internal/models"
	"userhub_backend/internal/services"
	"userhub_backend/test/helpers"
)

// ageToken pushes a session's LastUsedAt into the past.
func ageToken(t *testing.T, srv *helpers.TestServer, token string, age time.Duration) {
	t.Helper()
	err := srv.DB.Model(&models.Token{}).
		Where("token = ?", token).
		Update("last_used_at", time.Now().Add(-age)).Error
	require.NoError(t, err)
}

func TestExpiredTokenIsAnonymous(t *testing.T) {
	srv := helpers.NewTestServer(t)
	user := srv.CreateActiveUser(t, "user1", "user1@mail.com", "P4ssword")
	token := srv.Login(t, "user1@mail.com", "P4ssword")

	ageToken(t, srv, token, services.TokenExpiry+time.Minute)

	rec := srv.Request(t, http.MethodPut, fmt.Sprintf("/api/1.0/users/%d", user.ID), gin.H{
		"username": "user1-updated",
	}, token)

	// the expired token carries no identity, so the ownership check fails
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), `"message":"You are not authorized to update user"`)
}

func TestRecentUseKeepsTokenAlive(t *testing.T) {
	srv := helpers.NewTestServer(t)
	user := srv.CreateActiveUser(t, "user1", "user1@mail.com", "P4ssword")
	token := srv.Login(t, "user1@mail.com", "P4ssword")

	// four days idle is well inside the window
	ageToken(t, srv, token, 4*24*time.Hour)

	path := fmt.Sprintf("/api/1.0/users/%d", user.ID)
	rec := srv.Request(t, http.MethodPut, path, gin.H{"username": "user1a"}, token)
	require.Equal(t, http.StatusOK, rec.Code)

	// the hit renewed LastUsedAt, so another four days later it still works
	ageToken(t, srv, token, 4*24*time.Hour)
	rec = srv.Request(t, http.MethodPut, path, gin.H{"username": "user1b"}, token)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSuccessfulRequestRenewsWindow(t *testing.T) {
	srv := helpers.NewTestServer(t)
	user := srv.CreateActiveUser(t, "user1", "user1@mail.com", "P4ssword")
	token := srv.Login(t, "user1@mail.com", "P4ssword")

	ageToken(t, srv, token, 4*24*time.Hour)

	rec := srv.Request(t, http.MethodPut, fmt.Sprintf("/api/1.0/users/%d", user.ID), gin.H{
		"username": "user1",
	}, token)
	require.Equal(t, http.StatusOK, rec.Code)

	var row models.Token
	require.NoError(t, srv.DB.First(&row, "token = ?", token).Error)
	assert.WithinDuration(t, time.Now(), row.LastUsedAt, time.Minute)
}

func TestSweepRemovesOnlyExpiredSessions(t *testing.T) {
	srv := helpers.NewTestServer(t)
	srv.CreateActiveUser(t, "user1", "user1@mail.com", "P4ssword")
	expired := srv.Login(t, "user1@mail.com", "P4ssword")
	fresh := srv.Login(t, "user1@mail.com", "P4ssword")

	ageToken(t, srv, expired, services.TokenExpiry+time.Hour)

	srv.Tokens.Sweep(srv.DB)

	var remaining []models.Token
	require.NoError(t, srv.DB.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, fresh, remaining[0].Token)
}

func TestMalformedAuthorizationHeaderIsIgnored(t *testing.T) {
	srv := helpers.NewTestServer(t)
	user := srv.CreateActiveUser(t, "user1", "user1@mail.com", "P4ssword")
	token := srv.Login(t, "user1@mail.com", "P4ssword")

	// a valid token without the Bearer prefix never authenticates
	req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/1.0/users/%d", user.ID), nil)
	req.Header.Set("Authorization", token)
	rec := httptest.NewRecorder()
	srv.Router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	res := srv.Request(t, http.MethodDelete, fmt.Sprintf("/api/1.0/users/%d", user.ID), nil, token)
	assert.Equal(t, http.StatusOK, res.Code)
}

package integration

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"userhub_backend/internal/models"
	"userhub_backend/test/helpers"
)

func TestDeleteUser_RequiresOwnership(t *testing.T) {
	srv := helpers.NewTestServer(t)
	owner := srv.CreateActiveUser(t, "user1", "user1@mail.com", "P4ssword")
	srv.CreateActiveUser(t, "user2", "user2@mail.com", "P4ssword")
	otherToken := srv.Login(t, "user2@mail.com", "P4ssword")

	for name, token := range map[string]string{
		"anonymous":            "",
		"another user's token": otherToken,
	} {
		t.Run(name, func(t *testing.T) {
			rec := srv.Request(t, http.MethodDelete, fmt.Sprintf("/api/1.0/users/%d", owner.ID), nil, token)
			assert.Equal(t, http.StatusForbidden, rec.Code)
			assert.Contains(t, rec.Body.String(), `"message":"You are not authorized to delete user"`)
		})
	}

	var count int64
	srv.DB.Model(&models.User{}).Count(&count)
	assert.Equal(t, int64(2), count)
}

func TestDeleteUser_RemovesAccountAndSessions(t *testing.T) {
	srv := helpers.NewTestServer(t)
	user := srv.CreateActiveUser(t, "user1", "user1@mail.com", "P4ssword")
	first := srv.Login(t, "user1@mail.com", "P4ssword")
	second := srv.Login(t, "user1@mail.com", "P4ssword")

	rec := srv.Request(t, http.MethodDelete, fmt.Sprintf("/api/1.0/users/%d", user.ID), nil, first)
	require.Equal(t, http.StatusOK, rec.Code)

	var users, tokens int64
	srv.DB.Model(&models.User{}).Count(&users)
	srv.DB.Model(&models.Token{}).Count(&tokens)
	assert.Zero(t, users)
	assert.Zero(t, tokens)

	// the surviving token no longer authenticates anything
	rec = srv.Request(t, http.MethodPut, fmt.Sprintf("/api/1.0/users/%d", user.ID), nil, second)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hopebridge/intake/internal/db"
	"github.com/hopebridge/intake/internal/models"
)

func TestRegisterAndLogin(t *testing.T) {
	h := setup(t)

	rec, e := doJSON(t, h, http.MethodPost, "/api/auth/register", map[string]any{
		"name": "Alice", "email": "alice@example.com", "password": "secret123",
	}, "")
	require.Equal(t, http.StatusOK, rec.Code, "register: %s", rec.Body.String())

	var created models.User
	require.NoError(t, json.Unmarshal(e.Data, &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "alice@example.com", created.Email)
	assert.False(t, created.IsAdmin, "self-registration must not create admins")

	// password hash never leaves the server
	assert.NotContains(t, rec.Body.String(), "secret123")
	assert.NotContains(t, rec.Body.String(), "passwordHash")

	rec, e = doJSON(t, h, http.MethodPost, "/api/auth/login", map[string]any{
		"email": "alice@example.com", "password": "secret123",
	}, "")
	require.Equal(t, http.StatusOK, rec.Code, "login: %s", rec.Body.String())

	var out struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(e.Data, &out))
	require.NotEmpty(t, out.Token)

	// session cookie set on login
	found := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == "session" && c.Value != "" {
			found = true
			assert.True(t, c.HttpOnly)
		}
	}
	assert.True(t, found, "login must set the session cookie")

	// token works against /me
	rec, e = doJSON(t, h, http.MethodGet, "/api/auth/me", nil, out.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	var me struct {
		Email string `json:"email"`
	}
	require.NoError(t, json.Unmarshal(e.Data, &me))
	assert.Equal(t, "alice@example.com", me.Email)
}

func TestRegister_DuplicateEmailConflicts(t *testing.T) {
	h := setup(t)

	rec, _ := doJSON(t, h, http.MethodPost, "/api/auth/register", map[string]any{
		"email": "dup@example.com", "password": "first",
	}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec, e := doJSON(t, h, http.MethodPost, "/api/auth/register", map[string]any{
		"email": "dup@example.com", "password": "second",
	}, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Email already registered", e.Message)

	// the first registration must not have been overwritten
	var count int64
	db.Conn().Model(&models.User{}).Where("email = ?", "dup@example.com").Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestRegister_MissingFields(t *testing.T) {
	h := setup(t)

	rec, _ := doJSON(t, h, http.MethodPost, "/api/auth/register", map[string]any{
		"email": "nopass@example.com",
	}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = doJSON(t, h, http.MethodPost, "/api/auth/register", map[string]any{
		"password": "nomail",
	}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogin_GenericErrorForBadCredentials(t *testing.T) {
	h := setup(t)
	seedUser(t, "bob@example.com", false)

	// wrong password and unknown email answer identically
	rec1, e1 := doJSON(t, h, http.MethodPost, "/api/auth/login", map[string]any{
		"email": "bob@example.com", "password": "wrong",
	}, "")
	rec2, e2 := doJSON(t, h, http.MethodPost, "/api/auth/login", map[string]any{
		"email": "ghost@example.com", "password": "whatever",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, rec1.Code)
	assert.Equal(t, http.StatusUnauthorized, rec2.Code)
	assert.Equal(t, e1.Message, e2.Message)
}

func TestChangePassword(t *testing.T) {
	h := setup(t)
	_, token := seedUser(t, "carol@example.com", false)

	rec, e := doJSON(t, h, http.MethodPost, "/api/users/change-password", map[string]any{
		"oldPassword": "nope", "newPassword": "newpass456",
	}, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Old password is incorrect", e.Message)

	rec, _ = doJSON(t, h, http.MethodPost, "/api/users/change-password", map[string]any{
		"oldPassword": "password123", "newPassword": "newpass456",
	}, token)
	require.Equal(t, http.StatusOK, rec.Code)

	// old password is dead, new one works
	rec, _ = doJSON(t, h, http.MethodPost, "/api/auth/login", map[string]any{
		"email": "carol@example.com", "password": "password123",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec, _ = doJSON(t, h, http.MethodPost, "/api/auth/login", map[string]any{
		"email": "carol@example.com", "password": "newpass456",
	}, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPasswordResetFlow(t *testing.T) {
	h := setup(t)
	seedUser(t, "dave@example.com", false)

	rec, _ := doJSON(t, h, http.MethodPost, "/api/auth/forgot-password", map[string]any{
		"email": "dave@example.com",
	}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	// unknown address gets the same answer
	rec, _ = doJSON(t, h, http.MethodPost, "/api/auth/forgot-password", map[string]any{
		"email": "nobody@example.com",
	}, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	var reset models.PasswordReset
	require.NoError(t, db.Conn().Where("email = ?", "dave@example.com").First(&reset).Error)
	require.NotEmpty(t, reset.Token)
	assert.True(t, reset.Expires.After(time.Now()))

	rec, _ = doJSON(t, h, http.MethodPost, "/api/auth/reset-password", map[string]any{
		"token": reset.Token, "newPassword": "brandnew789",
	}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// token is single-use
	rec, e := doJSON(t, h, http.MethodPost, "/api/auth/reset-password", map[string]any{
		"token": reset.Token, "newPassword": "again",
	}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid or expired token", e.Message)

	rec, _ = doJSON(t, h, http.MethodPost, "/api/auth/login", map[string]any{
		"email": "dave@example.com", "password": "brandnew789",
	}, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestResetPassword_ExpiredToken(t *testing.T) {
	h := setup(t)
	seedUser(t, "eve@example.com", false)

	reset := models.PasswordReset{
		Email:   "eve@example.com",
		Token:   "expired-token",
		Expires: time.Now().Add(-time.Minute),
	}
	require.NoError(t, db.Conn().Create(&reset).Error)

	rec, _ := doJSON(t, h, http.MethodPost, "/api/auth/reset-password", map[string]any{
		"token": "expired-token", "newPassword": "whatever1",
	}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

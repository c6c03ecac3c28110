package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hopebridge/intake/internal/auth"
	"github.com/hopebridge/intake/internal/config"
	mw "github.com/hopebridge/intake/internal/middleware"
	svc "github.com/hopebridge/intake/internal/services"
)

// POST /api/auth/register
func Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decode(r, &req); err != nil {
		fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	email, ok := svc.NormEmail(req.Email)
	if email == "" || !ok {
		fail(w, http.StatusBadRequest, "Email and password are required")
		return
	}
	if strings.TrimSpace(req.Password) == "" {
		fail(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, err := svc.Register(strings.TrimSpace(req.Name), email, req.Password)
	if err != nil {
		if errors.Is(err, svc.ErrEmailTaken) {
			fail(w, http.StatusConflict, "Email already registered")
			return
		}
		zap.L().Error("register failed", zap.Error(err))
		fail(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	go svc.SendWelcome(user.Email, user.Name)

	respond(w, http.StatusOK, user)
}

// POST /api/auth/login
func Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decode(r, &req); err != nil {
		fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	email, _ := svc.NormEmail(req.Email)
	user, err := svc.Login(email, req.Password)
	if err != nil {
		if errors.Is(err, svc.ErrInvalidCredentials) {
			fail(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		zap.L().Error("login failed", zap.Error(err))
		fail(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	c := config.Get()
	ttl := time.Duration(c.SessionTTLHrs) * time.Hour
	token, err := auth.MakeToken(auth.Claims{
		UserID:  user.ID,
		Email:   user.Email,
		Name:    user.Name,
		Image:   user.Image,
		IsAdmin: user.IsAdmin,
	}, c.JWTSecret, ttl)
	if err != nil {
		zap.L().Error("token issue failed", zap.Error(err))
		fail(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     mw.SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(ttl),
	})
	respondMsg(w, http.StatusOK, "Logged in", map[string]any{
		"user":  user,
		"token": token,
	})
}

// POST /api/auth/logout
func Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     mw.SessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
	})
	respondMsg(w, http.StatusOK, "Logged out", nil)
}

// GET /api/auth/me
func Me(w http.ResponseWriter, r *http.Request) {
	claims := mw.SessionFrom(r.Context())
	respond(w, http.StatusOK, map[string]any{
		"id":      claims.UserID,
		"email":   claims.Email,
		"name":    claims.Name,
		"image":   claims.Image,
		"isAdmin": claims.IsAdmin,
	})
}

// POST /api/users/change-password
func ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OldPassword string `json:"oldPassword"`
		NewPassword string `json:"newPassword"`
	}
	if err := decode(r, &req); err != nil {
		fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.OldPassword == "" || req.NewPassword == "" {
		fail(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	claims := mw.SessionFrom(r.Context())
	err := svc.ChangePassword(claims.Email, req.OldPassword, req.NewPassword)
	switch {
	case errors.Is(err, svc.ErrWrongPassword):
		fail(w, http.StatusBadRequest, "Old password is incorrect")
	case errors.Is(err, svc.ErrUserNotFound):
		fail(w, http.StatusNotFound, "User not found")
	case err != nil:
		zap.L().Error("change password failed", zap.Error(err))
		fail(w, http.StatusInternalServerError, "Internal server error")
	default:
		respondMsg(w, http.StatusOK, "Password updated successfully", nil)
	}
}

// POST /api/auth/forgot-password
//
// Always answers 200 so the endpoint cannot be used to probe which addresses
// have accounts.
func ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := decode(r, &req); err != nil {
		fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	email, ok := svc.NormEmail(req.Email)
	if email == "" || !ok {
		fail(w, http.StatusBadRequest, "Email is required")
		return
	}

	token, err := svc.CreateReset(email)
	if err != nil && !errors.Is(err, svc.ErrUserNotFound) {
		zap.L().Error("create reset failed", zap.Error(err))
		fail(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if token != "" {
		link := config.Get().PublicBaseURL + "/reset-password?token=" + token
		go svc.SendPasswordReset(email, link)
	}
	respondMsg(w, http.StatusOK, "If the address exists, a reset link has been sent", nil)
}

// POST /api/auth/reset-password
func ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token       string `json:"token"`
		NewPassword string `json:"newPassword"`
	}
	if err := decode(r, &req); err != nil {
		fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Token == "" || req.NewPassword == "" {
		fail(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	err := svc.ResetPassword(req.Token, req.NewPassword)
	switch {
	case errors.Is(err, svc.ErrBadResetToken):
		fail(w, http.StatusBadRequest, "Invalid or expired token")
	case err != nil:
		zap.L().Error("reset password failed", zap.Error(err))
		fail(w, http.StatusInternalServerError, "Internal server error")
	default:
		respondMsg(w, http.StatusOK, "Password updated successfully", nil)
	}
}

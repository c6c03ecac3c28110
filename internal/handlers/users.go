package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/hopebridge/intake/internal/db"
	mw "github.com/hopebridge/intake/internal/middleware"
	"github.com/hopebridge/intake/internal/models"
)

// GET /api/users (admin)
func ListUsers(w http.ResponseWriter, r *http.Request) {
	var users []models.User
	if err := db.Conn().Order("created_at DESC").Find(&users).Error; err != nil {
		zap.L().Error("list users failed", zap.Error(err))
		fail(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respond(w, http.StatusOK, map[string]any{"items": users, "total": len(users)})
}

// GET /api/users/{id} (admin)
func GetUser(w http.ResponseWriter, r *http.Request) {
	var user models.User
	if err := db.Conn().First(&user, "id = ?", chi.URLParam(r, "id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fail(w, http.StatusNotFound, "User not found")
			return
		}
		zap.L().Error("get user failed", zap.Error(err))
		fail(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respond(w, http.StatusOK, user)
}

type userUpdate struct {
	Name        *string `json:"name"`
	Image       *string `json:"image"`
	IsAdmin     *bool   `json:"isAdmin"`
	PhoneNumber *string `json:"phoneNumber"`
	DateOfBirth *string `json:"dateOfBirth"`
	Address     *string `json:"address"`
	City        *string `json:"city"`
	State       *string `json:"state"`
	Country     *string `json:"country"`
	PostalCode  *string `json:"postalCode"`
}

func (u userUpdate) columns() (map[string]any, error) {
	cols := map[string]any{}
	if u.Name != nil {
		cols["name"] = strings.TrimSpace(*u.Name)
	}
	if u.Image != nil {
		cols["image"] = *u.Image
	}
	if u.IsAdmin != nil {
		cols["is_admin"] = *u.IsAdmin
	}
	if u.PhoneNumber != nil {
		cols["phone_number"] = strings.TrimSpace(*u.PhoneNumber)
	}
	if u.DateOfBirth != nil {
		if *u.DateOfBirth == "" {
			cols["date_of_birth"] = nil
		} else {
			dob, err := parseDate(*u.DateOfBirth)
			if err != nil {
				return nil, err
			}
			cols["date_of_birth"] = dob
		}
	}
	if u.Address != nil {
		cols["address"] = *u.Address
	}
	if u.City != nil {
		cols["city"] = *u.City
	}
	if u.State != nil {
		cols["state"] = *u.State
	}
	if u.Country != nil {
		cols["country"] = *u.Country
	}
	if u.PostalCode != nil {
		cols["postal_code"] = *u.PostalCode
	}
	return cols, nil
}

// PUT /api/users/{id} (admin)
func UpdateUser(w http.ResponseWriter, r *http.Request) {
	var user models.User
	if err := db.Conn().First(&user, "id = ?", chi.URLParam(r, "id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fail(w, http.StatusNotFound, "User not found")
			return
		}
		zap.L().Error("get user failed", zap.Error(err))
		fail(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	var req userUpdate
	if err := decode(r, &req); err != nil {
		fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	cols, err := req.columns()
	if err != nil {
		fail(w, http.StatusBadRequest, "Invalid date of birth")
		return
	}
	if len(cols) > 0 {
		if err := db.Conn().Model(&user).Updates(cols).Error; err != nil {
			zap.L().Error("update user failed", zap.Error(err))
			fail(w, http.StatusInternalServerError, "Internal server error")
			return
		}
	}
	respond(w, http.StatusOK, user)
}

// DELETE /api/users/{id} (admin)
func DeleteUser(w http.ResponseWriter, r *http.Request) {
	var user models.User
	if err := db.Conn().First(&user, "id = ?", chi.URLParam(r, "id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fail(w, http.StatusNotFound, "User not found")
			return
		}
		zap.L().Error("get user failed", zap.Error(err))
		fail(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if err := db.Conn().Delete(&user).Error; err != nil {
		zap.L().Error("delete user failed", zap.Error(err))
		fail(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respondMsg(w, http.StatusOK, "User deleted", nil)
}

// PATCH /api/users/profile (self)
func UpdateProfile(w http.ResponseWriter, r *http.Request) {
	claims := mw.SessionFrom(r.Context())

	var req userUpdate
	if err := decode(r, &req); err != nil {
		fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.IsAdmin = nil // never self-promotable
	cols, err := req.columns()
	if err != nil {
		fail(w, http.StatusBadRequest, "Invalid date of birth")
		return
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		fail(w, http.StatusBadRequest, "Name is required")
		return
	}

	var user models.User
	if err := db.Conn().First(&user, "email = ?", claims.Email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fail(w, http.StatusNotFound, "User not found")
			return
		}
		zap.L().Error("get user failed", zap.Error(err))
		fail(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if len(cols) > 0 {
		if err := db.Conn().Model(&user).Updates(cols).Error; err != nil {
			zap.L().Error("update profile failed", zap.Error(err))
			fail(w, http.StatusInternalServerError, "Internal server error")
			return
		}
	}
	respondMsg(w, http.StatusOK, "Profile updated", user)
}

// parseDate accepts RFC3339 or a bare 2006-01-02 date.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

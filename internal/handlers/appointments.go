package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	qrcode "github.com/skip2/go-qrcode"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/hopebridge/intake/internal/config"
	"github.com/hopebridge/intake/internal/db"
	"github.com/hopebridge/intake/internal/models"
)

type appointmentReq struct {
	UserID          string          `json:"userId"`
	Name            string          `json:"name"`
	Phone           string          `json:"phone"`
	Type            string          `json:"type"`
	Zone            string          `json:"zone"`
	Answers         json.RawMessage `json:"answers"`
	AppointmentTime string          `json:"appointmentTime"`
}

// POST /api/appointments
//
// Public booking form. Callers either identify themselves with name+phone or
// attach an existing userId, which must resolve to a real user. No
// availability or overlap checking is done; concurrent bookings for the same
// slot all succeed.
func CreateAppointment(w http.ResponseWriter, r *http.Request) {
	var req appointmentReq
	if err := decode(r, &req); err != nil {
		fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Phone = strings.TrimSpace(req.Phone)
	if req.AppointmentTime == "" {
		fail(w, http.StatusBadRequest, "Missing required fields")
		return
	}
	if req.UserID == "" && (req.Name == "" || req.Phone == "") {
		fail(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	when, err := time.Parse(time.RFC3339, req.AppointmentTime)
	if err != nil {
		fail(w, http.StatusBadRequest, "Invalid appointment time")
		return
	}

	apt := models.Appointment{
		Name:            req.Name,
		Phone:           req.Phone,
		Type:            req.Type,
		Zone:            req.Zone,
		AppointmentTime: when,
		Code:            generateAppointmentCode(),
	}
	if len(req.Answers) > 0 {
		apt.Answers = string(req.Answers)
	}
	if req.UserID != "" {
		var user models.User
		if err := db.Conn().First(&user, "id = ?", req.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				fail(w, http.StatusNotFound, "User not found")
				return
			}
			zap.L().Error("lookup user failed", zap.Error(err))
			fail(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		apt.UserID = &user.ID
		if apt.Name == "" {
			apt.Name = user.Name
		}
		if apt.Phone == "" {
			apt.Phone = user.PhoneNumber
		}
	}

	if err := db.Conn().Create(&apt).Error; err != nil {
		zap.L().Error("create appointment failed", zap.Error(err))
		fail(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respondMsg(w, http.StatusOK, "Created successfully", apt)
}

// GET /api/appointments (admin)
func ListAppointments(w http.ResponseWriter, r *http.Request) {
	var apts []models.Appointment
	if err := db.Conn().Preload("User").
		Order("appointment_time DESC").Find(&apts).Error; err != nil {
		zap.L().Error("list appointments failed", zap.Error(err))
		fail(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respond(w, http.StatusOK, map[string]any{"items": apts, "total": len(apts)})
}

// GET /api/appointments/{id} (admin)
func GetAppointment(w http.ResponseWriter, r *http.Request) {
	var apt models.Appointment
	if err := db.Conn().Preload("User").
		First(&apt, "id = ?", chi.URLParam(r, "id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fail(w, http.StatusNotFound, "Appointment not found")
			return
		}
		zap.L().Error("get appointment failed", zap.Error(err))
		fail(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respond(w, http.StatusOK, apt)
}

// DELETE /api/appointments/{id} (admin)
func DeleteAppointment(w http.ResponseWriter, r *http.Request) {
	var apt models.Appointment
	if err := db.Conn().First(&apt, "id = ?", chi.URLParam(r, "id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fail(w, http.StatusNotFound, "Appointment not found")
			return
		}
		zap.L().Error("get appointment failed", zap.Error(err))
		fail(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if err := db.Conn().Delete(&apt).Error; err != nil {
		zap.L().Error("delete appointment failed", zap.Error(err))
		fail(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respondMsg(w, http.StatusOK, "Appointment deleted", nil)
}

// GET /api/appointments/{code}/qr.png
//
// PNG QR of the confirmation-page URL so the code can be scanned at the desk.
func AppointmentQR(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if code == "" {
		http.NotFound(w, r)
		return
	}
	// ensure code exists
	var apt models.Appointment
	if err := db.Conn().Where("code = ?", code).First(&apt).Error; err != nil {
		http.NotFound(w, r)
		return
	}

	url := config.Get().PublicBaseURL + "/appointment/success?code=" + code

	png, err := qrcode.Encode(url, qrcode.Medium, 256)
	if err != nil {
		http.Error(w, "failed to generate qr", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

// generateAppointmentCode creates a unique APT-xxxxxxxx code.
func generateAppointmentCode() string {
	for i := 0; i < 20; i++ {
		code := fmt.Sprintf("APT-%08X", rand.Int63n(1<<32))
		var exists int64
		_ = db.Conn().Model(&models.Appointment{}).Where("code = ?", code).Count(&exists).Error
		if exists == 0 {
			return code
		}
	}
	return ""
}

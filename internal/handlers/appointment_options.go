package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/hopebridge/intake/internal/db"
	"github.com/hopebridge/intake/internal/models"
)

// GET /api/appointment-options
func ListAppointmentOptions(w http.ResponseWriter, r *http.Request) {
	var opts []models.AppointmentOption
	if err := db.Conn().Order("created_at DESC").Find(&opts).Error; err != nil {
		zap.L().Error("list appointment options failed", zap.Error(err))
		fail(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respond(w, http.StatusOK, map[string]any{"items": opts, "total": len(opts)})
}

// POST /api/appointment-options (admin)
func CreateAppointmentOption(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text    string   `json:"text"`
		Options []string `json:"options"`
	}
	if err := decode(r, &req); err != nil {
		fail(w, http.StatusBadRequest, "Invalid parameters")
		return
	}
	if strings.TrimSpace(req.Text) == "" || len(req.Options) == 0 {
		fail(w, http.StatusBadRequest, "Invalid parameters")
		return
	}

	raw, err := json.Marshal(req.Options)
	if err != nil {
		fail(w, http.StatusBadRequest, "Invalid parameters")
		return
	}
	opt := models.AppointmentOption{Text: strings.TrimSpace(req.Text), Options: string(raw)}
	if err := db.Conn().Create(&opt).Error; err != nil {
		zap.L().Error("create appointment option failed", zap.Error(err))
		fail(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respondMsg(w, http.StatusOK, "Created successfully", opt)
}

// DELETE /api/appointment-options/{id} (admin)
func DeleteAppointmentOption(w http.ResponseWriter, r *http.Request) {
	var opt models.AppointmentOption
	if err := db.Conn().First(&opt, "id = ?", chi.URLParam(r, "id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fail(w, http.StatusNotFound, "Option not found")
			return
		}
		zap.L().Error("get appointment option failed", zap.Error(err))
		fail(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if err := db.Conn().Delete(&opt).Error; err != nil {
		zap.L().Error("delete appointment option failed", zap.Error(err))
		fail(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respondMsg(w, http.StatusOK, "Option deleted", nil)
}

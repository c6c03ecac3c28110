package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/hopebridge/intake/internal/db"
	mw "github.com/hopebridge/intake/internal/middleware"
	"github.com/hopebridge/intake/internal/models"
)

type surrogacyReq struct {
	UserID             string          `json:"userId"`
	Name               string          `json:"name"`
	Address            string          `json:"address"`
	City               string          `json:"city"`
	State              string          `json:"state"`
	PostalCode         string          `json:"postalCode"`
	Country            string          `json:"country"`
	Phone              string          `json:"phone"`
	Email              string          `json:"email"`
	DateOfBirth        string          `json:"dateOfBirth"`
	PartnerName        string          `json:"partnerName"`
	PartnerDateOfBirth string          `json:"partnerDateOfBirth"`
	Answers            json.RawMessage `json:"answers"`
}

// POST /api/surrogacy-applications
//
// Write-once intake snapshot tied to an existing user; there is no review or
// approval workflow behind it.
func CreateSurrogacyApplication(w http.ResponseWriter, r *http.Request) {
	var req surrogacyReq
	if err := decode(r, &req); err != nil {
		fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.UserID == "" || len(req.Answers) == 0 || string(req.Answers) == "[]" || string(req.Answers) == "null" {
		fail(w, http.StatusBadRequest, "Missing required fields")
		return
	}
	if !userExists(w, req.UserID) {
		return
	}

	app := models.SurrogacyApplication{
		UserID:      req.UserID,
		Name:        req.Name,
		Address:     req.Address,
		City:        req.City,
		State:       req.State,
		PostalCode:  req.PostalCode,
		Country:     req.Country,
		Phone:       req.Phone,
		Email:       req.Email,
		PartnerName: req.PartnerName,
		Answers:     string(req.Answers),
	}
	var err error
	if app.DateOfBirth, err = parseOptionalDate(req.DateOfBirth); err != nil {
		fail(w, http.StatusBadRequest, "Invalid date of birth")
		return
	}
	if app.PartnerDateOfBirth, err = parseOptionalDate(req.PartnerDateOfBirth); err != nil {
		fail(w, http.StatusBadRequest, "Invalid partner date of birth")
		return
	}

	if err := db.Conn().Create(&app).Error; err != nil {
		zap.L().Error("create surrogacy application failed", zap.Error(err))
		fail(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respondMsg(w, http.StatusOK, "Application submitted successfully", app)
}

// GET /api/surrogacy-applications
//
// Admins see every application; regular users only their own, regardless of
// the userId filter they pass.
func ListSurrogacyApplications(w http.ResponseWriter, r *http.Request) {
	claims := mw.SessionFrom(r.Context())

	userID := r.URL.Query().Get("userId")
	if !claims.IsAdmin {
		userID = claims.UserID
	}

	q := db.Conn().Preload("User").Order("created_at DESC")
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}
	var apps []models.SurrogacyApplication
	if err := q.Find(&apps).Error; err != nil {
		zap.L().Error("list surrogacy applications failed", zap.Error(err))
		fail(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respond(w, http.StatusOK, map[string]any{"items": apps, "total": len(apps)})
}

type surrogateMotherReq struct {
	UserID        string  `json:"userId"`
	Name          string  `json:"name"`
	Age           int     `json:"age"`
	BirthDate     string  `json:"birthDate"`
	Height        float64 `json:"height"`
	Weight        float64 `json:"weight"`
	Ethnicity     string  `json:"ethnicity"`
	Education     string  `json:"education"`
	MaritalStatus string  `json:"maritalStatus"`
	HasChildren   bool    `json:"hasChildren"`
	Address       string  `json:"address"`
	City          string  `json:"city"`
	State         string  `json:"state"`
	PostalCode    string  `json:"postalCode"`
	Country       string  `json:"country"`
	PhoneNumber   string  `json:"phoneNumber"`
	Email         string  `json:"email"`
}

// POST /api/surrogate-mother-applications
func CreateSurrogateMotherApplication(w http.ResponseWriter, r *http.Request) {
	var req surrogateMotherReq
	if err := decode(r, &req); err != nil {
		fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.UserID == "" {
		fail(w, http.StatusBadRequest, "User ID is required")
		return
	}
	if !userExists(w, req.UserID) {
		return
	}

	app := models.SurrogateMotherApplication{
		UserID:        req.UserID,
		Name:          req.Name,
		Age:           req.Age,
		Height:        req.Height,
		Weight:        req.Weight,
		Ethnicity:     req.Ethnicity,
		Education:     req.Education,
		MaritalStatus: req.MaritalStatus,
		HasChildren:   req.HasChildren,
		Address:       req.Address,
		City:          req.City,
		State:         req.State,
		PostalCode:    req.PostalCode,
		Country:       req.Country,
		PhoneNumber:   req.PhoneNumber,
		Email:         req.Email,
	}
	if req.BirthDate != "" {
		bd, err := parseDate(req.BirthDate)
		if err != nil {
			fail(w, http.StatusBadRequest, "Invalid birth date")
			return
		}
		app.BirthDate = bd
	}

	if err := db.Conn().Create(&app).Error; err != nil {
		zap.L().Error("create surrogate mother application failed", zap.Error(err))
		fail(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respondMsg(w, http.StatusOK, "Application submitted successfully", app)
}

// GET /api/surrogate-mother-applications (admin)
func ListSurrogateMotherApplications(w http.ResponseWriter, r *http.Request) {
	var apps []models.SurrogateMotherApplication
	if err := db.Conn().Order("created_at DESC").Find(&apps).Error; err != nil {
		zap.L().Error("list surrogate mother applications failed", zap.Error(err))
		fail(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respond(w, http.StatusOK, map[string]any{"items": apps, "total": len(apps)})
}

// userExists writes the error response itself and reports whether to proceed.
func userExists(w http.ResponseWriter, id string) bool {
	var user models.User
	err := db.Conn().Select("id").First(&user, "id = ?", id).Error
	if err == nil {
		return true
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		fail(w, http.StatusNotFound, "User not found")
	} else {
		zap.L().Error("lookup user failed", zap.Error(err))
		fail(w, http.StatusInternalServerError, "Internal server error")
	}
	return false
}

func parseOptionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := parseDate(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

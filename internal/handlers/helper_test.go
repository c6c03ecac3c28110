package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"path/filepath"
	"testing"
	"time"

	"github.com/hopebridge/intake/internal/auth"
	"github.com/hopebridge/intake/internal/config"
	"github.com/hopebridge/intake/internal/db"
	"github.com/hopebridge/intake/internal/models"
	"github.com/hopebridge/intake/internal/services"
	"github.com/hopebridge/intake/internal/web"
)

const testSecret = "handler-test-secret"

// setup gives each test a fresh database, upload dir and router.
func setup(t *testing.T) http.Handler {
	t.Helper()
	dir := t.TempDir()

	config.Set(config.Config{
		Addr:             ":0",
		DBPath:           filepath.Join(dir, "intake.db"),
		JWTSecret:        testSecret,
		SessionTTLHrs:    1,
		PublicBaseURL:    "http://test.local",
		UploadDir:        filepath.Join(dir, "uploads"),
		MaxVideoUploadMB: 1,
		LoginRatePerMin:  600,
	})
	if err := db.Init(config.Get().DBPath); err != nil {
		t.Fatalf("db init: %v", err)
	}
	if err := services.InitUploads(config.Get().UploadDir, config.Get().PublicBaseURL); err != nil {
		t.Fatalf("uploads init: %v", err)
	}
	return web.Router()
}

type env struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// doJSON performs a request with an optional JSON body and bearer token.
func doJSON(t *testing.T, h http.Handler, method, path string, body any, token string) (*httptest.ResponseRecorder, env) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var e env
	if ct := rec.Header().Get("Content-Type"); ct == "application/json" {
		_ = json.Unmarshal(rec.Body.Bytes(), &e)
	}
	return rec, e
}

// seedUser inserts a user row and returns it with a valid session token.
func seedUser(t *testing.T, email string, admin bool) (models.User, string) {
	t.Helper()
	hash, err := auth.HashPassword("password123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	user := models.User{Email: email, PasswordHash: hash, Name: "Test User", IsAdmin: admin}
	if err := db.Conn().Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	token, err := auth.MakeToken(auth.Claims{
		UserID:  user.ID,
		Email:   user.Email,
		Name:    user.Name,
		IsAdmin: user.IsAdmin,
	}, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("make token: %v", err)
	}
	return user, token
}

// multipartBody builds a single-file multipart form.
func multipartBody(t *testing.T, field, filename, contentType string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mp := multipart.NewWriter(&buf)
	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	hdr.Set("Content-Type", contentType)
	part, err := mp.CreatePart(hdr)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write part: %v", err)
	}
	mp.Close()
	return &buf, mp.FormDataContentType()
}

package web_test

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hopebridge/intake/internal/config"
	"github.com/hopebridge/intake/internal/db"
	"github.com/hopebridge/intake/internal/services"
	"github.com/hopebridge/intake/internal/web"
)

func newRouter(t *testing.T) http.Handler {
	t.Helper()
	dir := t.TempDir()
	config.Set(config.Config{
		Addr:            ":0",
		DBPath:          filepath.Join(dir, "intake.db"),
		JWTSecret:       "router-test-secret",
		SessionTTLHrs:   1,
		PublicBaseURL:   "http://test.local",
		UploadDir:       filepath.Join(dir, "uploads"),
		LoginRatePerMin: 600,
	})
	if err := db.Init(config.Get().DBPath); err != nil {
		t.Fatal(err)
	}
	if err := services.InitUploads(config.Get().UploadDir, config.Get().PublicBaseURL); err != nil {
		t.Fatal(err)
	}
	return web.Router()
}

func TestRouterHealthz(t *testing.T) {
	h := newRouter(t)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("healthz = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "ok") {
		t.Fatalf("healthz body = %q", rec.Body.String())
	}
}

func TestRouterAdminSurfaceIsGated(t *testing.T) {
	h := newRouter(t)
	for _, path := range []string{
		"/api/users",
		"/api/appointments",
		"/api/chats",
		"/api/surrogate-mother-applications",
	} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("GET %s anonymous = %d, want 401", path, rec.Code)
		}
	}
}

func TestRouterPublicReads(t *testing.T) {
	h := newRouter(t)
	for _, path := range []string{
		"/api/about",
		"/api/about/videos",
		"/api/views",
		"/api/information",
		"/api/comments",
		"/api/appointment-options",
	} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s = %d, want 200", path, rec.Code)
		}
	}
}

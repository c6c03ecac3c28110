package services

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/hopebridge/intake/internal/auth"
	"github.com/hopebridge/intake/internal/db"
	"github.com/hopebridge/intake/internal/models"
)

func initDB(t *testing.T) {
	t.Helper()
	if err := db.Init(filepath.Join(t.TempDir(), "intake.db")); err != nil {
		t.Fatal(err)
	}
}

func TestRegisterAndLogin(t *testing.T) {
	initDB(t)

	user, err := Register("", "pat@example.com", "secret123")
	if err != nil {
		t.Fatal(err)
	}
	if user.Name != "pat" {
		t.Fatalf("default name = %q, want local part", user.Name)
	}
	if user.IsAdmin {
		t.Fatal("self-registration must not create admins")
	}
	if user.PasswordHash == "secret123" {
		t.Fatal("password stored in the clear")
	}

	if _, err := Register("Other", "pat@example.com", "x"); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("duplicate register err = %v", err)
	}

	if _, err := Login("pat@example.com", "secret123"); err != nil {
		t.Fatal(err)
	}
	if _, err := Login("pat@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password err = %v", err)
	}
	if _, err := Login("nobody@example.com", "secret123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email err = %v", err)
	}
}

func TestResetPassword_SingleUse(t *testing.T) {
	initDB(t)
	if _, err := Register("Pat", "pat@example.com", "oldpass99"); err != nil {
		t.Fatal(err)
	}

	token, err := CreateReset("pat@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if err := ResetPassword(token, "newpass99"); err != nil {
		t.Fatal(err)
	}
	if _, err := Login("pat@example.com", "newpass99"); err != nil {
		t.Fatal(err)
	}
	if err := ResetPassword(token, "again"); !errors.Is(err, ErrBadResetToken) {
		t.Fatalf("replayed token err = %v", err)
	}
	if _, err := Login("pat@example.com", "newpass99"); err != nil {
		t.Fatal("replay attempt must not change the password")
	}
}

func TestPurgeExpiredResets(t *testing.T) {
	initDB(t)

	rows := []models.PasswordReset{
		{Email: "a@example.com", Token: auth.NewResetToken(), Expires: time.Now().Add(-time.Hour)},
		{Email: "b@example.com", Token: auth.NewResetToken(), Expires: time.Now().Add(-time.Minute)},
		{Email: "c@example.com", Token: auth.NewResetToken(), Expires: time.Now().Add(time.Hour)},
	}
	for i := range rows {
		if err := db.Conn().Create(&rows[i]).Error; err != nil {
			t.Fatal(err)
		}
	}

	n, err := PurgeExpiredResets()
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("purged %d rows, want 2", n)
	}
	var remaining int64
	db.Conn().Model(&models.PasswordReset{}).Count(&remaining)
	if remaining != 1 {
		t.Fatalf("%d rows remain, want 1", remaining)
	}
}

func TestNormEmail(t *testing.T) {
	for _, tc := range []struct {
		in  string
		out string
		ok  bool
	}{
		{"  Pat@Example.COM ", "pat@example.com", true},
		{"", "", true},
		{"not-an-email", "not-an-email", false},
	} {
		got, ok := NormEmail(tc.in)
		if got != tc.out || ok != tc.ok {
			t.Errorf("NormEmail(%q) = %q, %v; want %q, %v", tc.in, got, ok, tc.out, tc.ok)
		}
	}
}

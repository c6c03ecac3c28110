package services

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/hopebridge/intake/internal/auth"
	"github.com/hopebridge/intake/internal/db"
	"github.com/hopebridge/intake/internal/models"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrWrongPassword      = errors.New("old password is incorrect")
	ErrBadResetToken      = errors.New("invalid or expired token")
)

const resetTokenTTL = time.Hour

// Register creates a user with a bcrypt-hashed password. The self-service
// path always creates non-admins; admins are promoted via the user update
// endpoint.
func Register(name, email, password string) (*models.User, error) {
	var existing models.User
	err := db.Conn().Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	if name == "" {
		// fall back to the local part of the address
		name = strings.SplitN(email, "@", 2)[0]
	}
	user := models.User{Email: email, PasswordHash: hash, Name: name}
	if err := db.Conn().Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Login verifies credentials. Unknown email and wrong password return the
// same error so the response can stay generic.
func Login(email, password string) (*models.User, error) {
	var user models.User
	if err := db.Conn().Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

func ChangePassword(email, oldPassword, newPassword string) error {
	var user models.User
	if err := db.Conn().Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if !auth.CheckPassword(user.PasswordHash, oldPassword) {
		return ErrWrongPassword
	}
	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return db.Conn().Model(&user).Update("password_hash", hash).Error
}

// CreateReset issues a single-use reset token for the address. Returns
// ErrUserNotFound for unknown emails; the handler still answers 200 so the
// endpoint cannot be used to enumerate accounts.
func CreateReset(email string) (string, error) {
	var user models.User
	if err := db.Conn().Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrUserNotFound
		}
		return "", err
	}

	reset := models.PasswordReset{
		Email:   user.Email,
		Token:   auth.NewResetToken(),
		Expires: time.Now().Add(resetTokenTTL),
	}
	if err := db.Conn().Create(&reset).Error; err != nil {
		return "", err
	}
	return reset.Token, nil
}

// ResetPassword consumes a reset token: the new hash is written and the token
// row deleted in one transaction, so a token can never be replayed.
func ResetPassword(token, newPassword string) error {
	return db.Conn().Transaction(func(tx *gorm.DB) error {
		var reset models.PasswordReset
		if err := tx.Where("token = ?", token).First(&reset).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBadResetToken
			}
			return err
		}
		if reset.Expires.Before(time.Now()) {
			return ErrBadResetToken
		}

		hash, err := auth.HashPassword(newPassword)
		if err != nil {
			return err
		}
		if err := tx.Model(&models.User{}).Where("email = ?", reset.Email).
			Update("password_hash", hash).Error; err != nil {
			return err
		}
		return tx.Delete(&reset).Error
	})
}

// PurgeExpiredResets removes stale token rows; run nightly by the cron job.
func PurgeExpiredResets() (int64, error) {
	res := db.Conn().Where("expires < ?", time.Now()).Delete(&models.PasswordReset{})
	return res.RowsAffected, res.Error
}

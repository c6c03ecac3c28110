package db

import (
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/hopebridge/intake/internal/models"
)

var conn *gorm.DB

func Init(path string) error {
	var err error
	conn, err = gorm.Open(sqlite.Open(path+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"), &gorm.Config{})
	if err != nil {
		return err
	}

	// SQLite works best with a single writer; cap the pool accordingly.
	sqlDB, err := conn.DB()
	if err != nil {
		return err
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	if err := conn.AutoMigrate(
		&models.User{},
		&models.Appointment{},
		&models.AppointmentOption{},
		&models.Chat{},
		&models.Message{},
		&models.AboutItem{},
		&models.AboutVideo{},
		&models.View{},
		&models.Information{},
		&models.Comment{},
		&models.SurrogacyApplication{},
		&models.SurrogateMotherApplication{},
		&models.PasswordReset{},
	); err != nil {
		return err
	}

	// Composite indexes that GORM doesn't auto-create from struct tags.
	conn.Exec("CREATE INDEX IF NOT EXISTS idx_messages_chat_created ON messages(chat_id, created_at)")
	conn.Exec("CREATE INDEX IF NOT EXISTS idx_appointments_time     ON appointments(appointment_time)")

	log.Println("database ready (sqlite)")
	return nil
}

func Conn() *gorm.DB {
	return conn
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Chat status values.
const (
	ChatOpen   = "OPEN"
	ChatClosed = "CLOSED"
)

// Message role values.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// Base carries the string UUID key and timestamps shared by every table.
type Base struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

type User struct {
	Base

	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `json:"-"`
	Name         string `json:"name"`
	IsAdmin      bool   `json:"isAdmin"`
	Image        string `json:"image"`

	PhoneNumber string     `json:"phoneNumber"`
	DateOfBirth *time.Time `json:"dateOfBirth"`
	Address     string     `json:"address"`
	City        string     `json:"city"`
	State       string     `json:"state"`
	Country     string     `json:"country"`
	PostalCode  string     `json:"postalCode"`
}

type Appointment struct {
	Base

	UserID *string `gorm:"index" json:"userId"`
	User   *User   `json:"user,omitempty"`

	Name            string    `json:"name"`
	Phone           string    `json:"phone"`
	Type            string    `json:"type"`
	Zone            string    `json:"zone"`
	Answers         string    `json:"answers"` // JSON blob from the booking form
	AppointmentTime time.Time `json:"appointmentTime"`
	Code            string    `gorm:"uniqueIndex" json:"code"` // e.g. APT-1A2B3C4D
}

type AppointmentOption struct {
	Base

	Text    string `json:"text"`
	Options string `json:"options"` // JSON array of choice labels
}

type Chat struct {
	Base

	UserID   *string   `json:"userId"`
	UserName string    `json:"userName"`
	Status   string    `gorm:"default:OPEN" json:"status"`
	Messages []Message `json:"messages,omitempty"`
}

type Message struct {
	Base

	ChatID  string `gorm:"index;not null" json:"chatId"`
	Content string `json:"content"`
	Role    string `json:"role"`
}

type AboutItem struct {
	Base

	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content"`
	ImageUrl    string `json:"imageUrl"`
	Order       int    `json:"order"`
	IsActive    bool   `gorm:"default:true" json:"isActive"`
}

type AboutVideo struct {
	Base

	Url      string  `json:"url"`
	Size     int64   `json:"size"`
	MimeType string  `json:"mimeType"`
	UserID   *string `json:"userId"`
}

type View struct {
	Base

	Title      string `json:"title"`
	Desc       string `json:"desc"`
	Background string `json:"background"`
	Order      int    `json:"order"`
	IsActive   bool   `gorm:"default:true" json:"isActive"`
}

type Information struct {
	Base

	Title   string `json:"title"`
	Content string `json:"content"`
	Url     string `json:"url"`
	Type    string `json:"type"`
}

type Comment struct {
	Base

	Name    string `json:"name"`
	Content string `json:"content"`
}

type SurrogacyApplication struct {
	Base

	UserID string `gorm:"index;not null" json:"userId"`
	User   *User  `json:"user,omitempty"`

	Name               string     `json:"name"`
	Address            string     `json:"address"`
	City               string     `json:"city"`
	State              string     `json:"state"`
	PostalCode         string     `json:"postalCode"`
	Country            string     `json:"country"`
	Phone              string     `json:"phone"`
	Email              string     `json:"email"`
	DateOfBirth        *time.Time `json:"dateOfBirth"`
	PartnerName        string     `json:"partnerName"`
	PartnerDateOfBirth *time.Time `json:"partnerDateOfBirth"`
	Answers            string     `json:"answers"` // JSON array of questionnaire answers
}

type SurrogateMotherApplication struct {
	Base

	UserID string `gorm:"index;not null" json:"userId"`

	Name          string    `json:"name"`
	Age           int       `json:"age"`
	BirthDate     time.Time `json:"birthDate"`
	Height        float64   `json:"height"`
	Weight        float64   `json:"weight"`
	Ethnicity     string    `json:"ethnicity"`
	Education     string    `json:"education"`
	MaritalStatus string    `json:"maritalStatus"`
	HasChildren   bool      `json:"hasChildren"`
	Address       string    `json:"address"`
	City          string    `json:"city"`
	State         string    `json:"state"`
	PostalCode    string    `json:"postalCode"`
	Country       string    `json:"country"`
	PhoneNumber   string    `json:"phoneNumber"`
	Email         string    `json:"email"`
}

// PasswordReset is a single-use capability token; consumed on successful reset
// and swept by the nightly job once expired.
type PasswordReset struct {
	Base

	Email   string    `gorm:"index" json:"email"`
	Token   string    `gorm:"uniqueIndex" json:"-"`
	Expires time.Time `json:"expires"`
}

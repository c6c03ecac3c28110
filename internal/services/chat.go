package services

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/hopebridge/intake/internal/db"
	"github.com/hopebridge/intake/internal/models"
)

var (
	ErrChatNotFound = errors.New("chat not found")
	ErrChatClosed   = errors.New("chat is closed")
	ErrEmptyMessage = errors.New("message content is required")
)

// CreateChat opens a conversation with its first USER message. Both rows are
// written in one transaction so a chat can never exist without a message.
func CreateChat(userID *string, userName, message string) (*models.Chat, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, ErrEmptyMessage
	}

	chat := models.Chat{UserID: userID, UserName: userName, Status: models.ChatOpen}
	err := db.Conn().Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&chat).Error; err != nil {
			return err
		}
		msg := models.Message{ChatID: chat.ID, Content: message, Role: models.RoleUser}
		return tx.Create(&msg).Error
	})
	if err != nil {
		return nil, err
	}

	if err := db.Conn().Preload("Messages").First(&chat, "id = ?", chat.ID).Error; err != nil {
		return nil, err
	}
	return &chat, nil
}

// AppendMessage adds a message to an open chat and bumps the chat's
// UpdatedAt so the admin list sorts it to the top.
func AppendMessage(chatID, content, role string) (*models.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyMessage
	}

	var chat models.Chat
	if err := db.Conn().First(&chat, "id = ?", chatID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChatNotFound
		}
		return nil, err
	}
	if chat.Status == models.ChatClosed {
		return nil, ErrChatClosed
	}

	msg := models.Message{ChatID: chatID, Content: content, Role: role}
	err := db.Conn().Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&msg).Error; err != nil {
			return err
		}
		return tx.Model(&chat).Update("updated_at", time.Now()).Error
	})
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// ListMessages returns a chat's messages oldest first. The id tiebreak keeps
// the order stable when two messages land on the same timestamp.
func ListMessages(chatID string) ([]models.Message, error) {
	var msgs []models.Message
	err := db.Conn().Where("chat_id = ?", chatID).
		Order("created_at ASC, id ASC").Find(&msgs).Error
	return msgs, err
}

// ListChats returns all chats, most recently active first, each carrying only
// its latest message for the overview list.
func ListChats() ([]models.Chat, error) {
	var chats []models.Chat
	err := db.Conn().
		Preload("Messages", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("created_at DESC, id DESC")
		}).
		Order("updated_at DESC").Find(&chats).Error
	if err != nil {
		return nil, err
	}
	for i := range chats {
		if len(chats[i].Messages) > 1 {
			chats[i].Messages = chats[i].Messages[:1]
		}
	}
	return chats, nil
}

// CloseChat transitions OPEN -> CLOSED. Closing an already-closed chat is a
// no-op.
func CloseChat(chatID string) (*models.Chat, error) {
	var chat models.Chat
	if err := db.Conn().First(&chat, "id = ?", chatID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChatNotFound
		}
		return nil, err
	}
	if chat.Status != models.ChatClosed {
		chat.Status = models.ChatClosed
		if err := db.Conn().Save(&chat).Error; err != nil {
			return nil, err
		}
	}
	return &chat, nil
}

package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	mw "github.com/hopebridge/intake/internal/middleware"
	"github.com/hopebridge/intake/internal/models"
	svc "github.com/hopebridge/intake/internal/services"
)

// POST /api/chats
//
// Opens a chat with its first message. Anonymous visitors may start chats;
// when a session is present the chat is linked to the user.
func CreateChat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserName string `json:"userName"`
		Message  string `json:"message"`
	}
	if err := decode(r, &req); err != nil {
		fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var userID *string
	userName := strings.TrimSpace(req.UserName)
	if claims := mw.SessionFrom(r.Context()); claims != nil {
		userID = &claims.UserID
		if userName == "" {
			userName = claims.Name
		}
	}
	if userName == "" {
		userName = "Guest"
	}

	chat, err := svc.CreateChat(userID, userName, req.Message)
	if err != nil {
		if errors.Is(err, svc.ErrEmptyMessage) {
			fail(w, http.StatusBadRequest, "Message content is required")
			return
		}
		zap.L().Error("create chat failed", zap.Error(err))
		fail(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respond(w, http.StatusOK, chat)
}

// GET /api/chats (admin)
func ListChats(w http.ResponseWriter, r *http.Request) {
	chats, err := svc.ListChats()
	if err != nil {
		zap.L().Error("list chats failed", zap.Error(err))
		fail(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respond(w, http.StatusOK, map[string]any{"items": chats, "total": len(chats)})
}

// GET /api/chats/{id}/messages
//
// The polling endpoint: clients re-fetch this on a fixed interval while the
// chat stays open. Messages come back oldest first.
func ListChatMessages(w http.ResponseWriter, r *http.Request) {
	msgs, err := svc.ListMessages(chi.URLParam(r, "id"))
	if err != nil {
		zap.L().Error("list messages failed", zap.Error(err))
		fail(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respond(w, http.StatusOK, map[string]any{"items": msgs, "total": len(msgs)})
}

// POST /api/chats/{id}/messages
//
// Appends to an open chat. Admin sessions write ADMIN messages, everyone else
// writes USER messages.
func CreateChatMessage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content string `json:"content"`
	}
	if err := decode(r, &req); err != nil {
		fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	role := models.RoleUser
	if claims := mw.SessionFrom(r.Context()); claims != nil && claims.IsAdmin {
		role = models.RoleAdmin
	}

	msg, err := svc.AppendMessage(chi.URLParam(r, "id"), req.Content, role)
	switch {
	case errors.Is(err, svc.ErrChatNotFound):
		fail(w, http.StatusNotFound, "Chat not found")
	case errors.Is(err, svc.ErrChatClosed):
		fail(w, http.StatusBadRequest, "Chat is closed")
	case errors.Is(err, svc.ErrEmptyMessage):
		fail(w, http.StatusBadRequest, "Message content is required")
	case err != nil:
		zap.L().Error("create message failed", zap.Error(err))
		fail(w, http.StatusInternalServerError, "Internal server error")
	default:
		respond(w, http.StatusOK, msg)
	}
}

// PATCH /api/chats/{id}/close (admin)
func CloseChat(w http.ResponseWriter, r *http.Request) {
	chat, err := svc.CloseChat(chi.URLParam(r, "id"))
	switch {
	case errors.Is(err, svc.ErrChatNotFound):
		fail(w, http.StatusNotFound, "Chat not found")
	case err != nil:
		zap.L().Error("close chat failed", zap.Error(err))
		fail(w, http.StatusInternalServerError, "Internal server error")
	default:
		respondMsg(w, http.StatusOK, "Chat closed", chat)
	}
}

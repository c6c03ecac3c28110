package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// envelope is the single response shape used by every endpoint.
type envelope struct {
	Code    int    `json:"code"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func respond(w http.ResponseWriter, status int, data any) {
	respondMsg(w, status, "", data)
}

func respondMsg(w http.ResponseWriter, status int, msg string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Code: status, Message: msg, Data: data})
}

func fail(w http.ResponseWriter, status int, msg string) {
	respondMsg(w, status, msg, nil)
}

var errEmptyBody = errors.New("empty request body")

func decode(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return errEmptyBody
	}
	return err
}

package handlers

import "net/http"

func Health(w http.ResponseWriter, r *http.Request) {
	respondMsg(w, http.StatusOK, "ok", nil)
}

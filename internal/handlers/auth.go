package handlers

import (
	"encoding/json"
	"mime"
	"net/http"
	"strings"

	"Portfolio/internal/models"
	"Portfolio/internal/sessions"
)

// HandleLogin проверяет логин/пароль администратора.
// Тело — JSON {username, password} или обычная форма.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"success": false})
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"success": false})
			return
		}
		req.Username = strings.TrimSpace(r.FormValue("username"))
		req.Password = r.FormValue("password")
	}

	if !sessions.Authenticate(h.Admin, req.Username, req.Password) {
		h.logger().Info("login rejected", "remote", r.RemoteAddr)
		writeJSON(w, http.StatusOK, map[string]any{"success": false})
		return
	}
	if err := h.Sessions.SetAdmin(w, r); err != nil {
		h.logger().Error("session save error", "err", err)
		fail(w, http.StatusInternalServerError, "session error")
		return
	}
	h.logger().Info("admin logged in", "remote", r.RemoteAddr)
	ok(w)
}

// HandleLogout удаляет сессию. Успешен всегда, даже без активной сессии.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.Destroy(w, r); err != nil {
		h.logger().Warn("session destroy error", "err", err)
	}
	ok(w)
}

func (h *Handler) IsAdmin(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"isAdmin": sessions.FromContext(r.Context()).IsAdmin,
	})
}

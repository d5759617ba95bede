package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"Portfolio/internal/db"
	"Portfolio/internal/files"
	"Portfolio/internal/models"
	"Portfolio/internal/sessions"
)

// Handler — зависимости HTTP-слоя. Никаких глобальных переменных:
// всё, что нужно хендлерам, передаётся сюда при старте.
type Handler struct {
	Records   *db.Records
	Files     *files.Store
	Sessions  *sessions.Manager
	Admin     models.Administrator
	MaxUpload int64 // байты
	Log       *slog.Logger
}

func (h *Handler) logger() *slog.Logger {
	if h.Log == nil {
		return slog.New(slog.DiscardHandler)
	}
	return h.Log
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// fail — единый ответ об ошибке записи: {success:false, error}
func fail(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{
		"success": false,
		"error":   msg,
	})
}

func ok(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

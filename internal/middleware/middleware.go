package middleware

import (
	"encoding/json"
	"net/http"

	"Portfolio/internal/sessions"
)

// Session кладёт состояние сессии в контекст запроса.
// Дальше хендлеры и AdminOnly смотрят только в контекст.
func Session(m *sessions.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			st := m.State(r)
			next.ServeHTTP(w, r.WithContext(sessions.WithState(r.Context(), st)))
		})
	}
}

// Вариант 1: обёртка для конкретных хендлеров
// Позволяет писать: r.Post("/path", middleware.AdminOnly(handler))
func AdminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !sessions.FromContext(r.Context()).IsAdmin {
			forbidden(w)
			return
		}
		next(w, r)
	}
}

// Вариант 2: chi-совместимая мидлварь
// Позволяет писать: g.Use(middleware.AdminOnlyMW)
func AdminOnlyMW(next http.Handler) http.Handler {
	return AdminOnly(next.ServeHTTP)
}

func forbidden(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusForbidden)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": "Unauthorized",
	})
}

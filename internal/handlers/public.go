package handlers

import (
	"encoding/json"
	"net/http"

	"Portfolio/internal/markup"
	"Portfolio/internal/models"
)

/* ========= ПУБЛИЧНОЕ ЧТЕНИЕ ========= */

// ListImages отдаёт просто массив URL — так его ждёт сетка на главной.
func (h *Handler) ListImages(sec models.Section) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, h.Records.Images(r.Context(), sec))
	}
}

// GetSection — текст (сырой и отрендеренный) плюс картинки раздела.
func (h *Handler) GetSection(sec models.Section) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := h.Records.Section(r.Context(), sec)
		writeJSON(w, http.StatusOK, models.SectionResponse{
			Text:   rec.Text,
			HTML:   string(markup.Render(rec.Text)),
			Images: rec.Images,
		})
	}
}

func (h *Handler) GetText(sec models.Section) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, models.TextRequest{Text: h.Records.Text(r.Context(), sec)})
	}
}

/* ========= АДМИН ========= */

// SetText заменяет текст раздела целиком.
func (h *Handler) SetText(sec models.Section) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.TextRequest
		r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			fail(w, http.StatusBadRequest, "expected JSON {text}")
			return
		}
		if err := h.Records.SetText(r.Context(), sec, req.Text); err != nil {
			h.logger().Error("set text failed", "section", sec, "err", err)
			fail(w, http.StatusInternalServerError, "could not save text")
			return
		}
		ok(w)
	}
}

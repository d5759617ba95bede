package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"Portfolio/internal/files"
	"Portfolio/internal/models"
)

// Upload принимает multipart-поле "image" и добавляет картинку в конец раздела.
// Запись в список только после успешной записи файла; если список не сохранился,
// файл удаляется, чтобы не копить мусор.
func (h *Handler) Upload(sec models.Section) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Ограничиваем тело запроса и парсим multipart
		r.Body = http.MaxBytesReader(w, r.Body, h.MaxUpload)
		if err := r.ParseMultipartForm(h.MaxUpload); err != nil {
			var tooBig *http.MaxBytesError
			if errors.As(err, &tooBig) {
				fail(w, http.StatusRequestEntityTooLarge, "file too large")
				return
			}
			fail(w, http.StatusBadRequest, "expected multipart form")
			return
		}
		if hint := r.FormValue("section"); hint != "" && hint != string(sec) {
			h.logger().Debug("upload section hint ignored", "route", sec, "hint", hint)
		}

		file, header, err := r.FormFile("image")
		if err != nil {
			fail(w, http.StatusBadRequest, "missing image field")
			return
		}
		defer file.Close()

		url, err := h.Files.Save(sec, file, header.Filename)
		if errors.Is(err, files.ErrUnsupportedType) {
			fail(w, http.StatusBadRequest, "unsupported file type")
			return
		}
		if err != nil {
			h.logger().Error("store upload failed", "section", sec, "err", err)
			fail(w, http.StatusInternalServerError, "could not save file")
			return
		}

		evicted, err := h.Records.AppendImage(r.Context(), sec, url)
		if err != nil {
			h.logger().Error("append image failed", "section", sec, "err", err)
			h.removeFile(sec, files.Filename(url))
			fail(w, http.StatusInternalServerError, "could not save image list")
			return
		}
		for _, old := range evicted {
			h.removeFile(sec, files.Filename(old))
		}

		h.logger().Info("image uploaded", "section", sec, "url", url)
		writeJSON(w, http.StatusOK, models.UploadResponse{Success: true, URL: url})
	}
}

// DeleteImage убирает картинку из списка раздела и удаляет файл.
// Уже отсутствующая запись или файл — тоже успех.
func (h *Handler) DeleteImage(sec models.Section) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filename := chi.URLParam(r, "filename")
		if !files.ValidName(filename) {
			fail(w, http.StatusBadRequest, "invalid file name")
			return
		}

		if _, err := h.Records.RemoveImage(r.Context(), sec, filename); err != nil {
			h.logger().Error("remove image failed", "section", sec, "file", filename, "err", err)
			fail(w, http.StatusInternalServerError, "could not update image list")
			return
		}
		if _, err := h.Files.Delete(sec, filename); err != nil {
			// запись уже убрана; файл остаётся сиротой
			h.logger().Warn("file delete failed", "section", sec, "file", filename, "err", err)
		}
		ok(w)
	}
}

func (h *Handler) removeFile(sec models.Section, filename string) {
	if _, err := h.Files.Delete(sec, filename); err != nil {
		h.logger().Warn("file cleanup failed", "section", sec, "file", filename, "err", err)
	}
}

package handlers

import (
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	mw "Portfolio/internal/middleware"
	"Portfolio/internal/models"
)

// Routes собирает роутер: базовые middleware, статика, JSON API.
// publicDir — фронтенд; пустая строка или отсутствующий каталог — без него.
func (h *Handler) Routes(publicDir string) http.Handler {
	r := chi.NewRouter()

	// базовые middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(mw.Session(h.Sessions))

	// статика: загруженные файлы отдаются как есть
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(noListFS{http.Dir(h.Files.Root())})))

	// ---------- Аутентификация администратора ----------
	r.Post("/login", h.HandleLogin)
	r.Post("/logout", h.HandleLogout)
	r.Get("/is-admin", h.IsAdmin)

	// ---------- Главная сетка (старые пути) ----------
	r.Get("/images", h.ListImages(models.SectionMain))
	r.Post("/upload", mw.AdminOnly(h.Upload(models.SectionMain)))
	r.Delete("/images/{filename}", mw.AdminOnly(h.DeleteImage(models.SectionMain)))

	// ---------- Разделы ----------
	r.Route("/api", func(api chi.Router) {
		for _, sec := range models.Sections {
			if sec == models.SectionMain {
				continue
			}
			mount := func(prefix string) {
				api.Route(prefix, func(s chi.Router) {
					s.Get("/", h.GetSection(sec))
					if sec.HasText() {
						s.Get("/text", h.GetText(sec))
					}

					// запись — только для админа
					s.Group(func(admin chi.Router) {
						admin.Use(mw.AdminOnlyMW)
						admin.Post("/upload", h.Upload(sec))
						admin.Delete("/images/{filename}", h.DeleteImage(sec))
						if sec.HasText() {
							admin.Post("/text", h.SetText(sec))
						}
					})
				})
			}
			mount("/" + string(sec))
			if sec == models.SectionPortrait {
				// фронтенд исторически ходит на /api/portratt
				mount("/portratt")
			}
		}
	})

	if info, err := os.Stat(publicDir); publicDir != "" && err == nil && info.IsDir() {
		r.Handle("/*", http.FileServer(http.Dir(publicDir)))
	}
	return r
}

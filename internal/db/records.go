package db

import (
	"context"
	"log/slog"
	"slices"

	"Portfolio/internal/files"
	"Portfolio/internal/models"
)

// Records — хранилище разделов поверх Backend.
// Чтения никогда не падают: ошибка бэкенда логируется и даёт пустое значение.
type Records struct {
	backend Backend
	log     *slog.Logger
}

func NewRecords(b Backend, logger *slog.Logger) *Records {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Records{backend: b, log: logger}
}

func (r *Records) Close() error { return r.backend.Close() }

// Images — упорядоченный список URL раздела.
func (r *Records) Images(ctx context.Context, sec models.Section) []string {
	rec, err := r.backend.Get(ctx, sec)
	if err != nil {
		r.log.Warn("list images failed, returning empty", "section", sec, "err", err)
		return []string{}
	}
	return rec.Images
}

// AppendImage добавляет url в конец списка. Для разделов с лимитом (about, portrait)
// лишние старые записи вытесняются и возвращаются вызывающему: их файлы надо удалить.
func (r *Records) AppendImage(ctx context.Context, sec models.Section, url string) (evicted []string, err error) {
	_, err = r.backend.Update(ctx, sec, func(rec *models.Record) error {
		evicted = nil
		rec.Images = append(rec.Images, url)
		if limit := sec.Cap(); limit > 0 && len(rec.Images) > limit {
			n := len(rec.Images) - limit
			evicted = slices.Clone(rec.Images[:n])
			rec.Images = slices.Clone(rec.Images[n:])
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return evicted, nil
}

// RemoveImage убирает все записи, у которых имя файла (последний сегмент URL)
// совпадает с filename. Возвращает, было ли что удалять.
func (r *Records) RemoveImage(ctx context.Context, sec models.Section, filename string) (bool, error) {
	var removed bool
	_, err := r.backend.Update(ctx, sec, func(rec *models.Record) error {
		before := len(rec.Images)
		rec.Images = slices.DeleteFunc(rec.Images, func(u string) bool {
			return files.Filename(u) == filename
		})
		removed = len(rec.Images) != before
		return nil
	})
	return removed, err
}

// Text — текст раздела; пустая строка, если его нет или документ не читается.
func (r *Records) Text(ctx context.Context, sec models.Section) string {
	rec, err := r.backend.Get(ctx, sec)
	if err != nil {
		r.log.Warn("get text failed, returning empty", "section", sec, "err", err)
		return ""
	}
	return rec.Text
}

// SetText заменяет текст целиком (last writer wins).
func (r *Records) SetText(ctx context.Context, sec models.Section, text string) error {
	_, err := r.backend.Update(ctx, sec, func(rec *models.Record) error {
		rec.Text = text
		return nil
	})
	return err
}

// Section — текст и изображения одним чтением.
func (r *Records) Section(ctx context.Context, sec models.Section) models.Record {
	rec, err := r.backend.Get(ctx, sec)
	if err != nil {
		r.log.Warn("get section failed, returning empty", "section", sec, "err", err)
		return models.Record{Images: []string{}}
	}
	return rec
}

// Seed заполняет пустые списки разделов файлами, уже лежащими в каталоге загрузок
// (в хронологическом порядке по префиксу времени в имени).
func (r *Records) Seed(ctx context.Context, fs *files.Store) error {
	for _, sec := range models.Sections {
		urls, err := fs.List(sec)
		if err != nil {
			return err
		}
		if len(urls) == 0 {
			continue
		}
		var seeded int
		_, err = r.backend.Update(ctx, sec, func(rec *models.Record) error {
			seeded = 0
			if len(rec.Images) > 0 {
				return nil
			}
			if limit := sec.Cap(); limit > 0 && len(urls) > limit {
				urls = urls[len(urls)-limit:]
			}
			rec.Images = slices.Clone(urls)
			seeded = len(urls)
			return nil
		})
		if err != nil {
			return err
		}
		if seeded > 0 {
			r.log.Info("seeded section from uploads directory", "section", sec, "images", seeded)
		}
	}
	return nil
}

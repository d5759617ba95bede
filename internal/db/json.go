package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"Portfolio/internal/models"
)

// JSONFiles — бэкенд на JSON-документах в dataDir:
//
//	images.json              массив URL раздела main (старый формат)
//	<section>.json           массив URL остальных разделов
//	<section>-text.json      {"text": "..."} для разделов с текстом
//
// Каждая запись переписывает документ целиком через временный файл + rename.
// Повреждённый документ читается как пустой.
type JSONFiles struct {
	dir string
	log *slog.Logger

	mu    sync.Mutex
	locks map[models.Section]*sync.Mutex
}

func NewJSONFiles(dataDir string, logger *slog.Logger) (*JSONFiles, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir %q: %w", dataDir, err)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &JSONFiles{dir: dataDir, log: logger, locks: make(map[models.Section]*sync.Mutex)}, nil
}

func (j *JSONFiles) imagesPath(sec models.Section) string {
	if sec == models.SectionMain {
		return filepath.Join(j.dir, "images.json")
	}
	return filepath.Join(j.dir, string(sec)+".json")
}

func (j *JSONFiles) textPath(sec models.Section) string {
	return filepath.Join(j.dir, string(sec)+"-text.json")
}

func (j *JSONFiles) lock(sec models.Section) *sync.Mutex {
	j.mu.Lock()
	defer j.mu.Unlock()
	l, ok := j.locks[sec]
	if !ok {
		l = &sync.Mutex{}
		j.locks[sec] = l
	}
	return l
}

func (j *JSONFiles) Get(_ context.Context, sec models.Section) (models.Record, error) {
	if err := checkSection(sec); err != nil {
		return models.Record{}, err
	}
	l := j.lock(sec)
	l.Lock()
	defer l.Unlock()
	return j.read(sec), nil
}

func (j *JSONFiles) Update(ctx context.Context, sec models.Section, fn func(*models.Record) error) (models.Record, error) {
	if err := checkSection(sec); err != nil {
		return models.Record{}, err
	}
	l := j.lock(sec)
	l.Lock()
	defer l.Unlock()

	if err := ctx.Err(); err != nil {
		return models.Record{}, err
	}
	old := j.read(sec)
	rec := old.Clone()
	if err := fn(&rec); err != nil {
		return old, err
	}
	if rec.Images == nil {
		rec.Images = []string{}
	}

	if err := writeJSON(j.imagesPath(sec), rec.Images); err != nil {
		return old, err
	}
	if sec.HasText() && rec.Text != old.Text {
		if err := writeJSON(j.textPath(sec), models.TextRequest{Text: rec.Text}); err != nil {
			return old, err
		}
	}
	return rec, nil
}

func (j *JSONFiles) Close() error { return nil }

// read никогда не падает: отсутствующий или битый документ = пустое значение.
func (j *JSONFiles) read(sec models.Section) models.Record {
	rec := models.Record{Images: []string{}}
	if err := readJSON(j.imagesPath(sec), &rec.Images); err != nil {
		j.log.Warn("images document unreadable, treating as empty", "section", sec, "err", err)
		rec.Images = []string{}
	}
	if rec.Images == nil {
		rec.Images = []string{}
	}
	if sec.HasText() {
		var doc models.TextRequest
		if err := readJSON(j.textPath(sec), &doc); err != nil {
			j.log.Warn("text document unreadable, treating as empty", "section", sec, "err", err)
		}
		rec.Text = doc.Text
	}
	return rec
}

func readJSON(path string, v any) error {
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if len(b) == 0 {
		return nil
	}
	return json.Unmarshal(b, v)
}

func writeJSON(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %q: %w", filepath.Base(path), err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		os.Remove(tmp) //nolint:errcheck
		return fmt.Errorf("write %q: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp) //nolint:errcheck
		return fmt.Errorf("rename to %q: %w", path, err)
	}
	return nil
}

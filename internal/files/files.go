package files

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"Portfolio/internal/models"
)

var (
	ErrInvalidName     = errors.New("files: invalid file name")
	ErrUnsupportedType = errors.New("files: unsupported file type")
)

// URLPrefix — под этим путём каталог загрузок раздаётся статикой.
const URLPrefix = "/uploads"

var allowedExt = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true, ".avif": true,
}

// AllowedExt сообщает, считается ли расширение картинкой.
func AllowedExt(name string) bool {
	return allowedExt[strings.ToLower(filepath.Ext(name))]
}

// Store — файлы загрузок, по подкаталогу на раздел: <root>/<section>/<file>.
// Каталоги создаются один раз в New; обращение к неизвестному разделу — ошибка программиста (panic).
type Store struct {
	root string
	dirs map[models.Section]string
	now  func() time.Time

	mu   sync.Mutex
	last int64 // последний выданный millis-префикс
}

// New создаёт каталоги всех разделов под root.
func New(root string) (*Store, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve uploads root: %w", err)
	}
	s := &Store{root: abs, dirs: make(map[models.Section]string, len(models.Sections)), now: time.Now}
	for _, sec := range models.Sections {
		dir := filepath.Join(abs, string(sec))
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create uploads dir %q: %w", dir, err)
		}
		s.dirs[sec] = dir
	}
	return s, nil
}

func (s *Store) Root() string { return s.root }

// Dir — каталог раздела.
func (s *Store) Dir(sec models.Section) string {
	dir, ok := s.dirs[sec]
	if !ok {
		panic(fmt.Sprintf("files: unknown section %q", sec))
	}
	return dir
}

// URL — публичный путь файла раздела.
func URL(sec models.Section, filename string) string {
	return path.Join(URLPrefix, string(sec), filename)
}

// Filename — последний сегмент URL.
func Filename(url string) string {
	return path.Base(url)
}

// Save пишет r в каталог раздела под именем "<millis>-<safe-name><ext>" и возвращает публичный URL.
// Файл создаётся через O_EXCL, при коллизии берётся следующая миллисекунда.
func (s *Store) Save(sec models.Section, r io.Reader, originalName string) (string, error) {
	dir := s.Dir(sec)
	ext := strings.ToLower(filepath.Ext(originalName))
	if !allowedExt[ext] {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedType, ext)
	}
	base := safeBaseName(originalName)
	if base == "" {
		base = "image"
	}

	var (
		f    *os.File
		name string
		err  error
	)
	for range 100 {
		name = fmt.Sprintf("%d-%s%s", s.nextStamp(), base, ext)
		f, err = os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if err == nil || !errors.Is(err, fs.ErrExist) {
			break
		}
	}
	if err != nil {
		return "", fmt.Errorf("create %q: %w", name, err)
	}

	dst := filepath.Join(dir, name)
	_, werr := io.Copy(f, r)
	cerr := f.Close()
	if werr != nil {
		os.Remove(dst) //nolint:errcheck
		return "", fmt.Errorf("write %q: %w", name, werr)
	}
	if cerr != nil {
		os.Remove(dst) //nolint:errcheck
		return "", fmt.Errorf("flush %q: %w", name, cerr)
	}
	return URL(sec, name), nil
}

// nextStamp — неубывающее время в миллисекундах, строго растущее внутри процесса.
func (s *Store) nextStamp() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	ms := s.now().UnixMilli()
	if ms <= s.last {
		ms = s.last + 1
	}
	s.last = ms
	return ms
}

// Delete удаляет файл раздела. Отсутствующий файл — не ошибка, просто false.
// Для main файл ищется ещё и в корне загрузок: старые версии клали его туда.
func (s *Store) Delete(sec models.Section, filename string) (bool, error) {
	if !ValidName(filename) {
		return false, fmt.Errorf("%w: %q", ErrInvalidName, filename)
	}
	removed, err := removeFile(filepath.Join(s.Dir(sec), filename))
	if err != nil || removed || sec != models.SectionMain {
		return removed, err
	}
	if !AllowedExt(filename) {
		return false, nil
	}
	return removeFile(filepath.Join(s.root, filename))
}

func removeFile(p string) (bool, error) {
	info, err := os.Lstat(p)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat %q: %w", filepath.Base(p), err)
	}
	if !info.Mode().IsRegular() {
		return false, nil
	}
	err = os.Remove(p)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("remove %q: %w", filepath.Base(p), err)
	}
	return true, nil
}

// List возвращает URL картинок раздела в хронологическом порядке (по префиксу времени).
// Для main туда же попадают старые файлы из корня загрузок с URL /uploads/<file>.
func (s *Store) List(sec models.Section) ([]string, error) {
	type item struct{ name, url string }
	var items []item

	collect := func(dir string, url func(string) string) error {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return fmt.Errorf("read uploads dir: %w", err)
		}
		for _, e := range entries {
			if !e.Type().IsRegular() || !AllowedExt(e.Name()) {
				continue
			}
			items = append(items, item{e.Name(), url(e.Name())})
		}
		return nil
	}

	if err := collect(s.Dir(sec), func(n string) string { return URL(sec, n) }); err != nil {
		return nil, err
	}
	if sec == models.SectionMain {
		if err := collect(s.root, func(n string) string { return path.Join(URLPrefix, n) }); err != nil {
			return nil, err
		}
	}

	sort.SliceStable(items, func(i, j int) bool { return lessChronological(items[i].name, items[j].name) })
	urls := make([]string, len(items))
	for i, it := range items {
		urls[i] = it.url
	}
	return urls, nil
}

// lessChronological сравнивает имена по числовому префиксу "<millis>-";
// имена без префикса идут в конце по алфавиту.
func lessChronological(a, b string) bool {
	ta, oka := stampOf(a)
	tb, okb := stampOf(b)
	switch {
	case oka && okb && ta != tb:
		return ta < tb
	case oka != okb:
		return oka
	}
	return a < b
}

func stampOf(name string) (int64, bool) {
	prefix, _, found := strings.Cut(name, "-")
	if !found {
		return 0, false
	}
	n, err := strconv.ParseInt(prefix, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// ValidName — имя файла без каталогов и обходов вверх.
func ValidName(name string) bool {
	return name != "" && name != "." && name != ".." &&
		!strings.ContainsAny(name, `/\`) && name == filepath.Base(name)
}

var unsafeChars = regexp.MustCompile(`[^a-z0-9_\-]+`)

// safeBaseName — грубая нормализация имени файла (латиница/цифры/дефис/подчёркивание)
func safeBaseName(s string) string {
	s = path.Base(strings.ReplaceAll(s, `\`, "/"))
	s = strings.TrimSuffix(s, filepath.Ext(s))
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "_")
	return strings.Trim(unsafeChars.ReplaceAllString(s, ""), "_-")
}

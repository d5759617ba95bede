package sessions

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
)

const (
	sessionName = "admin_session"
	adminKey    = "is_admin"
)

type Options struct {
	Dir    string // каталог файлов сессий
	Secret string
	MaxAge int  // секунды
	Secure bool // за HTTPS-прокси — true
}

// Manager — серверные сессии с единственным флагом "админ".
// В куке лежит только подписанный ID, сами значения — в файле в Dir,
// поэтому после Destroy старая копия куки ничего не даёт.
type Manager struct {
	store *sessions.FilesystemStore
	log   *slog.Logger
}

func NewManager(opts Options, logger *slog.Logger) (*Manager, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if opts.Dir == "" {
		return nil, errors.New("sessions: empty session dir")
	}
	if err := os.MkdirAll(opts.Dir, 0o700); err != nil {
		return nil, fmt.Errorf("create session dir %q: %w", opts.Dir, err)
	}
	// Делаем 2 ключа: подпись + шифрование (устойчивее, чем только подпись).
	h := sha256.Sum256([]byte("auth:" + opts.Secret))
	e := sha256.Sum256([]byte("enc:" + opts.Secret))

	store := sessions.NewFilesystemStore(opts.Dir, h[:], e[:])
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   opts.MaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   opts.Secure,
	}
	store.MaxAge(opts.MaxAge)
	return &Manager{store: store, log: logger}, nil
}

func (m *Manager) session(r *http.Request) (*sessions.Session, error) {
	s, err := m.store.Get(r, sessionName)
	if err != nil && (isDecodeError(err) || errors.Is(err, fs.ErrNotExist)) {
		// кука подписана старым секретом, истекла или сессия уже уничтожена —
		// начинаем новую с чистого листа
		m.log.Debug("discarding stale session cookie", "err", err)
		s.ID = ""
		s.IsNew = true
		s.Values = map[any]any{}
		return s, nil
	}
	return s, err
}

// State читает состояние сессии из запроса.
func (m *Manager) State(r *http.Request) State {
	s, err := m.session(r)
	if err != nil {
		m.log.Warn("session read failed", "err", err)
		return State{}
	}
	v, _ := s.Values[adminKey].(bool)
	return State{IsAdmin: v}
}

// SetAdmin помечает текущую сессию как админскую (выставит Set-Cookie).
func (m *Manager) SetAdmin(w http.ResponseWriter, r *http.Request) error {
	s, err := m.session(r)
	if err != nil {
		return err
	}
	s.Values[adminKey] = true
	return s.Save(r, w)
}

// Destroy удаляет файл сессии и просит браузер забыть куку.
func (m *Manager) Destroy(w http.ResponseWriter, r *http.Request) error {
	s, err := m.session(r)
	if err != nil {
		return err
	}
	s.Values = map[any]any{}
	s.Options.MaxAge = -1
	return s.Save(r, w)
}

func isDecodeError(err error) bool {
	var scErr securecookie.Error
	return errors.As(err, &scErr) && scErr.IsDecode()
}

// State — то, что знает о запросе авторизационный шлюз.
type State struct {
	IsAdmin bool
}

type ctxKey struct{}

func WithState(ctx context.Context, st State) context.Context {
	return context.WithValue(ctx, ctxKey{}, st)
}

// FromContext возвращает состояние сессии; без middleware — аноним.
func FromContext(ctx context.Context) State {
	st, _ := ctx.Value(ctxKey{}).(State)
	return st
}

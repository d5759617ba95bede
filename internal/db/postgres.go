package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/lib/pq"

	"Portfolio/internal/config"
	"Portfolio/internal/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS sections (
	name       TEXT PRIMARY KEY,
	images     TEXT[] NOT NULL DEFAULT '{}',
	body       TEXT NOT NULL DEFAULT '',
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// Postgres — бэкенд на одной таблице sections (строка на раздел).
// Update выполняется в транзакции с SELECT ... FOR UPDATE.
type Postgres struct {
	db  *sql.DB
	log *slog.Logger
}

// DSN собирает строку подключения.
// Приоритет: DATABASE_URL > сборка из отдельных POSTGRES_* переменных.
func DSN(cfg *config.Config) string {
	if cfg.DatabaseURL != "" {
		return cfg.DatabaseURL
	}
	p := cfg.Postgres
	// lib/pq key=value формат
	parts := []string{
		"host=" + p.Host,
		"port=" + p.Port,
		"user=" + p.User,
		"dbname=" + p.Name,
		"sslmode=" + p.SSLMode,
	}
	if p.Password != "" {
		parts = append(parts, "password="+p.Password)
	}
	return strings.Join(parts, " ")
}

// OpenPostgres подключается, проверяет соединение и создаёт схему.
func OpenPostgres(ctx context.Context, dsn string, logger *slog.Logger) (*Postgres, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	conn, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("db: open failed: %w", err)
	}

	// Пул коннектов: запись делает один админ, много не нужно
	conn.SetMaxOpenConns(10)
	conn.SetMaxIdleConns(5)
	conn.SetConnMaxLifetime(30 * time.Minute)
	conn.SetConnMaxIdleTime(5 * time.Minute)

	// Ping с таймаутом (не вешаем процесс)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("db: ping failed: %w", describe(err))
	}
	if _, err := conn.ExecContext(ctx, schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("db: migrate: %w", describe(err))
	}
	logger.Info("db: connected", "backend", "postgres")
	return &Postgres{db: conn, log: logger}, nil
}

func (p *Postgres) Get(ctx context.Context, sec models.Section) (models.Record, error) {
	if err := checkSection(sec); err != nil {
		return models.Record{}, err
	}
	rec := models.Record{Images: []string{}}
	err := p.db.QueryRowContext(ctx,
		`SELECT images, body FROM sections WHERE name = $1`, string(sec)).
		Scan(pq.Array(&rec.Images), &rec.Text)
	if errors.Is(err, sql.ErrNoRows) {
		return rec, nil
	}
	if err != nil {
		return models.Record{Images: []string{}}, fmt.Errorf("db: get %s: %w", sec, describe(err))
	}
	if rec.Images == nil {
		rec.Images = []string{}
	}
	return rec, nil
}

func (p *Postgres) Update(ctx context.Context, sec models.Section, fn func(*models.Record) error) (models.Record, error) {
	if err := checkSection(sec); err != nil {
		return models.Record{}, err
	}
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Record{}, fmt.Errorf("db: begin: %w", describe(err))
	}
	defer tx.Rollback() //nolint:errcheck

	// строка раздела должна существовать, иначе FOR UPDATE нечего блокировать
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO sections (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, string(sec)); err != nil {
		return models.Record{}, fmt.Errorf("db: ensure %s: %w", sec, describe(err))
	}

	old := models.Record{Images: []string{}}
	if err := tx.QueryRowContext(ctx,
		`SELECT images, body FROM sections WHERE name = $1 FOR UPDATE`, string(sec)).
		Scan(pq.Array(&old.Images), &old.Text); err != nil {
		return models.Record{}, fmt.Errorf("db: lock %s: %w", sec, describe(err))
	}
	if old.Images == nil {
		old.Images = []string{}
	}

	rec := old.Clone()
	if err := fn(&rec); err != nil {
		return old, err
	}
	if rec.Images == nil {
		rec.Images = []string{}
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE sections SET images = $2, body = $3, updated_at = now() WHERE name = $1`,
		string(sec), pq.Array(rec.Images), rec.Text); err != nil {
		return old, fmt.Errorf("db: update %s: %w", sec, describe(err))
	}
	if err := tx.Commit(); err != nil {
		return old, fmt.Errorf("db: commit %s: %w", sec, describe(err))
	}
	return rec, nil
}

func (p *Postgres) Close() error { return p.db.Close() }

// describe добавляет код SQLSTATE к ошибкам сервера, чтобы в логах было видно причину.
func describe(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return fmt.Errorf("%w (sqlstate %s %s)", err, pqErr.Code, pqErr.Code.Name())
	}
	return err
}

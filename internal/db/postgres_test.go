package db

import (
	"context"
	"os"
	"slices"
	"strings"
	"testing"

	"Portfolio/internal/config"
	"Portfolio/internal/models"
)

func TestDSN(t *testing.T) {
	cfg := &config.Config{Postgres: config.PostgresConfig{
		Host: "db", Port: "5432", User: "app", Name: "portfolio", SSLMode: "disable",
	}}
	got := DSN(cfg)
	want := "host=db port=5432 user=app dbname=portfolio sslmode=disable"
	if got != want {
		t.Errorf("DSN = %q, want %q", got, want)
	}

	cfg.Postgres.Password = "pw"
	if !strings.HasSuffix(DSN(cfg), " password=pw") {
		t.Errorf("DSN without password part: %q", DSN(cfg))
	}

	cfg.DatabaseURL = "postgres://u@h/d"
	if DSN(cfg) != "postgres://u@h/d" {
		t.Errorf("DATABASE_URL must win, got %q", DSN(cfg))
	}
}

// Требует живой PostgreSQL: PORTFOLIO_TEST_DATABASE_URL=postgres://...
func TestPostgres_RoundTrip(t *testing.T) {
	dsn := os.Getenv("PORTFOLIO_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("PORTFOLIO_TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	p, err := OpenPostgres(ctx, dsn, nil)
	if err != nil {
		t.Fatalf("OpenPostgres: %v", err)
	}
	defer p.Close()
	p.db.ExecContext(ctx, `DELETE FROM sections`) //nolint:errcheck

	r := NewRecords(p, nil)
	if _, err := r.AppendImage(ctx, models.SectionWeddings, "/uploads/weddings/1-a.jpg"); err != nil {
		t.Fatal(err)
	}
	if _, err := r.AppendImage(ctx, models.SectionWeddings, "/uploads/weddings/2-b.jpg"); err != nil {
		t.Fatal(err)
	}
	if err := r.SetText(ctx, models.SectionWeddings, "**June**"); err != nil {
		t.Fatal(err)
	}

	rec := r.Section(ctx, models.SectionWeddings)
	if !slices.Equal(rec.Images, []string{"/uploads/weddings/1-a.jpg", "/uploads/weddings/2-b.jpg"}) {
		t.Errorf("images = %v", rec.Images)
	}
	if rec.Text != "**June**" {
		t.Errorf("text = %q", rec.Text)
	}

	if removed, err := r.RemoveImage(ctx, models.SectionWeddings, "1-a.jpg"); err != nil || !removed {
		t.Fatalf("RemoveImage = %v, %v", removed, err)
	}
	if got := r.Images(ctx, models.SectionWeddings); !slices.Equal(got, []string{"/uploads/weddings/2-b.jpg"}) {
		t.Errorf("after remove = %v", got)
	}
}

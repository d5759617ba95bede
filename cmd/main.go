package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"Portfolio/internal/config"
	"Portfolio/internal/db"
	"Portfolio/internal/files"
	"Portfolio/internal/handlers"
	"Portfolio/internal/models"
	"Portfolio/internal/sessions"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml (optional)")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("load config", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fileStore, err := files.New(cfg.UploadsDir())
	if err != nil {
		logger.Error("init uploads", "err", err)
		os.Exit(1)
	}

	backend, err := openBackend(ctx, cfg, logger)
	if err != nil {
		logger.Error("init record store", "backend", cfg.StoreBackend, "err", err)
		os.Exit(1)
	}
	records := db.NewRecords(backend, logger)
	defer records.Close()

	if err := records.Seed(ctx, fileStore); err != nil {
		logger.Warn("seed from uploads failed", "err", err)
	}

	secret, fallback := cfg.Secret()
	if fallback {
		logger.Warn("SESSION_SECRET is not set, using development secret")
	}
	admin := models.Administrator{
		Login:        cfg.AdminUsername,
		Password:     cfg.AdminPassword,
		PasswordHash: cfg.AdminPasswordHash,
	}
	if !admin.Configured() {
		logger.Warn("ADMIN_USERNAME/ADMIN_PASSWORD not set, admin login disabled")
	}

	sessionManager, err := sessions.NewManager(sessions.Options{
		Dir:    cfg.SessionDir(),
		Secret: secret,
		MaxAge: cfg.SessionMaxAge,
		Secure: cfg.HTTPS,
	}, logger)
	if err != nil {
		logger.Error("init sessions", "err", err)
		os.Exit(1)
	}

	h := &handlers.Handler{
		Records:   records,
		Files:     fileStore,
		Sessions:  sessionManager,
		Admin:     admin,
		MaxUpload: cfg.MaxUploadBytes(),
		Log:       logger,
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           h.Routes(cfg.PublicDir),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	go func() {
		logger.Info("listening", "addr", cfg.Addr(), "storage", cfg.StorageRoot, "backend", cfg.StoreBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "err", err)
	}
}

func openBackend(ctx context.Context, cfg *config.Config, logger *slog.Logger) (db.Backend, error) {
	if cfg.StoreBackend == "postgres" {
		return db.OpenPostgres(ctx, db.DSN(cfg), logger)
	}
	return db.NewJSONFiles(cfg.DataDir(), logger)
}

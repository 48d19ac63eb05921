// Package main is the entry point for the farewatch API server.
// Its sole responsibility is wiring dependencies together and starting the
// server. No business logic belongs here.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"

	"github.com/pkordes/farewatch/internal/config"
	"github.com/pkordes/farewatch/internal/gitsync"
	"github.com/pkordes/farewatch/internal/handler"
	"github.com/pkordes/farewatch/internal/middleware"
	"github.com/pkordes/farewatch/internal/service"
	"github.com/pkordes/farewatch/internal/store"
	"github.com/pkordes/farewatch/internal/track"
)

// maxBodySize caps request bodies. The largest legitimate payload is a route
// definition, which is well under a kilobyte.
const maxBodySize = 1 << 20

func main() {
	// --- Config -----------------------------------------------------------
	// .env is optional; real deployments set environment variables directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	// --- Storage ----------------------------------------------------------
	routeStore, err := store.NewRouteStore(cfg.DataDir, logger)
	if err != nil {
		slog.Error("failed to open route store", "error", err)
		os.Exit(1)
	}
	configStore, err := store.NewConfigStore(cfg.DataDir, logger)
	if err != nil {
		slog.Error("failed to open config store", "error", err)
		os.Exit(1)
	}
	audit, err := store.NewAuditLog(cfg.DataDir, logger)
	if err != nil {
		slog.Error("failed to open audit log", "error", err)
		os.Exit(1)
	}
	lock, err := store.NewLock(cfg.DataDir)
	if err != nil {
		slog.Error("failed to create data dir lock", "error", err)
		os.Exit(1)
	}

	// --- Collaborators ----------------------------------------------------
	syncer := gitsync.New(cfg, logger)
	source := track.NewSimulatedSource()
	notifier := &track.LogNotifier{From: cfg.NotifyFrom, Log: logger}

	runner := track.NewRunner(routeStore, configStore, source, notifier, syncer, audit, lock, cfg.CallTimeout, logger)
	routeSvc := service.NewRouteService(routeStore, source, audit, syncer, lock, cfg.CallTimeout)
	configSvc := service.NewConfigService(configStore, audit, syncer, lock)

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order: RequestID → RealIP → Logger → Recoverer.
	// RequestID generates a unique trace ID per request.
	// RealIP sets r.RemoteAddr from X-Forwarded-For / X-Real-IP (safe behind a proxy).
	// SlogLogger writes one structured log line per request.
	// Recoverer catches panics and returns HTTP 500 instead of crashing.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(maxBodySize))

	r.Mount("/", handler.NewServer(routeSvc, configSvc, runner).Routes())

	// --- HTTP Server ------------------------------------------------------
	// Explicit timeouts prevent slowloris and resource exhaustion attacks.
	// WriteTimeout leaves room for a full tracking pass triggered via the API.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", srv.Addr, "data_dir", cfg.DataDir)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// newLogger builds the process logger: JSON for deployments, tint for a
// readable local terminal.
func newLogger(cfg config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	if cfg.LogFormat == "text" {
		return slog.New(tint.NewHandler(os.Stdout, &tint.Options{Level: level}))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}

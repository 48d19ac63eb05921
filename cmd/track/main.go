// Package main is the one-shot tracker: it runs a single tracking pass over
// the route collection and exits. An external scheduler (cron, CI workflow)
// invokes it on whatever cadence the deployment wants; the cadence engine
// decides per route how many observations are actually owed.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"

	"github.com/pkordes/farewatch/internal/config"
	"github.com/pkordes/farewatch/internal/gitsync"
	"github.com/pkordes/farewatch/internal/store"
	"github.com/pkordes/farewatch/internal/track"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	var logger *slog.Logger
	if cfg.LogFormat == "text" {
		logger = slog.New(tint.NewHandler(os.Stderr, &tint.Options{Level: level}))
	} else {
		logger = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	}
	slog.SetDefault(logger)

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

	syncer := gitsync.New(cfg, logger)
	source := track.NewSimulatedSource()
	notifier := &track.LogNotifier{From: cfg.NotifyFrom, Log: logger}

	runner := track.NewRunner(routeStore, configStore, source, notifier, syncer, audit, lock, cfg.CallTimeout, logger)

	report := runner.Run(context.Background(), time.Now())
	logger.Info("tracking pass finished",
		"routes_total", report.RoutesTotal,
		"routes_due", report.RoutesDue,
		"ticks", report.Ticks,
		"notifications", report.Notifications,
		"failures", len(report.Failures),
		"sync", report.SyncOutcome,
		"duration_ms", report.FinishedAt.Sub(report.StartedAt).Milliseconds(),
	)

	if !report.OK() {
		logger.Error("tracking pass failed", "error", report.Err)
		os.Exit(1)
	}
}

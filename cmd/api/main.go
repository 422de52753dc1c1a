package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"educenter/internal/config"
	"educenter/internal/database"
	"educenter/internal/logger"
	"educenter/internal/modules/billing"
	"educenter/internal/server"
)

const sweepTimeout = 5 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("invalid configuration", "error", err)
	}
	logger.Init(cfg.LogLevel, cfg.LogFormat)
	log := logger.Get()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("database connect failed", "error", err)
	}
	if err := database.Migrate(db); err != nil {
		logger.Fatal("migration failed", "error", err)
	}

	srv := server.New(cfg, db)

	sweeper, err := billing.NewSweeper(srv.Billing(), cfg.OverdueSweepCron, sweepTimeout)
	if err != nil {
		logger.Fatal("overdue sweeper", "error", err)
	}
	sweeper.Start()

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("starting server", "port", cfg.Port, "env", cfg.AppEnv, "timezone", cfg.DefaultTimezone)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	select {
	case <-sweeper.Stop().Done():
	case <-ctx.Done():
		log.Warn("overdue sweep still running at shutdown")
	}

	if err := httpServer.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", "error", err)
	}
	srv.Cleanup()

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info("server stopped")
}

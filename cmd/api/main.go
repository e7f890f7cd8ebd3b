package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/infrastructure/database/postgres"
	"github.com/your-org/storefront-backend/internal/infrastructure/database/redis"
	httpserver "github.com/your-org/storefront-backend/internal/interfaces/http"
	"github.com/your-org/storefront-backend/internal/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Logging)
	log.WithFields(logrus.Fields{
		"app":         cfg.App.Name,
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
	}).Info("Starting")

	db, err := postgres.NewConnection(cfg)
	if err != nil {
		log.WithError(err).Fatal("Database connection failed")
	}
	defer db.Close()

	if err := db.AutoMigrate(log); err != nil {
		log.WithError(err).Fatal("Database migration failed")
	}
	if err := db.SeedAdmin(cfg, log); err != nil {
		log.WithError(err).Fatal("Admin seeding failed")
	}
	if cfg.IsDevelopment() {
		if err := db.SeedDevData(log); err != nil {
			log.WithError(err).Warn("Development seeding failed")
		}
	}

	// Redis is optional; without it the rate limiter is skipped.
	rdb, err := redis.NewConnection(cfg)
	if err != nil {
		log.WithError(err).Warn("Redis unavailable, continuing without rate limiting")
		rdb = nil
	} else {
		defer rdb.Close()
	}

	server, err := httpserver.NewServer(cfg, db, rdb, log)
	if err != nil {
		log.WithError(err).Fatal("Server setup failed")
	}

	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Server stopped unexpectedly")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Graceful shutdown failed")
	}
	log.Info("Stopped")
}

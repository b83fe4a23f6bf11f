package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jwlim/finstat-backend/config"
	"github.com/jwlim/finstat-backend/internal/app/controller"
	"github.com/jwlim/finstat-backend/internal/app/repository"
	"github.com/jwlim/finstat-backend/internal/app/service"
	"github.com/jwlim/finstat-backend/internal/db"
	"github.com/jwlim/finstat-backend/internal/router"
	"github.com/jwlim/finstat-backend/internal/scheduler"
	"github.com/jwlim/finstat-backend/pkg/logger"
	"github.com/jwlim/finstat-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting FINSTAT Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Initialize Redis (optional - caching only)
	if cfg.Redis.Enabled {
		if err := redis.Init(&cfg.Redis); err != nil {
			logger.Warn("Redis unavailable, continuing without cache", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			defer redis.Close()
		}
	}

	// Initialize repositories
	finRepo := repository.NewFinRepository(db.GetDB())

	// Initialize services
	dartClient := service.NewDartClient(&cfg.Dart)
	ratioService := service.NewRatioService(finRepo)
	statementService := service.NewStatementService(finRepo, dartClient, ratioService)
	exportService := service.NewExportService(finRepo)

	// Initialize controllers
	finController := controller.NewFinController(statementService, ratioService, exportService)

	// Start refresh scheduler
	if cfg.Scheduler.Enabled {
		refreshScheduler := scheduler.NewRefreshScheduler(statementService, cfg.Scheduler.Spec)
		if err := refreshScheduler.Start(); err != nil {
			logger.Error("Failed to start refresh scheduler", err)
		} else {
			defer refreshScheduler.Stop()
		}
	}

	// Setup router
	r := router.NewRouter(finController, cfg)
	engine := r.Setup()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}

package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"options-trading-backend/internal/monitor/config"
	delivery "options-trading-backend/internal/monitor/delivery/http"
	"options-trading-backend/internal/monitor/repository"
	"options-trading-backend/internal/monitor/service"
	"options-trading-backend/pkg/logger"
	"options-trading-backend/pkg/redis"
	"options-trading-backend/pkg/sqlite"
	"options-trading-backend/pkg/telegram"

	"github.com/labstack/echo/v4"
	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the monitor service",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	// Create a context that is canceled on interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("Starting Monitor Service", logger.Field("name", cfg.App.Name))

	// Initialize database
	db, err := sqlite.NewDB(sqlite.Config{
		Path:          cfg.Database.Path,
		BusyTimeoutMS: cfg.Database.BusyTimeoutMS,
		MaxOpenConns:  cfg.Database.MaxOpenConns,
		LogLevel:      cfg.Database.LogLevel,
	})
	if err != nil {
		appLogger.Fatal("Failed to initialize database", logger.ErrorField(err))
	}
	if sqlDB, err := db.DB.DB(); err == nil {
		defer sqlDB.Close()
	}

	// Initialize Redis. Health events are only published when it is up.
	var redisClient *redis.Client
	redisClient, err = redis.NewClient(redis.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})
	if err != nil {
		appLogger.Warn("Redis unavailable, health events will not be published", logger.ErrorField(err))
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	// Initialize Telegram notifier
	notifier := telegram.NewNoop()
	if cfg.Telegram.Enabled {
		notifier, err = telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			appLogger.Fatal("Failed to initialize Telegram notifier", logger.ErrorField(err))
		}
	}

	// Initialize repositories and services
	healthRepo := repository.NewHealthRepository(db.DB)

	pollInterval, err := time.ParseDuration(cfg.Monitor.PollInterval)
	if err != nil {
		appLogger.Fatal("Invalid poll interval", logger.ErrorField(err))
	}
	requestTimeout, err := time.ParseDuration(cfg.Monitor.RequestTimeout)
	if err != nil {
		appLogger.Fatal("Invalid request timeout", logger.ErrorField(err))
	}

	var rdb *goredis.Client
	if redisClient != nil {
		rdb = redisClient.Client
	}
	monitorSvc := service.NewMonitorService(
		healthRepo, rdb, notifier, appLogger, cfg, pollInterval, requestTimeout)

	// Start monitor loop
	go monitorSvc.Start(ctx)

	// Initialize Echo server
	e := echo.New()
	e.HideBanner = true

	statusHandler := delivery.NewStatusHandler(healthRepo, appLogger)
	apiV1 := e.Group("/api/v1")
	statusHandler.RegisterRoutes(apiV1)
	statusHandler.RegisterHealth(e)

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.API.Port)
		appLogger.Info("HTTP server starting", logger.Field("address", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			appLogger.Error("HTTP server failed to start", logger.ErrorField(err))
			stop() // trigger shutdown
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()

	appLogger.Info("Shutting down server...")

	// Gracefully shutdown the server
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Fatal("Server forced to shutdown", logger.ErrorField(err))
	}

	appLogger.Info("Server exiting")
}

func main() {
	rootCmd := &cobra.Command{Use: "monitor-service"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config-monitor.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing monitor-service CLI: %s\n", err)
		os.Exit(1)
	}
}

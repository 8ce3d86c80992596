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

	"options-trading-backend/internal/marketdata/config"
	delivery "options-trading-backend/internal/marketdata/delivery/http"
	"options-trading-backend/internal/marketdata/repository"
	"options-trading-backend/internal/marketdata/service"
	"options-trading-backend/pkg/logger"
	"options-trading-backend/pkg/ratelimit"
	"options-trading-backend/pkg/redis"
	"options-trading-backend/pkg/sqlite"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the market data service",
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

	appLogger.Info("Starting Market Data Service", logger.Field("name", cfg.App.Name))

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

	// Initialize Redis. The service runs without it; caching is skipped.
	var redisClient *redis.Client
	if cfg.Cache.Enabled {
		redisClient, err = redis.NewClient(redis.Config{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err != nil {
			appLogger.Warn("Redis unavailable, candle caching disabled", logger.ErrorField(err))
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	// Initialize repositories
	candleRepo := repository.NewCandleRepository(db.DB)
	chainRepo := repository.NewOptionChainRepository(db.DB)
	signalRepo := repository.NewSignalRepository(db.DB)
	configRepo := repository.NewConfigRepository(db.DB)
	metricsRepo := repository.NewMetricsRepository(db.DB)

	var candles repository.CandleRepository = candleRepo
	if redisClient != nil {
		ttl, err := time.ParseDuration(cfg.Cache.TTL)
		if err != nil {
			appLogger.Warn("Invalid cache TTL, using default", logger.ErrorField(err))
			ttl = 0
		}
		candles = repository.NewCachingCandleRepository(redisClient.Client, ttl, candleRepo)
	}

	// Initialize services
	marketDataSvc := service.NewMarketDataService(candles, chainRepo, signalRepo, appLogger)
	signalSvc := service.NewSignalService(signalRepo, appLogger)
	configSvc := service.NewConfigService(configRepo, appLogger)
	metricsSvc := service.NewMetricsService(metricsRepo, appLogger)

	// Initialize Echo server
	e := echo.New()
	e.HideBanner = true
	e.Use(ratelimit.New(cfg.API.RatePerSecond, cfg.API.RateBurst).Middleware())

	// Initialize handlers and routes
	marketDataHandler := delivery.NewMarketDataHandler(marketDataSvc, appLogger)
	apiV1 := e.Group("/api/v1")
	marketDataHandler.RegisterRoutes(apiV1)
	marketDataHandler.RegisterHealth(e)

	signalHandler := delivery.NewSignalHandler(signalSvc, appLogger)
	signalHandler.RegisterRoutes(apiV1.Group("/signals"))

	configHandler := delivery.NewConfigHandler(configSvc, appLogger)
	configHandler.RegisterRoutes(apiV1.Group("/config"))

	metricsHandler := delivery.NewMetricsHandler(metricsSvc, appLogger)
	metricsHandler.RegisterRoutes(apiV1.Group("/metrics"))

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
	rootCmd := &cobra.Command{Use: "market-data-service"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config-market-data.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing market-data-service CLI: %s\n", err)
		os.Exit(1)
	}
}

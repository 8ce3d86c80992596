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

	"options-trading-backend/internal/analytics/config"
	delivery "options-trading-backend/internal/analytics/delivery/http"
	"options-trading-backend/internal/analytics/service"
	"options-trading-backend/internal/marketdata/repository"
	"options-trading-backend/pkg/logger"
	"options-trading-backend/pkg/ratelimit"
	"options-trading-backend/pkg/sqlite"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the analytics service",
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

	appLogger.Info("Starting Analytics Service", logger.Field("name", cfg.App.Name))

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

	// Initialize repositories
	candleRepo := repository.NewCandleRepository(db.DB)
	chainRepo := repository.NewOptionChainRepository(db.DB)

	// Initialize services
	cacheTTL, err := time.ParseDuration(cfg.Analysis.CacheTTL)
	if err != nil {
		appLogger.Warn("Invalid analysis cache TTL, using default", logger.ErrorField(err))
		cacheTTL = 0
	}
	oiSvc := service.NewOIAnalysisService(chainRepo, candleRepo, cacheTTL, appLogger)
	greeksSvc := service.NewGreeksService(chainRepo, candleRepo, appLogger)
	indicatorsSvc := service.NewIndicatorsService(candleRepo, appLogger)

	// Initialize Echo server
	e := echo.New()
	e.HideBanner = true
	e.Use(ratelimit.New(cfg.API.RatePerSecond, cfg.API.RateBurst).Middleware())

	// Initialize handlers and routes
	analyticsHandler := delivery.NewAnalyticsHandler(oiSvc, greeksSvc, indicatorsSvc, cfg.Analysis.RiskFreeRate, appLogger)
	apiV1 := e.Group("/api/v1/analysis")
	analyticsHandler.RegisterRoutes(apiV1)
	analyticsHandler.RegisterHealth(e)

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
	rootCmd := &cobra.Command{Use: "analytics-service"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config-analytics.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing analytics-service CLI: %s\n", err)
		os.Exit(1)
	}
}

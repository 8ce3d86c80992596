package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"options-trading-backend/internal/marketdata/config"
	"options-trading-backend/internal/marketdata/repository"
	"options-trading-backend/internal/marketdata/seed"
	"options-trading-backend/pkg/logger"
	"options-trading-backend/pkg/sqlite"
	"options-trading-backend/pkg/utils"

	"github.com/spf13/cobra"
)

var (
	configPath string
	symbol     string
	spot       float64
	days       int
)

var seedCmd = &cobra.Command{
	Use:   "run",
	Short: "Populate the store with sample candles and an options chain",
	Run:   runSeed,
}

func runSeed(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	if days <= 0 {
		log.Fatalf("--days must be positive, got %d", days)
	}
	if spot <= 0 {
		log.Fatalf("--spot must be positive, got %v", spot)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

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

	candleRepo := repository.NewCandleRepository(db.DB)
	chainRepo := repository.NewOptionChainRepository(db.DB)

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	now := time.Now().UTC().Truncate(time.Second)

	// Candles for every supported timeframe.
	for tf, count := range map[string]int{
		"1min": days * 375, "5min": days * 75, "15min": days * 25, "1hr": days * 7, "daily": days,
	} {
		candles := seed.GenerateCandles(symbol, tf, spot, count, now, rng)
		if err := candleRepo.UpsertBatch(ctx, candles); err != nil {
			appLogger.Fatal("Failed to seed candles", logger.ErrorField(err), logger.Field("timeframe", tf))
		}
		appLogger.Info("Seeded candles", logger.Field("timeframe", tf), logger.Field("count", count))
	}

	// One chain snapshot expiring next Thursday.
	expiry := nextThursday(utils.TimeNowIST()).UTC()
	quotes := seed.GenerateChain(symbol, spot, expiry, now, rng)
	if err := chainRepo.StoreBatch(ctx, quotes); err != nil {
		appLogger.Fatal("Failed to seed options chain", logger.ErrorField(err))
	}
	appLogger.Info("Seeded options chain",
		logger.Field("symbol", symbol),
		logger.Field("expiry", expiry.Format("2006-01-02")),
		logger.Field("contracts", len(quotes)))
}

// nextThursday returns the upcoming weekly expiry date at midnight UTC.
func nextThursday(from time.Time) time.Time {
	daysAhead := (int(time.Thursday) - int(from.Weekday()) + 7) % 7
	if daysAhead == 0 {
		daysAhead = 7
	}
	d := from.AddDate(0, 0, daysAhead)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}

func main() {
	rootCmd := &cobra.Command{Use: "seed"}

	seedCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config-market-data.yaml", "Path to the configuration file")
	seedCmd.Flags().StringVarP(&symbol, "symbol", "s", "NIFTY", "Symbol to seed")
	seedCmd.Flags().Float64Var(&spot, "spot", 24500, "Spot price the series ends at")
	seedCmd.Flags().IntVar(&days, "days", 5, "Number of trading days of candles")

	rootCmd.AddCommand(seedCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing seed CLI: %s\n", err)
		os.Exit(1)
	}
}

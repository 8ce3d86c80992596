package service

import (
	"context"
	"fmt"
	"time"

	"options-trading-backend/internal/entity"
	"options-trading-backend/internal/marketdata/dto"
	"options-trading-backend/internal/marketdata/repository"
	"options-trading-backend/pkg/common"
	"options-trading-backend/pkg/logger"
	"options-trading-backend/pkg/utils"

	"gorm.io/gorm"
)

const (
	defaultCandleLimit = 100
	maxCandleLimit     = 1000
)

// MarketDataService defines the interface for candle and options chain
// operations.
type MarketDataService interface {
	StoreCandles(ctx context.Context, req *dto.StoreCandlesRequest) (*dto.StoreCandlesResponse, error)
	GetCandles(ctx context.Context, symbol, timeframe string, limit int) ([]dto.CandleDTO, error)
	GetCurrentPrice(ctx context.Context, symbol string) (*dto.PriceResponse, error)
	StoreChain(ctx context.Context, req *dto.StoreChainRequest) (*dto.StoreChainResponse, error)
	GetChain(ctx context.Context, symbol string, expiry *time.Time) (*dto.ChainResponse, error)
	GetExpiries(ctx context.Context, symbol string) (*dto.ExpiriesResponse, error)
	MarketStatus() *dto.MarketStatusResponse
	Health(ctx context.Context) *dto.HealthResponse
}

// NewMarketDataService creates a new market data service.
func NewMarketDataService(
	candleRepo repository.CandleRepository,
	chainRepo repository.OptionChainRepository,
	signalRepo repository.SignalRepository,
	logger *logger.Logger,
) MarketDataService {
	return &marketDataService{
		candleRepo: candleRepo,
		chainRepo:  chainRepo,
		signalRepo: signalRepo,
		logger:     logger,
	}
}

type marketDataService struct {
	candleRepo repository.CandleRepository
	chainRepo  repository.OptionChainRepository
	signalRepo repository.SignalRepository
	logger     *logger.Logger
}

// StoreCandles validates and upserts a batch of candles.
func (s *marketDataService) StoreCandles(ctx context.Context, req *dto.StoreCandlesRequest) (*dto.StoreCandlesResponse, error) {
	if len(req.Candles) == 0 {
		return nil, fmt.Errorf("%w: empty candle batch", ErrValidation)
	}

	candles := make([]entity.Candle, 0, len(req.Candles))
	for _, c := range req.Candles {
		if c.Symbol == "" {
			return nil, fmt.Errorf("%w: candle symbol is required", ErrValidation)
		}
		if !common.IsValidTimeframe(c.Timeframe) {
			return nil, fmt.Errorf("%w: invalid timeframe %q", ErrValidation, c.Timeframe)
		}
		if c.Timestamp.IsZero() {
			return nil, fmt.Errorf("%w: candle timestamp is required", ErrValidation)
		}
		candles = append(candles, entity.Candle{
			Symbol:    c.Symbol,
			Timeframe: c.Timeframe,
			Timestamp: c.Timestamp.UTC(),
			Open:      c.Open,
			High:      c.High,
			Low:       c.Low,
			Close:     c.Close,
			Volume:    c.Volume,
		})
	}

	if err := s.candleRepo.UpsertBatch(ctx, candles); err != nil {
		s.logger.Error("Failed to store candles", logger.ErrorField(err))
		return nil, fmt.Errorf("failed to store candles: %w", err)
	}

	s.logger.Info("Stored candle batch",
		logger.Field("count", len(candles)),
		logger.Field("symbol", candles[0].Symbol))
	return &dto.StoreCandlesResponse{Stored: len(candles)}, nil
}

// GetCandles returns the newest candles first for a symbol and timeframe.
func (s *marketDataService) GetCandles(ctx context.Context, symbol, timeframe string, limit int) ([]dto.CandleDTO, error) {
	if !common.IsValidTimeframe(timeframe) {
		return nil, fmt.Errorf("%w: invalid timeframe %q", ErrValidation, timeframe)
	}
	if limit <= 0 {
		limit = defaultCandleLimit
	}
	if limit > maxCandleLimit {
		limit = maxCandleLimit
	}

	candles, err := s.candleRepo.Find(ctx, symbol, timeframe, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get candles: %w", err)
	}

	out := make([]dto.CandleDTO, 0, len(candles))
	for _, c := range candles {
		out = append(out, dto.CandleDTO{
			Symbol:    c.Symbol,
			Timeframe: c.Timeframe,
			Timestamp: c.Timestamp,
			Open:      c.Open,
			High:      c.High,
			Low:       c.Low,
			Close:     c.Close,
			Volume:    c.Volume,
		})
	}
	return out, nil
}

// GetCurrentPrice returns the latest stored close for a symbol.
func (s *marketDataService) GetCurrentPrice(ctx context.Context, symbol string) (*dto.PriceResponse, error) {
	candle, err := s.candleRepo.LatestClose(ctx, symbol)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: no price data for %s", ErrNotFound, symbol)
		}
		return nil, fmt.Errorf("failed to get current price: %w", err)
	}
	return &dto.PriceResponse{
		Symbol:    candle.Symbol,
		Price:     candle.Close,
		Timeframe: candle.Timeframe,
		AsOf:      candle.Timestamp,
	}, nil
}

// StoreChain validates and stores an options chain snapshot. All quotes in a
// batch share one captured_at so the snapshot can be read back atomically.
func (s *marketDataService) StoreChain(ctx context.Context, req *dto.StoreChainRequest) (*dto.StoreChainResponse, error) {
	if len(req.Quotes) == 0 {
		return nil, fmt.Errorf("%w: empty chain batch", ErrValidation)
	}

	capturedAt := time.Now().UTC().Truncate(time.Second)
	var totalOI int64
	quotes := make([]entity.OptionQuote, 0, len(req.Quotes))
	for _, q := range req.Quotes {
		if q.Symbol == "" {
			return nil, fmt.Errorf("%w: quote symbol is required", ErrValidation)
		}
		ot := entity.OptionType(q.OptionType)
		if ot != entity.OptionTypeCall && ot != entity.OptionTypePut {
			return nil, fmt.Errorf("%w: option_type must be CE or PE, got %q", ErrValidation, q.OptionType)
		}
		if q.Strike <= 0 {
			return nil, fmt.Errorf("%w: strike must be positive", ErrValidation)
		}
		expiry, err := parseExpiry(q.Expiry)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}

		totalOI += q.OI
		quotes = append(quotes, entity.OptionQuote{
			Symbol:         q.Symbol,
			Expiry:         expiry,
			Strike:         q.Strike,
			OptionType:     ot,
			LTP:            q.LTP,
			Bid:            q.Bid,
			Ask:            q.Ask,
			Volume:         q.Volume,
			OI:             q.OI,
			Delta:          q.Delta,
			Gamma:          q.Gamma,
			Theta:          q.Theta,
			Vega:           q.Vega,
			Rho:            q.Rho,
			IV:             q.IV,
			IntrinsicValue: q.IntrinsicValue,
			TimeValue:      q.TimeValue,
			CapturedAt:     capturedAt,
		})
	}

	if err := s.chainRepo.StoreBatch(ctx, quotes); err != nil {
		s.logger.Error("Failed to store options chain", logger.ErrorField(err))
		return nil, fmt.Errorf("failed to store options chain: %w", err)
	}

	s.logger.Info("Stored options chain snapshot",
		logger.Field("contracts", len(quotes)),
		logger.Field("total_oi", totalOI))
	return &dto.StoreChainResponse{Stored: len(quotes), TotalOI: totalOI}, nil
}

// GetChain returns the latest chain snapshot for a symbol.
func (s *marketDataService) GetChain(ctx context.Context, symbol string, expiry *time.Time) (*dto.ChainResponse, error) {
	quotes, err := s.chainRepo.FindChain(ctx, symbol, expiry)
	if err != nil {
		return nil, fmt.Errorf("failed to get options chain: %w", err)
	}

	resp := &dto.ChainResponse{Symbol: symbol, Quotes: make([]dto.OptionQuoteDTO, 0, len(quotes))}
	if expiry != nil {
		resp.Expiry = expiry.Format("2006-01-02")
	}
	for _, q := range quotes {
		resp.Quotes = append(resp.Quotes, dto.OptionQuoteDTO{
			Symbol:         q.Symbol,
			Expiry:         q.Expiry.Format("2006-01-02"),
			Strike:         q.Strike,
			OptionType:     string(q.OptionType),
			LTP:            q.LTP,
			Bid:            q.Bid,
			Ask:            q.Ask,
			Volume:         q.Volume,
			OI:             q.OI,
			Delta:          q.Delta,
			Gamma:          q.Gamma,
			Theta:          q.Theta,
			Vega:           q.Vega,
			Rho:            q.Rho,
			IV:             q.IV,
			IntrinsicValue: q.IntrinsicValue,
			TimeValue:      q.TimeValue,
			CapturedAt:     q.CapturedAt,
		})
	}
	return resp, nil
}

// GetExpiries lists future expiries for a symbol.
func (s *marketDataService) GetExpiries(ctx context.Context, symbol string) (*dto.ExpiriesResponse, error) {
	today := time.Now().UTC().Truncate(24 * time.Hour)
	expiries, err := s.chainRepo.Expiries(ctx, symbol, today)
	if err != nil {
		return nil, fmt.Errorf("failed to get expiries: %w", err)
	}

	resp := &dto.ExpiriesResponse{Symbol: symbol, Expiries: make([]string, 0, len(expiries))}
	for _, e := range expiries {
		resp.Expiries = append(resp.Expiries, e.Format("2006-01-02"))
	}
	return resp, nil
}

// MarketStatus reports the current NSE session phase in IST.
func (s *marketDataService) MarketStatus() *dto.MarketStatusResponse {
	now := utils.TimeNowIST()
	phase := utils.MarketPhaseAt(now)
	return &dto.MarketStatusResponse{
		Phase:      string(phase),
		IsOpen:     phase == utils.PhaseOpen,
		ServerTime: now,
		NextOpen:   utils.NextMarketOpen(now),
		NextClose:  utils.NextMarketClose(now),
	}
}

// Health checks store connectivity and reports per-table counts.
func (s *marketDataService) Health(ctx context.Context) *dto.HealthResponse {
	start := time.Now()
	tables := map[string]int64{}

	candleCount, err := s.candleRepo.Count(ctx)
	if err == nil {
		tables["market_data_candles"] = candleCount
		var chainCount int64
		if chainCount, err = s.chainRepo.Count(ctx); err == nil {
			tables["options_chain"] = chainCount
			var activeSignals int64
			if activeSignals, err = s.signalRepo.CountByStatus(ctx, entity.SignalStatusActive); err == nil {
				tables["active_signals"] = activeSignals
			}
		}
	}

	elapsed := float64(time.Since(start).Microseconds()) / 1000.0
	if err != nil {
		s.logger.Error("Health check failed", logger.ErrorField(err))
		return &dto.HealthResponse{Status: "unhealthy", ResponseTimeMS: elapsed, Error: err.Error()}
	}
	return &dto.HealthResponse{Status: "healthy", ResponseTimeMS: elapsed, Tables: tables}
}

// parseExpiry normalizes an expiry string to a UTC date.
func parseExpiry(value string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("expiry must be YYYY-MM-DD, got %q", value)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

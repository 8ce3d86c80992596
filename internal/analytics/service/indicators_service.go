package service

import (
	"context"
	"fmt"
	"math"

	"options-trading-backend/internal/analytics/dto"
	"options-trading-backend/internal/marketdata/repository"
	"options-trading-backend/pkg/common"
	"options-trading-backend/pkg/logger"

	"github.com/markcheno/go-talib"
)

// minIndicatorCandles is the shortest series the slowest indicator (SMA 50)
// can produce a value for.
const minIndicatorCandles = 50

// IndicatorsService computes technical indicators over stored candles.
type IndicatorsService interface {
	Indicators(ctx context.Context, symbol, timeframe string, lookback int) (*dto.IndicatorsResponse, error)
}

// NewIndicatorsService creates a new indicators service.
func NewIndicatorsService(candleRepo repository.CandleRepository, logger *logger.Logger) IndicatorsService {
	return &indicatorsService{candleRepo: candleRepo, logger: logger}
}

type indicatorsService struct {
	candleRepo repository.CandleRepository
	logger     *logger.Logger
}

func (s *indicatorsService) Indicators(ctx context.Context, symbol, timeframe string, lookback int) (*dto.IndicatorsResponse, error) {
	if !common.IsValidTimeframe(timeframe) {
		return nil, fmt.Errorf("%w: invalid timeframe %q", ErrValidation, timeframe)
	}
	if lookback <= 0 {
		lookback = 200
	}

	candles, err := s.candleRepo.Find(ctx, symbol, timeframe, lookback)
	if err != nil {
		return nil, fmt.Errorf("failed to load candles: %w", err)
	}
	if len(candles) < minIndicatorCandles {
		return nil, fmt.Errorf("%w: need at least %d candles, have %d", ErrNoData, minIndicatorCandles, len(candles))
	}

	// The repository returns newest first; talib expects chronological order.
	highs := make([]float64, len(candles))
	lows := make([]float64, len(candles))
	closes := make([]float64, len(candles))
	for i, c := range candles {
		j := len(candles) - 1 - i
		highs[j] = c.High
		lows[j] = c.Low
		closes[j] = c.Close
	}
	last := len(closes) - 1

	sma9 := talib.Sma(closes, 9)
	sma21 := talib.Sma(closes, 21)
	sma50 := talib.Sma(closes, 50)
	ema9 := talib.Ema(closes, 9)
	ema21 := talib.Ema(closes, 21)
	rsi := talib.Rsi(closes, 14)
	macd, macdSignal, macdHist := talib.Macd(closes, 12, 26, 9)
	bbUpper, bbMiddle, bbLower := talib.BBands(closes, 20, 2, 2, talib.SMA)
	atr := talib.Atr(highs, lows, closes, 14)

	trend := dto.TrendIndicators{
		SMA9:  round2(sma9[last]),
		SMA21: round2(sma21[last]),
		SMA50: round2(sma50[last]),
		EMA9:  round2(ema9[last]),
		EMA21: round2(ema21[last]),
	}
	trend.Signal = trendSignal(closes[last], sma9[last], sma21[last], sma50[last])

	momentum := dto.MomentumIndicators{
		RSI14:         round2(rsi[last]),
		MACD:          round2(macd[last]),
		MACDSignal:    round2(macdSignal[last]),
		MACDHistogram: round2(macdHist[last]),
	}
	momentum.Signal = momentumSignal(rsi[last], macdHist[last])

	volatility := dto.VolatilityIndicators{
		BollingerUpper:  round2(bbUpper[last]),
		BollingerMiddle: round2(bbMiddle[last]),
		BollingerLower:  round2(bbLower[last]),
		ATR14:           round2(atr[last]),
	}

	latest := candles[0]
	s.logger.Debug("indicators computed",
		logger.Field("symbol", symbol),
		logger.Field("timeframe", timeframe),
		logger.Field("candles", len(candles)))

	return &dto.IndicatorsResponse{
		Symbol:     symbol,
		Timeframe:  timeframe,
		AsOf:       latest.Timestamp.UTC(),
		LastClose:  latest.Close,
		Candles:    len(candles),
		Trend:      trend,
		Momentum:   momentum,
		Volatility: volatility,
	}, nil
}

func trendSignal(close, sma9, sma21, sma50 float64) string {
	switch {
	case close > sma9 && sma9 > sma21 && sma21 > sma50:
		return "STRONG_UPTREND"
	case close > sma21 && sma21 > sma50:
		return "UPTREND"
	case close < sma9 && sma9 < sma21 && sma21 < sma50:
		return "STRONG_DOWNTREND"
	case close < sma21 && sma21 < sma50:
		return "DOWNTREND"
	default:
		return "SIDEWAYS"
	}
}

func momentumSignal(rsi, macdHist float64) string {
	switch {
	case rsi > 70:
		return "OVERBOUGHT"
	case rsi < 30:
		return "OVERSOLD"
	case macdHist > 0:
		return "BULLISH_MOMENTUM"
	case macdHist < 0:
		return "BEARISH_MOMENTUM"
	default:
		return "NEUTRAL"
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

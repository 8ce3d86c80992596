package dto

import "time"

// TrendIndicators are the moving-average family values at the latest candle.
type TrendIndicators struct {
	SMA9   float64 `json:"sma_9"`
	SMA21  float64 `json:"sma_21"`
	SMA50  float64 `json:"sma_50"`
	EMA9   float64 `json:"ema_9"`
	EMA21  float64 `json:"ema_21"`
	Signal string  `json:"signal"`
}

// MomentumIndicators are oscillator values at the latest candle.
type MomentumIndicators struct {
	RSI14         float64 `json:"rsi_14"`
	MACD          float64 `json:"macd"`
	MACDSignal    float64 `json:"macd_signal"`
	MACDHistogram float64 `json:"macd_histogram"`
	Signal        string  `json:"signal"`
}

// VolatilityIndicators are band/range values at the latest candle.
type VolatilityIndicators struct {
	BollingerUpper  float64 `json:"bollinger_upper"`
	BollingerMiddle float64 `json:"bollinger_middle"`
	BollingerLower  float64 `json:"bollinger_lower"`
	ATR14           float64 `json:"atr_14"`
}

// IndicatorsResponse is the full technical indicator report for a series.
type IndicatorsResponse struct {
	Symbol     string               `json:"symbol"`
	Timeframe  string               `json:"timeframe"`
	AsOf       time.Time            `json:"as_of"`
	LastClose  float64              `json:"last_close"`
	Candles    int                  `json:"candles"`
	Trend      TrendIndicators      `json:"trend"`
	Momentum   MomentumIndicators   `json:"momentum"`
	Volatility VolatilityIndicators `json:"volatility"`
}

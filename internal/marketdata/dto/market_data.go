package dto

import (
	"encoding/json"
	"time"
)

// CandleDTO represents one OHLCV candle in API requests and responses.
type CandleDTO struct {
	Symbol    string    `json:"symbol"`
	Timeframe string    `json:"timeframe"`
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    int64     `json:"volume"`
}

// StoreCandlesRequest is the DTO for upserting a batch of candles.
type StoreCandlesRequest struct {
	Candles []CandleDTO `json:"candles"`
}

// StoreCandlesResponse reports how many candles were written.
type StoreCandlesResponse struct {
	Stored int `json:"stored"`
}

// PriceResponse is the latest traded price for a symbol.
type PriceResponse struct {
	Symbol    string    `json:"symbol"`
	Price     float64   `json:"price"`
	Timeframe string    `json:"timeframe"`
	AsOf      time.Time `json:"as_of"`
}

// OptionQuoteDTO represents one options chain row.
type OptionQuoteDTO struct {
	Symbol         string    `json:"symbol"`
	Expiry         string    `json:"expiry"`
	Strike         float64   `json:"strike"`
	OptionType     string    `json:"option_type"`
	LTP            float64   `json:"ltp"`
	Bid            float64   `json:"bid"`
	Ask            float64   `json:"ask"`
	Volume         int64     `json:"volume"`
	OI             int64     `json:"oi"`
	Delta          float64   `json:"delta"`
	Gamma          float64   `json:"gamma"`
	Theta          float64   `json:"theta"`
	Vega           float64   `json:"vega"`
	Rho            float64   `json:"rho"`
	IV             float64   `json:"iv"`
	IntrinsicValue float64   `json:"intrinsic_value"`
	TimeValue      float64   `json:"time_value"`
	CapturedAt     time.Time `json:"captured_at"`
}

// StoreChainRequest is the DTO for storing an options chain snapshot.
type StoreChainRequest struct {
	Quotes []OptionQuoteDTO `json:"quotes"`
}

// StoreChainResponse reports how many quotes were written.
type StoreChainResponse struct {
	Stored  int   `json:"stored"`
	TotalOI int64 `json:"total_oi"`
}

// ChainResponse is the latest chain snapshot for a symbol.
type ChainResponse struct {
	Symbol string           `json:"symbol"`
	Expiry string           `json:"expiry,omitempty"`
	Quotes []OptionQuoteDTO `json:"quotes"`
}

// ExpiriesResponse lists available future expiries for a symbol.
type ExpiriesResponse struct {
	Symbol   string   `json:"symbol"`
	Expiries []string `json:"expiries"`
}

// MarketStatusResponse describes the current NSE session.
type MarketStatusResponse struct {
	Phase      string    `json:"phase"`
	IsOpen     bool      `json:"is_open"`
	ServerTime time.Time `json:"server_time"`
	NextOpen   time.Time `json:"next_open"`
	NextClose  time.Time `json:"next_close"`
}

// HealthResponse is the store health report with per-table counts.
type HealthResponse struct {
	Status         string           `json:"status"`
	ResponseTimeMS float64          `json:"response_time_ms"`
	Tables         map[string]int64 `json:"tables"`
	Error          string           `json:"error,omitempty"`
}

// RawJSON is a helper alias for pass-through JSON payloads.
type RawJSON = json.RawMessage

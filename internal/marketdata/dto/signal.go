package dto

import (
	"encoding/json"
	"time"
)

// CreateSignalRequest is the DTO for recording a new trading signal.
type CreateSignalRequest struct {
	Symbol           string          `json:"symbol"`
	SignalType       string          `json:"signal_type"`
	Direction        string          `json:"direction"`
	EntryPrice       float64         `json:"entry_price"`
	StopLoss         float64         `json:"stop_loss"`
	TargetPrice      float64         `json:"target_price"`
	ConfidenceScore  float64         `json:"confidence_score"`
	Reasoning        string          `json:"reasoning"`
	Timeframe        string          `json:"timeframe"`
	MarketConditions json.RawMessage `json:"market_conditions"`
}

// UpdateSignalStatusRequest is the DTO for signal status transitions.
type UpdateSignalStatusRequest struct {
	Status string `json:"status"`
}

// SignalResponse is the DTO for API responses containing signal details.
type SignalResponse struct {
	ID               int64           `json:"id"`
	Symbol           string          `json:"symbol"`
	SignalType       string          `json:"signal_type"`
	Direction        string          `json:"direction"`
	EntryPrice       float64         `json:"entry_price"`
	StopLoss         float64         `json:"stop_loss"`
	TargetPrice      float64         `json:"target_price"`
	ConfidenceScore  float64         `json:"confidence_score"`
	Reasoning        string          `json:"reasoning"`
	Status           string          `json:"status"`
	Timeframe        string          `json:"timeframe"`
	MarketConditions json.RawMessage `json:"market_conditions,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

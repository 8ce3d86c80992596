package entity

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SignalStatus is the lifecycle state of a trading signal.
type SignalStatus string

const (
	SignalStatusActive    SignalStatus = "ACTIVE"
	SignalStatusTriggered SignalStatus = "TRIGGERED"
	SignalStatusExpired   SignalStatus = "EXPIRED"
	SignalStatusCancelled SignalStatus = "CANCELLED"
)

type TradingSignal struct {
	ID               int64          `json:"id"`
	Symbol           string         `gorm:"not null;index" json:"symbol"`
	SignalType       string         `gorm:"not null" json:"signal_type"`
	Direction        string         `gorm:"not null" json:"direction"`
	EntryPrice       float64        `json:"entry_price"`
	StopLoss         float64        `json:"stop_loss"`
	TargetPrice      float64        `json:"target_price"`
	ConfidenceScore  float64        `json:"confidence_score"`
	Reasoning        string         `json:"reasoning"`
	Status           SignalStatus   `gorm:"not null;default:ACTIVE;index" json:"status"`
	Timeframe        string         `json:"timeframe"`
	MarketConditions datatypes.JSON `json:"market_conditions"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `json:"deleted_at"`
}

func (TradingSignal) TableName() string {
	return "trading_signals"
}

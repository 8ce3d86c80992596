package entity

import "time"

type Candle struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Symbol    string    `gorm:"not null;index:idx_candles_symbol_timeframe;uniqueIndex:ux_candles_key" json:"symbol"`
	Timeframe string    `gorm:"not null;index:idx_candles_symbol_timeframe;uniqueIndex:ux_candles_key" json:"timeframe"`
	Timestamp time.Time `gorm:"not null;uniqueIndex:ux_candles_key" json:"timestamp"`
	Open      float64   `gorm:"not null" json:"open"`
	High      float64   `gorm:"not null" json:"high"`
	Low       float64   `gorm:"not null" json:"low"`
	Close     float64   `gorm:"not null" json:"close"`
	Volume    int64     `gorm:"not null" json:"volume"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Candle) TableName() string {
	return "market_data_candles"
}

package entity

import "time"

// OptionType distinguishes calls and puts using NSE contract notation.
type OptionType string

const (
	OptionTypeCall OptionType = "CE"
	OptionTypePut  OptionType = "PE"
)

// OptionQuote is one row of an options chain snapshot. A snapshot batch
// shares a CapturedAt value, and chain reads always resolve the latest
// snapshot per contract.
type OptionQuote struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	Symbol         string     `gorm:"not null;index:idx_options_symbol_expiry;uniqueIndex:ux_options_key" json:"symbol"`
	Expiry         time.Time  `gorm:"not null;index:idx_options_symbol_expiry;uniqueIndex:ux_options_key" json:"expiry"`
	Strike         float64    `gorm:"not null;uniqueIndex:ux_options_key" json:"strike"`
	OptionType     OptionType `gorm:"column:option_type;not null;uniqueIndex:ux_options_key" json:"option_type"`
	LTP            float64    `gorm:"column:ltp" json:"ltp"`
	Bid            float64    `json:"bid"`
	Ask            float64    `json:"ask"`
	Volume         int64      `gorm:"default:0" json:"volume"`
	OI             int64      `gorm:"column:oi;default:0" json:"oi"`
	Delta          float64    `json:"delta"`
	Gamma          float64    `json:"gamma"`
	Theta          float64    `json:"theta"`
	Vega           float64    `json:"vega"`
	Rho            float64    `json:"rho"`
	IV             float64    `gorm:"column:iv" json:"iv"`
	IntrinsicValue float64    `json:"intrinsic_value"`
	TimeValue      float64    `json:"time_value"`
	CapturedAt     time.Time  `gorm:"not null;uniqueIndex:ux_options_key" json:"captured_at"`
}

func (OptionQuote) TableName() string {
	return "options_chain"
}

package entity

import "time"

type PerformanceMetric struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Date           time.Time `gorm:"not null;uniqueIndex" json:"date"`
	TotalPnL       float64   `gorm:"column:total_pnl;not null" json:"total_pnl"`
	RealizedPnL    float64   `gorm:"column:realized_pnl;not null" json:"realized_pnl"`
	UnrealizedPnL  float64   `gorm:"column:unrealized_pnl;not null" json:"unrealized_pnl"`
	NumberOfTrades int       `gorm:"default:0" json:"number_of_trades"`
	WinRate        float64   `json:"win_rate"`
	AvgWin         float64   `json:"avg_win"`
	AvgLoss        float64   `json:"avg_loss"`
	MaxDrawdown    float64   `json:"max_drawdown"`
	SharpeRatio    float64   `json:"sharpe_ratio"`
	PortfolioValue float64   `json:"portfolio_value"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (PerformanceMetric) TableName() string {
	return "performance_metrics"
}

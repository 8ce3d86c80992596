package dto

// PerformanceMetricDTO represents one daily performance row.
type PerformanceMetricDTO struct {
	Date           string  `json:"date"`
	TotalPnL       float64 `json:"total_pnl"`
	RealizedPnL    float64 `json:"realized_pnl"`
	UnrealizedPnL  float64 `json:"unrealized_pnl"`
	NumberOfTrades int     `json:"number_of_trades"`
	WinRate        float64 `json:"win_rate"`
	AvgWin         float64 `json:"avg_win"`
	AvgLoss        float64 `json:"avg_loss"`
	MaxDrawdown    float64 `json:"max_drawdown"`
	SharpeRatio    float64 `json:"sharpe_ratio"`
	PortfolioValue float64 `json:"portfolio_value"`
}

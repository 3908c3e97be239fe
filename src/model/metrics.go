package model

import "time"

// PortfolioValue is the result of a full portfolio valuation.
type PortfolioValue struct {
	PortfolioValue   float64 `json:"portfolio_value"`
	NetCashFlow      float64 `json:"net_cash_flow"`
	UnrealizedPL     float64 `json:"unrealized_pl"`
	TotalMarketValue float64 `json:"total_market_value"`
	StockValue       float64 `json:"stock_value"`
	OptionValue      float64 `json:"option_value"`
	CryptoValue      float64 `json:"crypto_value"`
	FuturesValue     float64 `json:"futures_value"`
}

// WinRateMetrics aggregates win/loss statistics over the trade population.
// Losses are reported as positive magnitudes.
type WinRateMetrics struct {
	TotalTrades              int     `json:"total_trades"`
	WinningTrades            int     `json:"winning_trades"`
	LosingTrades             int     `json:"losing_trades"`
	WinRate                  float64 `json:"win_rate"`
	TotalGains               float64 `json:"total_gains"`
	TotalLosses              float64 `json:"total_losses"`
	AverageGain              float64 `json:"average_gain"`
	AverageLoss              float64 `json:"average_loss"`
	ProfitFactor             float64 `json:"profit_factor"`
	LargestWin               float64 `json:"largest_win"`
	LargestLoss              float64 `json:"largest_loss"`
	Expectancy               float64 `json:"expectancy"`
	AverageHoldingPeriodDays float64 `json:"average_holding_period_days"`
	RealizedPL               float64 `json:"realized_pl"`
	ROI                      float64 `json:"roi"`
	CurrentBalance           float64 `json:"current_balance"`
}

// GroupMetrics is one row of a grouped breakdown (by symbol, month,
// weekday, option type, and so on). Key is the grouping value.
type GroupMetrics struct {
	Key           string  `json:"key"`
	TotalTrades   int     `json:"total_trades"`
	WinningTrades int     `json:"winning_trades"`
	LosingTrades  int     `json:"losing_trades"`
	WinRate       float64 `json:"win_rate"`
	TotalPL       float64 `json:"total_pl"`
	TotalGains    float64 `json:"total_gains"`
	TotalLosses   float64 `json:"total_losses"`
	AveragePL     float64 `json:"average_pl"`
}

// MarginEfficiencyMetrics extends the grouped row for futures with P&L per
// margin dollar reserved.
type MarginEfficiencyMetrics struct {
	GroupMetrics
	TotalMargin     float64 `json:"total_margin"`
	PLPerMarginUnit float64 `json:"pl_per_margin_unit"`
}

// DrawdownPoint is one point of the cumulative P&L drawdown series.
type DrawdownPoint struct {
	Date        time.Time `json:"date"`
	Value       float64   `json:"value"`
	Peak        float64   `json:"peak"`
	DrawdownPct float64   `json:"drawdown_pct"`
}

// HoldingPeriodBucket is one bar of the holding-period distribution.
type HoldingPeriodBucket struct {
	Bucket      string  `json:"bucket"`
	TradeCount  int     `json:"trade_count"`
	TotalPL     float64 `json:"total_pl"`
	WinRate     float64 `json:"win_rate"`
}

// WindowPerformance is a time-windowed P&L view (daily, weekly, monthly or
// yearly depending on the window requested).
type WindowPerformance struct {
	Window       string  `json:"window"`
	Strategy     string  `json:"strategy"`
	Value        float64 `json:"value"`
	Percent      float64 `json:"percent"`
	RealizedPL   float64 `json:"realized_pl"`
	UnrealizedPL float64 `json:"unrealized_pl"`
	Fees         float64 `json:"fees"`
	Baseline     float64 `json:"baseline"`
}

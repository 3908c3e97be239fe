package model

import "time"

// PortfolioSnapshot is a daily materialized record of portfolio state used
// for period-over-period comparison without recomputing history.
type PortfolioSnapshot struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"not null;index:idx_snapshot_user_date,unique" json:"user_id"`
	SnapshotDate  time.Time `gorm:"not null;index:idx_snapshot_user_date,unique" json:"snapshot_date"`
	PortfolioValue float64  `json:"portfolio_value"`
	NetCashFlow   float64   `json:"net_cash_flow"`
	StockValue    float64   `json:"stock_value"`
	OptionValue   float64   `json:"option_value"`
	CryptoValue   float64   `json:"crypto_value"`
	FuturesValue  float64   `json:"futures_value"`
	CreatedAt     time.Time `json:"created_at"`
}

package model

import "time"

// Strategy groups the legs of a multi-leg option position. A leg that
// carries a strategy_id is never counted as an individual trade; only the
// parent strategy is.
type Strategy struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	UserID           uint       `gorm:"not null;index" json:"user_id"`
	StrategyType     string     `gorm:"size:50;not null" json:"strategy_type"`
	Status           string     `gorm:"size:50;not null;default:open;index" json:"status"`
	UnderlyingSymbol string     `gorm:"size:50;not null" json:"underlying_symbol"`
	RealizedPL       float64    `json:"realized_pl"`
	MaxRisk          *float64   `json:"max_risk,omitempty"`
	TotalOpeningCost float64    `json:"total_opening_cost"`
	OpenedAt         *time.Time `json:"opened_at,omitempty"`
	ClosedAt         *time.Time `json:"closed_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`

	Legs []Position `gorm:"foreignKey:StrategyID" json:"legs,omitempty"`
}

const (
	StrategyStatusOpen            = "open"
	StrategyStatusClosed          = "closed"
	StrategyStatusPartiallyClosed = "partially_closed"
	StrategyStatusAssigned        = "assigned"
	StrategyStatusExpired         = "expired"
)

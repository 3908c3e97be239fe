package model

import "time"

type Position struct {
	ID                  uint       `gorm:"primaryKey" json:"id"`
	UserID              uint       `gorm:"index" json:"user_id"`
	AssetType           string     `gorm:"size:20;not null;index" json:"asset_type"`
	Symbol              string     `gorm:"size:50;not null" json:"symbol"`
	Side                string     `gorm:"size:10;not null" json:"side"`
	Status              string     `gorm:"size:50;not null;default:open;index" json:"status"`
	OpeningQuantity     float64    `json:"opening_quantity"`
	CurrentQuantity     float64    `json:"current_quantity"`
	AverageOpeningPrice float64    `json:"average_opening_price"`
	TotalCostBasis      float64    `json:"total_cost_basis"`
	TotalClosingAmount  float64    `json:"total_closing_amount"`
	RealizedPL          float64    `json:"realized_pl"`
	UnrealizedPL        float64    `json:"unrealized_pl"`
	Multiplier          float64    `gorm:"default:100" json:"multiplier"`
	StrategyID          *uint      `gorm:"index" json:"strategy_id,omitempty"`
	ExpirationDate      *time.Time `json:"expiration_date,omitempty"`
	StrikePrice         *float64   `json:"strike_price,omitempty"`
	OptionType          *string    `gorm:"size:10" json:"option_type,omitempty"`
	MarginRequirement   *float64   `json:"margin_requirement,omitempty"`
	ContractMonth       *string    `gorm:"size:20" json:"contract_month,omitempty"`
	OpenedAt            *time.Time `json:"opened_at,omitempty"`
	ClosedAt            *time.Time `json:"closed_at,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

const (
	AssetTypeStock   = "stock"
	AssetTypeOption  = "option"
	AssetTypeCrypto  = "crypto"
	AssetTypeFutures = "futures"
)

const (
	SideLong  = "long"
	SideShort = "short"
)

const (
	PositionStatusOpen     = "open"
	PositionStatusClosed   = "closed"
	PositionStatusExpired  = "expired"
	PositionStatusAssigned = "assigned"
)

const (
	OptionTypeCall = "call"
	OptionTypePut  = "put"
)

// HasRealizedPL reports whether quantity has been reduced from opening,
// which is the condition under which realized_pl is defined.
func (p *Position) HasRealizedPL() bool {
	return p.CurrentQuantity < p.OpeningQuantity
}

// IsClosedOrPartial reports whether the position counts as a trade for
// win-rate purposes.
func (p *Position) IsClosedOrPartial() bool {
	switch p.Status {
	case PositionStatusClosed, PositionStatusExpired, PositionStatusAssigned:
		return true
	}
	return p.HasRealizedPL()
}

package portfolio

import (
	"math"
	"time"

	"portfoliodesk/src/model"
)

// TradeKind tags which record a Trade was projected from.
type TradeKind string

const (
	TradeKindPosition TradeKind = "position"
	TradeKindStrategy TradeKind = "strategy"
)

// Trade is the common projection of a closed-or-partially-closed Position
// or a Strategy used by win-rate style metrics. A position belonging to a
// counted strategy never appears as its own Trade; the parent strategy
// appears exactly once.
type Trade struct {
	Kind       TradeKind
	RealizedPL float64
	OpenedAt   *time.Time
	ClosedAt   *time.Time

	// Set when Kind == TradeKindPosition.
	Position *model.Position
	// Set when Kind == TradeKindStrategy.
	Strategy *model.Strategy
}

// strategyRealizedPL returns the strategy's effective realized P&L. When a
// strategy is still marked open but every leg has closed, the stored value
// lags behind and the leg sum is authoritative.
func strategyRealizedPL(strategy model.Strategy) float64 {
	if strategy.RealizedPL != 0 {
		return strategy.RealizedPL
	}

	if len(strategy.Legs) == 0 {
		return 0
	}
	for _, leg := range strategy.Legs {
		if leg.Status == model.PositionStatusOpen {
			return 0
		}
	}

	var total float64
	for _, leg := range strategy.Legs {
		total += adjustedRealizedPL(leg)
	}
	return total
}

// adjustedRealizedPL returns the position's realized P&L, recovering the
// value for option positions whose closing leg never posted a cash amount
// (expired worthless or assigned): the cost basis is the loss for a long,
// the kept credit for a short.
func adjustedRealizedPL(position model.Position) float64 {
	if position.AssetType == model.AssetTypeOption &&
		(position.Status == model.PositionStatusExpired || position.Status == model.PositionStatusClosed) &&
		position.CurrentQuantity == 0 &&
		position.TotalClosingAmount == 0 &&
		position.RealizedPL == 0 {

		if position.TotalCostBasis != 0 {
			return position.TotalCostBasis
		}

		notional := math.Abs(position.OpeningQuantity * position.AverageOpeningPrice * position.Multiplier)
		if position.Side == model.SideShort {
			return notional
		}
		return -notional
	}

	return position.RealizedPL
}

// excludedStrategyPL is pass one of the two-pass aggregation: an immutable
// map from strategy id to corrected realized P&L, covering every strategy
// whose P&L must be counted at the strategy level. Member positions of these
// strategies contribute nothing individually.
func excludedStrategyPL(strategies []model.Strategy) map[uint]float64 {
	excluded := make(map[uint]float64, len(strategies))
	for _, strategy := range strategies {
		if pl := strategyRealizedPL(strategy); pl != 0 {
			excluded[strategy.ID] = pl
		}
	}
	return excluded
}

// strategyCountsAsTrade reports whether the strategy enters the trade
// population: it has closed (fully or partially) or carries realized P&L.
func strategyCountsAsTrade(strategy model.Strategy) bool {
	switch strategy.Status {
	case model.StrategyStatusClosed,
		model.StrategyStatusPartiallyClosed,
		model.StrategyStatusAssigned,
		model.StrategyStatusExpired:
		return true
	}
	return strategyRealizedPL(strategy) != 0
}

// buildTrades projects positions and strategies into the trade population
// under the exclusivity rule: a counted strategy is one trade, and its legs
// are skipped. Inputs are never mutated.
func buildTrades(positions []model.Position, strategies []model.Strategy) []Trade {
	trades := make([]Trade, 0, len(positions)+len(strategies))

	for i := range strategies {
		strategy := strategies[i]
		if !strategyCountsAsTrade(strategy) {
			continue
		}
		trades = append(trades, Trade{
			Kind:       TradeKindStrategy,
			RealizedPL: strategyRealizedPL(strategy),
			OpenedAt:   strategy.OpenedAt,
			ClosedAt:   strategy.ClosedAt,
			Strategy:   &strategies[i],
		})
	}

	for i := range positions {
		position := positions[i]
		// Strategy legs are never trades of their own; the parent
		// strategy represents them.
		if position.StrategyID != nil {
			continue
		}
		if !position.IsClosedOrPartial() {
			continue
		}
		trades = append(trades, Trade{
			Kind:       TradeKindPosition,
			RealizedPL: adjustedRealizedPL(position),
			OpenedAt:   position.OpenedAt,
			ClosedAt:   position.ClosedAt,
			Position:   &positions[i],
		})
	}

	return trades
}

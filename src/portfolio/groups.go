package portfolio

import (
	"context"
	"fmt"
	"math"
	"sort"

	"portfoliodesk/src/model"
	"portfoliodesk/src/utils"
)

// GroupBy names a grouped-breakdown dimension.
type GroupBy string

const (
	GroupBySymbol           GroupBy = "symbol"
	GroupByMonth            GroupBy = "month"
	GroupByDayOfWeek        GroupBy = "day_of_week"
	GroupByOptionType       GroupBy = "option_type"
	GroupByExpirationStatus GroupBy = "expiration_status"
	GroupByDTEBucket        GroupBy = "dte_bucket"
	GroupByStrategyType     GroupBy = "strategy_type"
	GroupByEntryTime        GroupBy = "entry_time"
	GroupByContractMonth    GroupBy = "contract_month"
	GroupByCoin             GroupBy = "coin"
)

// groupKey extracts the grouping key for a trade; ok is false when the
// trade does not belong to the dimension (e.g. a stock trade grouped by
// option type).
type groupKey func(trade Trade) (key string, ok bool)

var groupKeys = map[GroupBy]groupKey{
	GroupBySymbol: func(trade Trade) (string, bool) {
		if trade.Kind == TradeKindStrategy {
			return trade.Strategy.UnderlyingSymbol, true
		}
		return trade.Position.Symbol, true
	},
	GroupByMonth: func(trade Trade) (string, bool) {
		if trade.ClosedAt == nil {
			return "", false
		}
		return trade.ClosedAt.Format("2006-01"), true
	},
	GroupByDayOfWeek: func(trade Trade) (string, bool) {
		if trade.ClosedAt == nil {
			return "", false
		}
		return trade.ClosedAt.Weekday().String(), true
	},
	GroupByOptionType: func(trade Trade) (string, bool) {
		if trade.Kind != TradeKindPosition ||
			trade.Position.AssetType != model.AssetTypeOption ||
			trade.Position.OptionType == nil {
			return "", false
		}
		return *trade.Position.OptionType, true
	},
	GroupByExpirationStatus: func(trade Trade) (string, bool) {
		if trade.Kind != TradeKindPosition || trade.Position.AssetType != model.AssetTypeOption {
			return "", false
		}
		switch trade.Position.Status {
		case model.PositionStatusExpired, model.PositionStatusAssigned:
			return trade.Position.Status, true
		}
		return model.PositionStatusClosed, true
	},
	GroupByDTEBucket: func(trade Trade) (string, bool) {
		if trade.Kind != TradeKindPosition ||
			trade.Position.AssetType != model.AssetTypeOption ||
			trade.Position.ExpirationDate == nil ||
			trade.OpenedAt == nil {
			return "", false
		}
		dte := trade.Position.ExpirationDate.Sub(*trade.OpenedAt).Hours() / 24
		return dteBucket(dte), true
	},
	GroupByStrategyType: func(trade Trade) (string, bool) {
		if trade.Kind != TradeKindStrategy {
			return "", false
		}
		return trade.Strategy.StrategyType, true
	},
	GroupByEntryTime: func(trade Trade) (string, bool) {
		if trade.OpenedAt == nil {
			return "", false
		}
		return utils.RoundToFiveMinutes(*trade.OpenedAt).Format("15:04"), true
	},
	GroupByContractMonth: func(trade Trade) (string, bool) {
		if trade.Kind != TradeKindPosition ||
			trade.Position.AssetType != model.AssetTypeFutures ||
			trade.Position.ContractMonth == nil {
			return "", false
		}
		return *trade.Position.ContractMonth, true
	},
	GroupByCoin: func(trade Trade) (string, bool) {
		if trade.Kind != TradeKindPosition || trade.Position.AssetType != model.AssetTypeCrypto {
			return "", false
		}
		return trade.Position.Symbol, true
	},
}

func dteBucket(days float64) string {
	switch {
	case days <= 7:
		return "0-7"
	case days <= 30:
		return "8-30"
	case days <= 60:
		return "31-60"
	default:
		return "60+"
	}
}

// GroupedMetrics partitions the trade population by the given dimension and
// runs the shared win/loss arithmetic per group. Rows come back sorted by key.
func (s *Service) GroupedMetrics(
	ctx context.Context,
	userID uint,
	groupBy GroupBy,
) ([]model.GroupMetrics, error) {

	keyOf, ok := groupKeys[groupBy]
	if !ok {
		return nil, fmt.Errorf("unknown grouping %q", groupBy)
	}

	trades, err := s.tradePopulation(ctx, userID, nil)
	if err != nil {
		return nil, err
	}

	groups := map[string][]Trade{}
	for _, trade := range trades {
		key, ok := keyOf(trade)
		if !ok {
			continue
		}
		groups[key] = append(groups[key], trade)
	}

	rows := make([]model.GroupMetrics, 0, len(groups))
	for key, grouped := range groups {
		rows = append(rows, groupRow(key, grouped))
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Key < rows[j].Key })

	return rows, nil
}

func groupRow(key string, trades []Trade) model.GroupMetrics {
	stats := winLossStats(trades)

	row := model.GroupMetrics{
		Key:           key,
		TotalTrades:   stats.TotalTrades,
		WinningTrades: stats.WinningTrades,
		LosingTrades:  stats.LosingTrades,
		WinRate:       stats.WinRate,
		TotalPL:       stats.RealizedPL,
		TotalGains:    stats.TotalGains,
		TotalLosses:   stats.TotalLosses,
	}
	if stats.TotalTrades > 0 {
		row.AveragePL = stats.RealizedPL / float64(stats.TotalTrades)
	}
	return row
}

// HoldingPeriodDistribution buckets trades by holding period.
func (s *Service) HoldingPeriodDistribution(
	ctx context.Context,
	userID uint,
) ([]model.HoldingPeriodBucket, error) {

	trades, err := s.tradePopulation(ctx, userID, nil)
	if err != nil {
		return nil, err
	}

	order := []string{"1d", "2-7d", "8-30d", "30d+"}
	groups := map[string][]Trade{}

	for _, trade := range trades {
		if trade.OpenedAt == nil || trade.ClosedAt == nil {
			continue
		}
		days := utils.HoldingPeriodDays(*trade.OpenedAt, *trade.ClosedAt)
		groups[holdingBucket(days)] = append(groups[holdingBucket(days)], trade)
	}

	buckets := make([]model.HoldingPeriodBucket, 0, len(order))
	for _, name := range order {
		grouped, ok := groups[name]
		if !ok {
			continue
		}
		stats := winLossStats(grouped)
		buckets = append(buckets, model.HoldingPeriodBucket{
			Bucket:     name,
			TradeCount: stats.TotalTrades,
			TotalPL:    stats.RealizedPL,
			WinRate:    stats.WinRate,
		})
	}

	return buckets, nil
}

func holdingBucket(days float64) string {
	switch {
	case days <= 1:
		return "1d"
	case days <= 7:
		return "2-7d"
	case days <= 30:
		return "8-30d"
	default:
		return "30d+"
	}
}

// MarginEfficiency breaks futures trades down by contract month with
// realized P&L per margin dollar reserved.
func (s *Service) MarginEfficiency(
	ctx context.Context,
	userID uint,
) ([]model.MarginEfficiencyMetrics, error) {

	trades, err := s.tradePopulation(ctx, userID, nil)
	if err != nil {
		return nil, err
	}

	type marginGroup struct {
		trades []Trade
		margin float64
	}
	groups := map[string]*marginGroup{}

	for _, trade := range trades {
		if trade.Kind != TradeKindPosition || trade.Position.AssetType != model.AssetTypeFutures {
			continue
		}
		key := "unknown"
		if trade.Position.ContractMonth != nil {
			key = *trade.Position.ContractMonth
		}
		group, ok := groups[key]
		if !ok {
			group = &marginGroup{}
			groups[key] = group
		}
		group.trades = append(group.trades, trade)
		if trade.Position.MarginRequirement != nil {
			group.margin += math.Abs(*trade.Position.MarginRequirement)
		}
	}

	rows := make([]model.MarginEfficiencyMetrics, 0, len(groups))
	for key, group := range groups {
		row := model.MarginEfficiencyMetrics{
			GroupMetrics: groupRow(key, group.trades),
			TotalMargin:  group.margin,
		}
		if group.margin > 0 {
			row.PLPerMarginUnit = row.TotalPL / group.margin
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Key < rows[j].Key })

	return rows, nil
}

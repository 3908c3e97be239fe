package portfolio

import (
	"context"
	"fmt"
	"math"

	logger "github.com/sirupsen/logrus"

	"portfoliodesk/src/model"
	"portfoliodesk/src/utils"
)

// Window is a performance lookback period.
type Window string

const (
	WindowDaily   Window = "daily"
	WindowWeekly  Window = "weekly"
	WindowMonthly Window = "monthly"
	WindowYearly  Window = "yearly"
)

// WindowStrategy selects how a windowed P&L figure is derived. The two
// strategies produce different numbers from the same data and are kept
// separate on purpose; deployments pick one per metric.
type WindowStrategy string

const (
	// StrategyRealizedWindow sums realized P&L over the window and adds
	// the current unrealized P&L, minus fees for week and month windows.
	StrategyRealizedWindow WindowStrategy = "realized_window"
	// StrategySnapshotComparison compares the current portfolio value to
	// the persisted snapshot from the start of the window.
	StrategySnapshotComparison WindowStrategy = "snapshot_comparison"
)

func windowDays(window Window) (int, error) {
	switch window {
	case WindowDaily:
		return 1, nil
	case WindowWeekly:
		return 7, nil
	case WindowMonthly:
		return 30, nil
	case WindowYearly:
		return 365, nil
	}
	return 0, fmt.Errorf("unknown window %q", window)
}

// WindowPerformance computes the P&L view for one window under the chosen
// strategy.
func (s *Service) WindowPerformance(
	ctx context.Context,
	userID uint,
	window Window,
	strategy WindowStrategy,
) (model.WindowPerformance, error) {

	days, err := windowDays(window)
	if err != nil {
		return model.WindowPerformance{}, err
	}

	switch strategy {
	case StrategySnapshotComparison:
		return s.snapshotComparison(ctx, userID, window, days)
	case StrategyRealizedWindow, "":
		return s.realizedWindow(ctx, userID, window, days)
	}
	return model.WindowPerformance{}, fmt.Errorf("unknown window strategy %q", strategy)
}

// Per-window shorthands for callers that do not thread the window through.

func (s *Service) DailyPerformance(ctx context.Context, userID uint, strategy WindowStrategy) (model.WindowPerformance, error) {
	return s.WindowPerformance(ctx, userID, WindowDaily, strategy)
}

func (s *Service) WeeklyPerformance(ctx context.Context, userID uint, strategy WindowStrategy) (model.WindowPerformance, error) {
	return s.WindowPerformance(ctx, userID, WindowWeekly, strategy)
}

func (s *Service) MonthlyPerformance(ctx context.Context, userID uint, strategy WindowStrategy) (model.WindowPerformance, error) {
	return s.WindowPerformance(ctx, userID, WindowMonthly, strategy)
}

func (s *Service) YearlyPerformance(ctx context.Context, userID uint, strategy WindowStrategy) (model.WindowPerformance, error) {
	return s.WindowPerformance(ctx, userID, WindowYearly, strategy)
}

func (s *Service) realizedWindow(
	ctx context.Context,
	userID uint,
	window Window,
	days int,
) (model.WindowPerformance, error) {

	result := model.WindowPerformance{
		Window:   string(window),
		Strategy: string(StrategyRealizedWindow),
	}

	now := s.now()
	start := now.AddDate(0, 0, -days)

	realized, err := s.RealizedPLForDateRange(ctx, userID, start, now)
	if err != nil {
		return result, err
	}
	result.RealizedPL = realized

	valuation, err := s.ComputePortfolioValue(ctx, userID)
	if err != nil {
		return result, err
	}
	result.UnrealizedPL = valuation.UnrealizedPL

	// Fees drag enough over a week or month to matter; daily and yearly
	// views keep the raw figure.
	if window == WindowWeekly || window == WindowMonthly {
		feeTxs, err := s.cash.FindByUserIDAndDateRange(ctx, userID, start, now, model.TxCodeFee)
		if err != nil {
			return result, err
		}
		for _, tx := range feeTxs {
			result.Fees += math.Abs(tx.Amount)
		}
	}

	result.Value = realized + valuation.UnrealizedPL - result.Fees
	result.Baseline = valuation.PortfolioValue
	result.Percent = percentOf(result.Value, result.Baseline)

	logger.WithFields(map[string]interface{}{
		"service": "portfolio",
		"op":      "WindowPerformance",
		"user_id": userID,
		"window":  window,
		"value":   result.Value,
	}).Debug("Realized-window performance computed")

	return result, nil
}

func (s *Service) snapshotComparison(
	ctx context.Context,
	userID uint,
	window Window,
	days int,
) (model.WindowPerformance, error) {

	result := model.WindowPerformance{
		Window:   string(window),
		Strategy: string(StrategySnapshotComparison),
	}

	valuation, err := s.ComputePortfolioValue(ctx, userID)
	if err != nil {
		return result, err
	}
	result.UnrealizedPL = valuation.UnrealizedPL

	baselineDate := utils.StartOfDay(s.now().AddDate(0, 0, -days))

	snapshot, err := s.snapshots.FindByDate(ctx, userID, baselineDate)
	if err != nil {
		return result, err
	}

	if snapshot == nil {
		// No snapshot to compare against: degrade to unrealized only.
		logger.WithFields(map[string]interface{}{
			"service": "portfolio",
			"op":      "WindowPerformance",
			"user_id": userID,
			"window":  window,
			"date":    baselineDate,
		}).Info("No snapshot for baseline date, falling back to unrealized P&L")

		result.Value = valuation.UnrealizedPL
		return result, nil
	}

	result.Baseline = snapshot.PortfolioValue
	result.Value = valuation.PortfolioValue - snapshot.PortfolioValue
	result.Percent = percentOf(result.Value, result.Baseline)

	return result, nil
}

// MaterializeSnapshot persists today's portfolio snapshot, giving the
// snapshot-comparison strategy something to compare against tomorrow.
func (s *Service) MaterializeSnapshot(ctx context.Context, userID uint) error {
	valuation, err := s.ComputePortfolioValue(ctx, userID)
	if err != nil {
		return err
	}

	return s.snapshots.Upsert(ctx, &model.PortfolioSnapshot{
		UserID:         userID,
		SnapshotDate:   utils.StartOfDay(s.now()),
		PortfolioValue: valuation.PortfolioValue,
		NetCashFlow:    valuation.NetCashFlow,
		StockValue:     valuation.StockValue,
		OptionValue:    valuation.OptionValue,
		CryptoValue:    valuation.CryptoValue,
		FuturesValue:   valuation.FuturesValue,
	})
}

// SnapshotHistory returns the materialized snapshots for a user, oldest
// first. Consumers chart these directly.
func (s *Service) SnapshotHistory(ctx context.Context, userID uint) ([]model.PortfolioSnapshot, error) {
	return s.snapshots.FindByUserID(ctx, userID)
}

// percentOf guards the ratio against a zero baseline.
func percentOf(value, baseline float64) float64 {
	if baseline == 0 {
		return 0
	}
	return value / math.Abs(baseline) * 100
}

package portfolio

import (
	"context"
	"math"

	logger "github.com/sirupsen/logrus"

	"portfoliodesk/src/model"
	"portfoliodesk/src/repository"
	"portfoliodesk/src/utils"
)

// CalculateWinRate computes win/loss statistics over the user's trade
// population, optionally restricted to one asset type. A strategy counts as
// one trade regardless of leg count; a trade with exactly zero P&L counts
// in the total but is neither a win nor a loss.
func (s *Service) CalculateWinRate(
	ctx context.Context,
	userID uint,
	assetType *string,
) (model.WinRateMetrics, error) {

	var metrics model.WinRateMetrics

	trades, err := s.tradePopulation(ctx, userID, assetType)
	if err != nil {
		return metrics, err
	}

	metrics = winLossStats(trades)

	transactions, err := s.cash.FindByUserID(ctx, userID)
	if err != nil {
		return metrics, err
	}

	initialInvestment := 0.0
	for _, tx := range transactions {
		if tx.TransactionCode == model.TxCodeDeposit && tx.Amount > 0 {
			initialInvestment += tx.Amount
		}
	}
	if initialInvestment > 0 {
		metrics.ROI = metrics.RealizedPL / initialInvestment * 100
	}

	valuation, err := s.ComputePortfolioValue(ctx, userID)
	if err != nil {
		return metrics, err
	}
	metrics.CurrentBalance = valuation.NetCashFlow + valuation.UnrealizedPL

	logger.WithFields(map[string]interface{}{
		"service":      "portfolio",
		"op":           "CalculateWinRate",
		"user_id":      userID,
		"total_trades": metrics.TotalTrades,
		"win_rate":     metrics.WinRate,
	}).Debug("Win rate calculated")

	return metrics, nil
}

// tradePopulation fetches positions and strategies and projects them into
// trades under the strategy/position exclusivity rule.
func (s *Service) tradePopulation(
	ctx context.Context,
	userID uint,
	assetType *string,
) ([]Trade, error) {

	positions, err := s.positions.FindByUserID(ctx, userID, repository.PositionSearchOptions{
		AssetType: assetType,
	})
	if err != nil {
		return nil, err
	}

	strategies, err := s.strategies.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Strategies group option legs; when the population is restricted to
	// a non-option asset type they contribute nothing.
	if assetType != nil && *assetType != model.AssetTypeOption {
		strategies = nil
	}

	return buildTrades(positions, strategies), nil
}

// winLossStats runs the shared win/loss arithmetic over a trade slice.
func winLossStats(trades []Trade) model.WinRateMetrics {
	var metrics model.WinRateMetrics

	metrics.TotalTrades = len(trades)

	var holdingDays float64
	var holdingCount int

	for _, trade := range trades {
		pl := trade.RealizedPL
		metrics.RealizedPL += pl

		switch {
		case pl > 0:
			metrics.WinningTrades++
			metrics.TotalGains += pl
			if pl > metrics.LargestWin {
				metrics.LargestWin = pl
			}
		case pl < 0:
			metrics.LosingTrades++
			metrics.TotalLosses += -pl
			if pl < metrics.LargestLoss {
				metrics.LargestLoss = pl
			}
		}

		if trade.OpenedAt != nil && trade.ClosedAt != nil {
			holdingDays += utils.HoldingPeriodDays(*trade.OpenedAt, *trade.ClosedAt)
			holdingCount++
		}
	}

	if metrics.TotalTrades > 0 {
		metrics.WinRate = float64(metrics.WinningTrades) / float64(metrics.TotalTrades) * 100
	}
	if metrics.WinningTrades > 0 {
		metrics.AverageGain = metrics.TotalGains / float64(metrics.WinningTrades)
	}
	if metrics.LosingTrades > 0 {
		metrics.AverageLoss = metrics.TotalLosses / float64(metrics.LosingTrades)
	}

	if metrics.TotalLosses > 0 {
		metrics.ProfitFactor = metrics.TotalGains / metrics.TotalLosses
	}
	// Clamp a non-finite factor (gains with zero losses) for display safety.
	if math.IsInf(metrics.ProfitFactor, 0) || math.IsNaN(metrics.ProfitFactor) {
		metrics.ProfitFactor = 0
	}

	if metrics.TotalTrades > 0 {
		lossRate := float64(metrics.LosingTrades) / float64(metrics.TotalTrades) * 100
		metrics.Expectancy = (metrics.WinRate/100)*metrics.AverageGain -
			(lossRate/100)*metrics.AverageLoss
	}

	if holdingCount > 0 {
		metrics.AverageHoldingPeriodDays = holdingDays / float64(holdingCount)
	}

	return metrics
}

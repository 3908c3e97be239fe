package portfolio

import (
	"context"
	"math"
	"sort"
	"time"

	"portfoliodesk/src/model"
	"portfoliodesk/src/utils"
)

func timeFromUnix(sec int64) time.Time {
	return time.Unix(sec, 0).UTC()
}

// DrawdownOverTime builds the cumulative daily P&L series and its drawdown
// from peak. Realized P&L is bucketed by close date; the current unrealized
// P&L lands on the final (present-day) point. The peak starts at zero, so
// the series begins at zero drawdown when the first value is non-negative.
func (s *Service) DrawdownOverTime(
	ctx context.Context,
	userID uint,
) ([]model.DrawdownPoint, error) {

	trades, err := s.tradePopulation(ctx, userID, nil)
	if err != nil {
		return nil, err
	}

	daily := map[int64]float64{}
	for _, trade := range trades {
		if trade.ClosedAt == nil {
			continue
		}
		day := utils.StartOfDay(*trade.ClosedAt)
		daily[day.Unix()] += trade.RealizedPL
	}

	valuation, err := s.ComputePortfolioValue(ctx, userID)
	if err != nil {
		return nil, err
	}

	today := utils.StartOfDay(s.now())
	daily[today.Unix()] += valuation.UnrealizedPL

	days := make([]int64, 0, len(daily))
	for day := range daily {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })

	points := make([]model.DrawdownPoint, 0, len(days))
	var cumulative, peak float64

	for _, day := range days {
		cumulative += daily[day]
		if cumulative > peak {
			peak = cumulative
		}

		drawdown := 0.0
		if peak != 0 {
			drawdown = (peak - cumulative) / math.Abs(peak) * 100
		}

		points = append(points, model.DrawdownPoint{
			Date:        utils.StartOfDay(timeFromUnix(day)),
			Value:       cumulative,
			Peak:        peak,
			DrawdownPct: drawdown,
		})
	}

	return points, nil
}

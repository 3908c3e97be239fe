package portfolio

import (
	"context"
	"time"

	logger "github.com/sirupsen/logrus"
)

// RealizedPLForDateRange sums realized P&L across positions and strategies
// closed inside [start, end]. A strategy with realized P&L counts once and
// shadows its member positions, so a two-leg spread is one result, not two.
//
// Pure two-pass algorithm: pass one computes corrected strategy P&L into an
// immutable exclusion map, pass two filters positions against it. Input
// records are never mutated.
func (s *Service) RealizedPLForDateRange(
	ctx context.Context,
	userID uint,
	start, end time.Time,
) (float64, error) {

	positions, err := s.positions.FindRealizedByDateRange(ctx, userID, start, end)
	if err != nil {
		return 0, err
	}

	strategies, err := s.strategies.FindRealizedByDateRange(ctx, userID, start, end)
	if err != nil {
		return 0, err
	}

	excluded := excludedStrategyPL(strategies)

	var total float64
	for _, pl := range excluded {
		total += pl
	}

	for _, position := range positions {
		if position.StrategyID != nil {
			if _, covered := excluded[*position.StrategyID]; covered {
				continue
			}
		}
		total += adjustedRealizedPL(position)
	}

	logger.WithFields(map[string]interface{}{
		"service":    "portfolio",
		"op":         "RealizedPLForDateRange",
		"user_id":    userID,
		"positions":  len(positions),
		"strategies": len(strategies),
		"total":      total,
	}).Debug("Realized P&L aggregated")

	return total, nil
}

package repository

import (
	"context"
	"time"

	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"portfoliodesk/src/database"
	"portfoliodesk/src/model"
)

// StrategyRepository handles read operations for multi-leg option strategies.
type StrategyRepository struct {
	db *gorm.DB
}

// NewStrategyRepository creates a new repository instance using the main database.
func NewStrategyRepository() *StrategyRepository {
	return &StrategyRepository{db: database.MainDB}
}

// WithDB allows overriding the underlying *gorm.DB instance.
func (r *StrategyRepository) WithDB(db *gorm.DB) *StrategyRepository {
	return &StrategyRepository{db: db}
}

// FindByUserID fetches all strategies for a user with legs preloaded.
func (r *StrategyRepository) FindByUserID(
	ctx context.Context,
	userID uint,
) ([]model.Strategy, error) {

	logger.WithFields(map[string]interface{}{
		"repo":    "StrategyRepository",
		"op":      "FindByUserID",
		"user_id": userID,
	}).Debug("Fetching strategies for user")

	var strategies []model.Strategy

	err := r.db.WithContext(ctx).
		Preload("Legs").
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&strategies).Error

	if err != nil {
		logger.WithFields(map[string]interface{}{
			"repo":    "StrategyRepository",
			"op":      "FindByUserID",
			"user_id": userID,
		}).WithError(err).Error("Failed to fetch strategies")

		return nil, err
	}

	return strategies, nil
}

// FindRealizedByDateRange fetches strategies closed (fully or partially)
// inside [start, end], with legs preloaded so callers can derive realized
// P&L from the legs when the strategy itself has none recorded.
func (r *StrategyRepository) FindRealizedByDateRange(
	ctx context.Context,
	userID uint,
	start, end time.Time,
) ([]model.Strategy, error) {

	logger.WithFields(map[string]interface{}{
		"repo":    "StrategyRepository",
		"op":      "FindRealizedByDateRange",
		"user_id": userID,
		"start":   start,
		"end":     end,
	}).Debug("Fetching realized strategies in range")

	var strategies []model.Strategy

	err := r.db.WithContext(ctx).
		Preload("Legs").
		Where("user_id = ?", userID).
		Where("status IN ?", []string{
			model.StrategyStatusClosed,
			model.StrategyStatusPartiallyClosed,
			model.StrategyStatusAssigned,
			model.StrategyStatusExpired,
		}).
		Where("closed_at >= ? AND closed_at <= ?", start, end).
		Order("closed_at ASC, id ASC").
		Find(&strategies).Error

	if err != nil {
		logger.WithFields(map[string]interface{}{
			"repo":    "StrategyRepository",
			"op":      "FindRealizedByDateRange",
			"user_id": userID,
		}).WithError(err).Error("Failed to fetch realized strategies")

		return nil, err
	}

	return strategies, nil
}

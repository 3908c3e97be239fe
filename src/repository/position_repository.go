package repository

import (
	"context"
	"time"

	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"portfoliodesk/src/database"
	"portfoliodesk/src/model"
)

// PositionRepository handles read operations for positions. Positions are
// created by trade execution and import flows; this service only reads them.
type PositionRepository struct {
	db *gorm.DB
}

// NewPositionRepository creates a new repository instance using the main database.
func NewPositionRepository() *PositionRepository {
	return &PositionRepository{db: database.MainDB}
}

// WithDB allows overriding the underlying *gorm.DB instance.
// Useful for tests or when using a specific session/transaction.
func (r *PositionRepository) WithDB(db *gorm.DB) *PositionRepository {
	return &PositionRepository{db: db}
}

// PositionSearchOptions narrows FindByUserID results.
type PositionSearchOptions struct {
	Status    *string
	AssetType *string
}

// FindByUserID fetches all positions for a user, optionally filtered by
// status and asset type.
func (r *PositionRepository) FindByUserID(
	ctx context.Context,
	userID uint,
	options PositionSearchOptions,
) ([]model.Position, error) {

	logger.WithFields(map[string]interface{}{
		"repo":    "PositionRepository",
		"op":      "FindByUserID",
		"user_id": userID,
	}).Debug("Fetching positions for user")

	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if options.Status != nil {
		query = query.Where("status = ?", *options.Status)
	}
	if options.AssetType != nil {
		query = query.Where("asset_type = ?", *options.AssetType)
	}

	var positions []model.Position
	err := query.Order("opened_at ASC, id ASC").Find(&positions).Error
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"repo":    "PositionRepository",
			"op":      "FindByUserID",
			"user_id": userID,
		}).WithError(err).Error("Failed to fetch positions")

		return nil, err
	}

	logger.WithFields(map[string]interface{}{
		"repo":        "PositionRepository",
		"op":          "FindByUserID",
		"user_id":     userID,
		"rows_return": len(positions),
	}).Debug("Positions fetched")

	return positions, nil
}

// FindOpenByUserID fetches all open positions for a user.
func (r *PositionRepository) FindOpenByUserID(
	ctx context.Context,
	userID uint,
) ([]model.Position, error) {
	status := model.PositionStatusOpen
	return r.FindByUserID(ctx, userID, PositionSearchOptions{Status: &status})
}

// ListUserIDs returns the distinct user ids that hold any position. Used by
// the snapshot refresher to know which portfolios to materialize.
func (r *PositionRepository) ListUserIDs(ctx context.Context) ([]uint, error) {
	var userIDs []uint

	err := r.db.WithContext(ctx).
		Model(&model.Position{}).
		Distinct("user_id").
		Order("user_id ASC").
		Pluck("user_id", &userIDs).Error

	if err != nil {
		logger.WithFields(map[string]interface{}{
			"repo": "PositionRepository",
			"op":   "ListUserIDs",
		}).WithError(err).Error("Failed to list user ids")

		return nil, err
	}

	return userIDs, nil
}

// FindRealizedByDateRange fetches positions that realized P&L with a close
// date inside [start, end]. Expired and assigned positions are included so
// that option legs that never posted a closing cash amount still surface.
func (r *PositionRepository) FindRealizedByDateRange(
	ctx context.Context,
	userID uint,
	start, end time.Time,
) ([]model.Position, error) {

	logger.WithFields(map[string]interface{}{
		"repo":    "PositionRepository",
		"op":      "FindRealizedByDateRange",
		"user_id": userID,
		"start":   start,
		"end":     end,
	}).Debug("Fetching realized positions in range")

	var positions []model.Position

	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("status IN ?", []string{
			model.PositionStatusClosed,
			model.PositionStatusExpired,
			model.PositionStatusAssigned,
		}).
		Where("closed_at >= ? AND closed_at <= ?", start, end).
		Order("closed_at ASC, id ASC").
		Find(&positions).Error

	if err != nil {
		logger.WithFields(map[string]interface{}{
			"repo":    "PositionRepository",
			"op":      "FindRealizedByDateRange",
			"user_id": userID,
		}).WithError(err).Error("Failed to fetch realized positions")

		return nil, err
	}

	return positions, nil
}

package repository

import (
	"context"
	"errors"
	"time"

	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"portfoliodesk/src/database"
	"portfoliodesk/src/model"
)

// SnapshotRepository reads and materializes daily portfolio snapshots.
type SnapshotRepository struct {
	db *gorm.DB
}

// NewSnapshotRepository creates a new repository instance using the main database.
func NewSnapshotRepository() *SnapshotRepository {
	return &SnapshotRepository{db: database.MainDB}
}

// WithDB allows overriding the underlying *gorm.DB instance.
func (r *SnapshotRepository) WithDB(db *gorm.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// FindByDate fetches the snapshot for a user on the given calendar day.
// Returns (nil, nil) when no snapshot exists for that date.
func (r *SnapshotRepository) FindByDate(
	ctx context.Context,
	userID uint,
	date time.Time,
) (*model.PortfolioSnapshot, error) {

	day := date.Truncate(24 * time.Hour)

	logger.WithFields(map[string]interface{}{
		"repo":    "SnapshotRepository",
		"op":      "FindByDate",
		"user_id": userID,
		"date":    day,
	}).Debug("Fetching snapshot by date")

	var snapshot model.PortfolioSnapshot

	err := r.db.WithContext(ctx).
		Where("user_id = ? AND snapshot_date = ?", userID, day).
		First(&snapshot).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.WithFields(map[string]interface{}{
				"repo":    "SnapshotRepository",
				"op":      "FindByDate",
				"user_id": userID,
				"date":    day,
			}).Info("No snapshot for date")

			return nil, nil
		}

		logger.WithFields(map[string]interface{}{
			"repo":    "SnapshotRepository",
			"op":      "FindByDate",
			"user_id": userID,
		}).WithError(err).Error("Failed to fetch snapshot")

		return nil, err
	}

	return &snapshot, nil
}

// FindByUserID fetches all snapshots for a user ordered by date.
func (r *SnapshotRepository) FindByUserID(
	ctx context.Context,
	userID uint,
) ([]model.PortfolioSnapshot, error) {

	logger.WithFields(map[string]interface{}{
		"repo":    "SnapshotRepository",
		"op":      "FindByUserID",
		"user_id": userID,
	}).Debug("Fetching snapshots for user")

	var snapshots []model.PortfolioSnapshot

	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("snapshot_date ASC").
		Find(&snapshots).Error

	if err != nil {
		logger.WithFields(map[string]interface{}{
			"repo":    "SnapshotRepository",
			"op":      "FindByUserID",
			"user_id": userID,
		}).WithError(err).Error("Failed to fetch snapshots")

		return nil, err
	}

	return snapshots, nil
}

// Upsert persists a snapshot, replacing any existing row for the same user
// and date so at most one snapshot exists per user per day.
func (r *SnapshotRepository) Upsert(
	ctx context.Context,
	snapshot *model.PortfolioSnapshot,
) error {

	snapshot.SnapshotDate = snapshot.SnapshotDate.Truncate(24 * time.Hour)

	logger.WithFields(map[string]interface{}{
		"repo":    "SnapshotRepository",
		"op":      "Upsert",
		"user_id": snapshot.UserID,
		"date":    snapshot.SnapshotDate,
	}).Debug("Upserting snapshot")

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "snapshot_date"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"portfolio_value", "net_cash_flow",
				"stock_value", "option_value", "crypto_value", "futures_value",
			}),
		}).
		Create(snapshot).Error

	if err != nil {
		logger.WithFields(map[string]interface{}{
			"repo":    "SnapshotRepository",
			"op":      "Upsert",
			"user_id": snapshot.UserID,
		}).WithError(err).Error("Failed to upsert snapshot")

		return err
	}

	logger.WithFields(map[string]interface{}{
		"repo":    "SnapshotRepository",
		"op":      "Upsert",
		"user_id": snapshot.UserID,
		"date":    snapshot.SnapshotDate,
	}).Info("Snapshot upserted")

	return nil
}

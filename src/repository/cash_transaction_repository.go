package repository

import (
	"context"
	"time"

	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"portfoliodesk/src/database"
	"portfoliodesk/src/model"
)

// CashTransactionRepository reads the append-only cash ledger.
type CashTransactionRepository struct {
	db *gorm.DB
}

// NewCashTransactionRepository creates a new repository instance using the main database.
func NewCashTransactionRepository() *CashTransactionRepository {
	return &CashTransactionRepository{db: database.MainDB}
}

// WithDB allows overriding the underlying *gorm.DB instance.
func (r *CashTransactionRepository) WithDB(db *gorm.DB) *CashTransactionRepository {
	return &CashTransactionRepository{db: db}
}

// FindByUserID fetches all ledger entries for a user, oldest first.
func (r *CashTransactionRepository) FindByUserID(
	ctx context.Context,
	userID uint,
) ([]model.CashTransaction, error) {

	logger.WithFields(map[string]interface{}{
		"repo":    "CashTransactionRepository",
		"op":      "FindByUserID",
		"user_id": userID,
	}).Debug("Fetching cash transactions for user")

	var transactions []model.CashTransaction

	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("activity_date ASC, id ASC").
		Find(&transactions).Error

	if err != nil {
		logger.WithFields(map[string]interface{}{
			"repo":    "CashTransactionRepository",
			"op":      "FindByUserID",
			"user_id": userID,
		}).WithError(err).Error("Failed to fetch cash transactions")

		return nil, err
	}

	return transactions, nil
}

// FindByUserIDAndDateRange fetches ledger entries with an activity date
// inside [start, end], optionally restricted to the given transaction codes.
func (r *CashTransactionRepository) FindByUserIDAndDateRange(
	ctx context.Context,
	userID uint,
	start, end time.Time,
	codes ...string,
) ([]model.CashTransaction, error) {

	logger.WithFields(map[string]interface{}{
		"repo":    "CashTransactionRepository",
		"op":      "FindByUserIDAndDateRange",
		"user_id": userID,
		"start":   start,
		"end":     end,
	}).Debug("Fetching cash transactions in range")

	query := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("activity_date >= ? AND activity_date <= ?", start, end)
	if len(codes) > 0 {
		query = query.Where("transaction_code IN ?", codes)
	}

	var transactions []model.CashTransaction
	err := query.Order("activity_date ASC, id ASC").Find(&transactions).Error
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"repo":    "CashTransactionRepository",
			"op":      "FindByUserIDAndDateRange",
			"user_id": userID,
		}).WithError(err).Error("Failed to fetch cash transactions in range")

		return nil, err
	}

	return transactions, nil
}

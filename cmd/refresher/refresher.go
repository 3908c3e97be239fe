package refresher

import (
	"context"
	"os/signal"
	"syscall"

	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"portfoliodesk/src/database"
	"portfoliodesk/src/portfolio"
	"portfoliodesk/src/quotes"
	"portfoliodesk/src/repository"
)

// Refresher is the background worker that materializes daily portfolio
// snapshots and keeps the metric cache warm. It runs until interrupted.
type Refresher struct {
	Log    *logger.Entry
	DB     *gorm.DB
	Config *Config

	positions *repository.PositionRepository
	service   *portfolio.Service
	cache     *portfolio.Cache
}

func (r *Refresher) Start() error {
	r.Config = GetConfig()

	if r.DB == nil {
		r.DB = database.MainDB
	}

	quoteConfig := quotes.GetConfig()
	r.positions = repository.NewPositionRepository().WithDB(r.DB)
	r.service = portfolio.NewService(
		r.positions,
		repository.NewStrategyRepository().WithDB(r.DB),
		repository.NewCashTransactionRepository().WithDB(r.DB),
		repository.NewSnapshotRepository().WithDB(r.DB),
		quotes.NewStockClient(quoteConfig),
		quotes.NewCryptoClient(),
	)
	r.cache = portfolio.NewCache()

	worker := portfolio.NewRefresher(r.cache, r.Config.Interval)
	worker.Register("materialize_snapshots", r.materializeSnapshots)
	if r.Config.WarmMetric {
		worker.Register("warm_metrics", r.warmMetrics)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return worker.Run(ctx)
}

// materializeSnapshots writes today's portfolio snapshot for every user that
// holds a position, so the snapshot-comparison performance strategy has a
// baseline to look back at.
func (r *Refresher) materializeSnapshots(ctx context.Context) error {
	userIDs, err := r.positions.ListUserIDs(ctx)
	if err != nil {
		return err
	}

	for _, userID := range userIDs {
		if err := r.service.MaterializeSnapshot(ctx, userID); err != nil {
			r.Log.WithField("user_id", userID).WithError(err).Error("Snapshot materialization failed")
			continue
		}

		r.Log.WithField("user_id", userID).Debug("Snapshot materialized")
	}

	return nil
}

// warmMetrics recomputes the expensive per-user metrics into the cache so the
// first request after a deploy or restart does not pay the full cost.
func (r *Refresher) warmMetrics(ctx context.Context) error {
	userIDs, err := r.positions.ListUserIDs(ctx)
	if err != nil {
		return err
	}

	config := portfolio.GetConfig()

	for _, userID := range userIDs {
		r.cache.Invalidate(portfolio.CacheKey(userID, "portfolio_value"))
		_, err := r.cache.GetOrCompute(
			portfolio.CacheKey(userID, "portfolio_value"),
			config.QuoteTTL,
			func() (interface{}, error) {
				return r.service.ComputePortfolioValue(ctx, userID)
			},
		)
		if err != nil {
			r.Log.WithField("user_id", userID).WithError(err).Warn("Portfolio value warmup failed")
		}

		r.cache.Invalidate(portfolio.CacheKey(userID, "winrate"))
		_, err = r.cache.GetOrCompute(
			portfolio.CacheKey(userID, "winrate"),
			config.MetricsTTL,
			func() (interface{}, error) {
				return r.service.CalculateWinRate(ctx, userID, nil)
			},
		)
		if err != nil {
			r.Log.WithField("user_id", userID).WithError(err).Warn("Win rate warmup failed")
		}
	}

	return nil
}

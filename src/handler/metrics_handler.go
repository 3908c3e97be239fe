package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	logger "github.com/sirupsen/logrus"

	"portfoliodesk/src/auth"
	"portfoliodesk/src/model"
	"portfoliodesk/src/portfolio"
)

// metricsService is the slice of the portfolio service the handlers need.
type metricsService interface {
	ComputePortfolioValue(ctx context.Context, userID uint) (model.PortfolioValue, error)
	CalculateWinRate(ctx context.Context, userID uint, assetType *string) (model.WinRateMetrics, error)
	GroupedMetrics(ctx context.Context, userID uint, groupBy portfolio.GroupBy) ([]model.GroupMetrics, error)
	HoldingPeriodDistribution(ctx context.Context, userID uint) ([]model.HoldingPeriodBucket, error)
	MarginEfficiency(ctx context.Context, userID uint) ([]model.MarginEfficiencyMetrics, error)
	DrawdownOverTime(ctx context.Context, userID uint) ([]model.DrawdownPoint, error)
	WindowPerformance(ctx context.Context, userID uint, window portfolio.Window, strategy portfolio.WindowStrategy) (model.WindowPerformance, error)
	SnapshotHistory(ctx context.Context, userID uint) ([]model.PortfolioSnapshot, error)
}

func writeJSON(w http.ResponseWriter, value interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(value); err != nil {
		logger.WithError(err).Error("Failed to encode response")
	}
}

// cachedJSON runs compute through the metric cache and writes the result.
func cachedJSON(
	w http.ResponseWriter,
	cache *portfolio.Cache,
	key string,
	ttl time.Duration,
	compute func() (interface{}, error),
) {
	value, err := cache.GetOrCompute(key, ttl, compute)
	if err != nil {
		logger.WithField("key", key).WithError(err).Error("Metric computation failed")
		http.Error(w, "computation failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, value)
}

// PortfolioValueHandler serves the current portfolio valuation.
func PortfolioValueHandler(service metricsService, cache *portfolio.Cache, ttl time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.GetUserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		cachedJSON(w, cache, portfolio.CacheKey(userID, "portfolio_value"), ttl, func() (interface{}, error) {
			return service.ComputePortfolioValue(r.Context(), userID)
		})
	}
}

// WinRateHandler serves win/loss statistics, optionally filtered by asset
// type (?assetType=stock|option|crypto|futures).
func WinRateHandler(service metricsService, cache *portfolio.Cache, ttl time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.GetUserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		var assetType *string
		key := portfolio.CacheKey(userID, "winrate")
		if param := r.URL.Query().Get("assetType"); param != "" {
			switch param {
			case model.AssetTypeStock, model.AssetTypeOption, model.AssetTypeCrypto, model.AssetTypeFutures:
				assetType = &param
				key = portfolio.CacheKey(userID, "winrate", param)
			default:
				http.Error(w, "invalid assetType", http.StatusBadRequest)
				return
			}
		}

		cachedJSON(w, cache, key, ttl, func() (interface{}, error) {
			return service.CalculateWinRate(r.Context(), userID, assetType)
		})
	}
}

// GroupedMetricsHandler serves a grouped breakdown; the dimension comes
// from the {group} URL parameter.
func GroupedMetricsHandler(service metricsService, cache *portfolio.Cache, ttl time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.GetUserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		group := portfolio.GroupBy(chi.URLParam(r, "group"))

		value, err := cache.GetOrCompute(
			portfolio.CacheKey(userID, "grouped", string(group)),
			ttl,
			func() (interface{}, error) {
				return service.GroupedMetrics(r.Context(), userID, group)
			},
		)
		if err != nil {
			http.Error(w, "invalid grouping", http.StatusBadRequest)
			return
		}
		writeJSON(w, value)
	}
}

// SnapshotHistoryHandler serves the materialized daily snapshots for the
// user, oldest first.
func SnapshotHistoryHandler(service metricsService, cache *portfolio.Cache, ttl time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.GetUserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		cachedJSON(w, cache, portfolio.CacheKey(userID, "snapshots"), ttl, func() (interface{}, error) {
			return service.SnapshotHistory(r.Context(), userID)
		})
	}
}

// HoldingPeriodHandler serves the holding-period distribution.
func HoldingPeriodHandler(service metricsService, cache *portfolio.Cache, ttl time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.GetUserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		cachedJSON(w, cache, portfolio.CacheKey(userID, "holding_period"), ttl, func() (interface{}, error) {
			return service.HoldingPeriodDistribution(r.Context(), userID)
		})
	}
}

// MarginEfficiencyHandler serves the futures margin-efficiency breakdown.
func MarginEfficiencyHandler(service metricsService, cache *portfolio.Cache, ttl time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.GetUserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		cachedJSON(w, cache, portfolio.CacheKey(userID, "margin_efficiency"), ttl, func() (interface{}, error) {
			return service.MarginEfficiency(r.Context(), userID)
		})
	}
}

// DrawdownHandler serves the drawdown-over-time series.
func DrawdownHandler(service metricsService, cache *portfolio.Cache, ttl time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.GetUserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		cachedJSON(w, cache, portfolio.CacheKey(userID, "drawdown"), ttl, func() (interface{}, error) {
			return service.DrawdownOverTime(r.Context(), userID)
		})
	}
}

// WindowPerformanceHandler serves daily/weekly/monthly/yearly performance.
// The window comes from the {window} URL parameter; ?strategy= overrides
// the configured default derivation.
func WindowPerformanceHandler(
	service metricsService,
	cache *portfolio.Cache,
	ttl time.Duration,
	defaultStrategy portfolio.WindowStrategy,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.GetUserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		window := portfolio.Window(chi.URLParam(r, "window"))

		strategy := defaultStrategy
		if param := r.URL.Query().Get("strategy"); param != "" {
			switch portfolio.WindowStrategy(param) {
			case portfolio.StrategyRealizedWindow, portfolio.StrategySnapshotComparison:
				strategy = portfolio.WindowStrategy(param)
			default:
				http.Error(w, "invalid strategy", http.StatusBadRequest)
				return
			}
		}

		value, err := cache.GetOrCompute(
			portfolio.CacheKey(userID, "performance", string(window), string(strategy)),
			ttl,
			func() (interface{}, error) {
				return service.WindowPerformance(r.Context(), userID, window, strategy)
			},
		)
		if err != nil {
			http.Error(w, "invalid window", http.StatusBadRequest)
			return
		}
		writeJSON(w, value)
	}
}

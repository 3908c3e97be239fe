package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	logger "github.com/sirupsen/logrus"

	"portfoliodesk/src/auth"
	"portfoliodesk/src/handler"
	"portfoliodesk/src/portfolio"
	"portfoliodesk/src/quotes"
	"portfoliodesk/src/repository"
)

func newService() *portfolio.Service {
	quoteConfig := quotes.GetConfig()

	return portfolio.NewService(
		repository.NewPositionRepository(),
		repository.NewStrategyRepository(),
		repository.NewCashTransactionRepository(),
		repository.NewSnapshotRepository(),
		quotes.NewStockClient(quoteConfig),
		quotes.NewCryptoClient(),
	)
}

func StartServer(port string) {
	if port == "" {
		port = GetConfig().Port
	}

	config := portfolio.GetConfig()
	service := newService()
	cache := portfolio.NewCache()

	defaultStrategy := portfolio.WindowStrategy(config.WindowStrategy)

	// Router with middleware
	r := chi.NewRouter()

	// Public routes
	r.Get("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("OK")); err != nil {
			logger.WithError(err).Error(" \"/health error")
		}
	})

	// Authenticated API
	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware)

		r.Get("/api/portfolio/value", handler.PortfolioValueHandler(service, cache, config.QuoteTTL))
		r.Get("/api/portfolio/snapshots", handler.SnapshotHistoryHandler(service, cache, config.MetricsTTL))
		r.Get("/api/metrics/winrate", handler.WinRateHandler(service, cache, config.MetricsTTL))
		r.Get("/api/metrics/grouped/{group}", handler.GroupedMetricsHandler(service, cache, config.MetricsTTL))
		r.Get("/api/metrics/holding-period", handler.HoldingPeriodHandler(service, cache, config.MetricsTTL))
		r.Get("/api/metrics/margin-efficiency", handler.MarginEfficiencyHandler(service, cache, config.MetricsTTL))
		r.Get("/api/metrics/drawdown", handler.DrawdownHandler(service, cache, config.MetricsTTL))
		r.Get("/api/metrics/performance/{window}", handler.WindowPerformanceHandler(service, cache, config.MetricsTTL, defaultStrategy))
	})

	// Graceful server
	addr := ":" + port
	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	// Start server in goroutine
	go func() {
		logger.Infof("Listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Server crashed")
		}
	}()

	// Shutdown on SIGINT or SIGTERM
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("Shutting down gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Shutdown error")
	}
}

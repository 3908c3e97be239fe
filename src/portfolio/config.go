package portfolio

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// Freshness windows. Quotes go stale fast; derived metrics tolerate
	// more lag.
	QuoteTTL   time.Duration `envconfig:"PORTFOLIO_QUOTE_TTL" default:"45s"`
	MetricsTTL time.Duration `envconfig:"PORTFOLIO_METRICS_TTL" default:"60s"`

	RefreshInterval time.Duration `envconfig:"PORTFOLIO_REFRESH_INTERVAL" default:"60s"`

	// WindowStrategy picks the default derivation for windowed P&L:
	// "realized_window" or "snapshot_comparison".
	WindowStrategy string `envconfig:"PORTFOLIO_WINDOW_STRATEGY" default:"realized_window"`
}

func GetConfig() *Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return &config
}

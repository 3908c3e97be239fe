package quotes

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	QuoteAPIBaseURL string        `envconfig:"QUOTE_API_BASE_URL" default:"https://quotes.example.com"`
	QuoteAPIKey     string        `envconfig:"QUOTE_API_KEY" default:""`
	RequestTimeout  time.Duration `envconfig:"QUOTE_REQUEST_TIMEOUT" default:"10s"`
	// BatchSize caps how many symbols go into one quote request.
	BatchSize int `envconfig:"QUOTE_BATCH_SIZE" default:"50"`
}

func GetConfig() *Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return &config
}

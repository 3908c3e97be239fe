package quotes

import (
	"context"
	"net/http"
	"strings"

	"github.com/nntaoli-project/goex"
	"github.com/nntaoli-project/goex/binance"
	logger "github.com/sirupsen/logrus"

	"portfoliodesk/src/model"
)

// tickerProvider is the slice of goex.API the crypto client needs.
type tickerProvider interface {
	GetTicker(currency goex.CurrencyPair) (*goex.Ticker, error)
}

// CryptoClient fetches crypto quotes from the exchange ticker API. Coins are
// quoted against USDT.
type CryptoClient struct {
	exchange tickerProvider
}

func NewCryptoClient() *CryptoClient {
	apiConfig := &goex.APIConfig{
		HttpClient: http.DefaultClient,
		Endpoint:   binance.GLOBAL_API_BASE_URL,
	}
	return &CryptoClient{exchange: binance.NewWithConfig(apiConfig)}
}

// WithExchange overrides the ticker source. Useful for tests.
func (c *CryptoClient) WithExchange(exchange tickerProvider) *CryptoClient {
	return &CryptoClient{exchange: exchange}
}

// GetCryptoQuotes fetches last/bid/ask for the given coin symbols. A failed
// symbol is logged and skipped; the remaining quotes are still returned.
func (c *CryptoClient) GetCryptoQuotes(
	ctx context.Context,
	symbols []string,
) (map[string]model.Quote, error) {

	result := make(map[string]model.Quote, len(symbols))

	for _, symbol := range symbols {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		pair := goex.NewCurrencyPair2(strings.ToUpper(symbol) + "_USDT")

		ticker, err := c.exchange.GetTicker(pair)
		if err != nil {
			logger.WithFields(map[string]interface{}{
				"client": "CryptoClient",
				"symbol": symbol,
			}).WithError(err).Warn("Failed to fetch crypto ticker, skipping symbol")
			continue
		}

		bid := ticker.Buy
		ask := ticker.Sell
		result[symbol] = model.Quote{
			Symbol: symbol,
			Last:   ticker.Last,
			Bid:    &bid,
			Ask:    &ask,
		}
	}

	return result, nil
}

package quotes

// HTTP QUOTE CLIENT FOR STOCKS AND OPTIONS
// RESTY ONLY + INTERNAL RETRY

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
	logger "github.com/sirupsen/logrus"

	"portfoliodesk/src/model"
)

const (
	defaultRetryAttempts   = 2
	defaultRetryBaseDelay  = 500 * time.Millisecond
	defaultRetryMaxBackoff = 2 * time.Second
)

type quoteEntry struct {
	Symbol string `json:"symbol"`
	Last   string `json:"last"`
	Bid    string `json:"bid,omitempty"`
	Ask    string `json:"ask,omitempty"`
}

type quoteResponse struct {
	Quotes []quoteEntry `json:"quotes"`
	Error  string       `json:"error,omitempty"`
}

// StockClient fetches batch quotes for stock and option symbols from the
// configured quote API.
type StockClient struct {
	baseURL   string
	apiKey    string
	batchSize int
	http      *resty.Client
}

func NewStockClient(config *Config) *StockClient {
	baseURL := strings.TrimRight(config.QuoteAPIBaseURL, "/")

	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(config.RequestTimeout).
		SetRetryCount(defaultRetryAttempts - 1).
		SetRetryWaitTime(defaultRetryBaseDelay).
		SetRetryMaxWaitTime(defaultRetryMaxBackoff)

	return &StockClient{
		baseURL:   baseURL,
		apiKey:    config.QuoteAPIKey,
		batchSize: config.BatchSize,
		http:      httpClient,
	}
}

// GetStockQuotes fetches quotes for the given stock symbols. Symbols the
// provider does not know are simply absent from the result map.
func (c *StockClient) GetStockQuotes(
	ctx context.Context,
	symbols []string,
) (map[string]model.Quote, error) {
	return c.fetchBatches(ctx, "/v1/quotes/stocks", symbols)
}

// GetOptionQuotes fetches quotes for the given OCC option symbols.
func (c *StockClient) GetOptionQuotes(
	ctx context.Context,
	symbols []string,
) (map[string]model.Quote, error) {
	return c.fetchBatches(ctx, "/v1/quotes/options", symbols)
}

func (c *StockClient) fetchBatches(
	ctx context.Context,
	endpoint string,
	symbols []string,
) (map[string]model.Quote, error) {

	result := make(map[string]model.Quote, len(symbols))
	if len(symbols) == 0 {
		return result, nil
	}

	batchSize := c.batchSize
	if batchSize <= 0 {
		batchSize = 50
	}

	for start := 0; start < len(symbols); start += batchSize {
		end := start + batchSize
		if end > len(symbols) {
			end = len(symbols)
		}

		if err := c.fetchOne(ctx, endpoint, symbols[start:end], result); err != nil {
			return nil, err
		}
	}

	return result, nil
}

func (c *StockClient) fetchOne(
	ctx context.Context,
	endpoint string,
	symbols []string,
	result map[string]model.Quote,
) error {

	logger.WithFields(map[string]interface{}{
		"client":   "StockClient",
		"endpoint": endpoint,
		"symbols":  len(symbols),
	}).Debug("Fetching quote batch")

	var parsed quoteResponse

	request := c.http.R().
		SetContext(ctx).
		SetQueryParam("symbols", strings.Join(symbols, ",")).
		SetResult(&parsed)
	if c.apiKey != "" {
		request.SetHeader("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := request.Get(endpoint)
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"client":   "StockClient",
			"endpoint": endpoint,
		}).WithError(err).Error("Quote request failed")

		return err
	}

	if resp.IsError() {
		err := fmt.Errorf("quote API returned status %d", resp.StatusCode())
		logger.WithField("client", "StockClient").WithError(err).Error("Quote request rejected")
		return err
	}

	if parsed.Error != "" {
		return fmt.Errorf("quote API error: %s", parsed.Error)
	}

	for _, entry := range parsed.Quotes {
		quote, ok := parseQuoteEntry(entry)
		if !ok {
			continue
		}
		result[entry.Symbol] = quote
	}

	return nil
}

// parseQuoteEntry converts the provider's string prices into a Quote.
// Entries with no parsable price at all are dropped.
func parseQuoteEntry(entry quoteEntry) (model.Quote, bool) {
	quote := model.Quote{Symbol: entry.Symbol}

	if last, err := decimal.NewFromString(entry.Last); err == nil {
		quote.Last = last.InexactFloat64()
	}
	if bid, err := decimal.NewFromString(entry.Bid); err == nil {
		v := bid.InexactFloat64()
		quote.Bid = &v
	}
	if ask, err := decimal.NewFromString(entry.Ask); err == nil {
		v := ask.InexactFloat64()
		quote.Ask = &v
	}

	if _, ok := quote.Price(); !ok {
		return model.Quote{}, false
	}

	return quote, true
}

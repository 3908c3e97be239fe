package portfolio

import (
	"context"
	"math"
	"sync"

	logger "github.com/sirupsen/logrus"

	"portfoliodesk/src/model"
	"portfoliodesk/src/quotes"
)

// ComputePortfolioValue derives net cash flow, total market value and
// unrealized P&L for the user's open positions, combining stored values
// with live quotes where available.
//
// Quote failures are tolerated: a symbol without a quote falls back to the
// position's stored unrealized P&L, so the valuation always completes.
func (s *Service) ComputePortfolioValue(
	ctx context.Context,
	userID uint,
) (model.PortfolioValue, error) {

	var result model.PortfolioValue

	transactions, err := s.cash.FindByUserID(ctx, userID)
	if err != nil {
		return result, err
	}
	result.NetCashFlow = netCashFlow(transactions)

	open, err := s.positions.FindOpenByUserID(ctx, userID)
	if err != nil {
		return result, err
	}

	stockSymbols, cryptoSymbols, optionSymbols := collectSymbols(open)

	// Independent quote batches are issued concurrently and awaited
	// jointly before aggregation.
	var (
		wg           sync.WaitGroup
		stockQuotes  map[string]model.Quote
		cryptoQuotes map[string]model.Quote
		optionQuotes map[string]model.Quote
	)

	fetch := func(target *map[string]model.Quote, kind string, fn func() (map[string]model.Quote, error)) {
		defer wg.Done()
		fetched, err := fn()
		if err != nil {
			// Missing quotes degrade to stored values, never fail
			// the whole computation.
			logger.WithFields(map[string]interface{}{
				"service": "portfolio",
				"op":      "ComputePortfolioValue",
				"kind":    kind,
			}).WithError(err).Warn("Quote batch failed, falling back to stored values")
			return
		}
		*target = fetched
	}

	wg.Add(3)
	go fetch(&stockQuotes, "stock", func() (map[string]model.Quote, error) {
		return s.stocks.GetStockQuotes(ctx, stockSymbols)
	})
	go fetch(&cryptoQuotes, "crypto", func() (map[string]model.Quote, error) {
		return s.crypto.GetCryptoQuotes(ctx, cryptoSymbols)
	})
	go fetch(&optionQuotes, "option", func() (map[string]model.Quote, error) {
		return s.stocks.GetOptionQuotes(ctx, optionSymbols)
	})
	wg.Wait()

	for _, position := range open {
		marketValue, unrealized := valuePosition(position, stockQuotes, cryptoQuotes, optionQuotes)

		result.TotalMarketValue += marketValue
		result.UnrealizedPL += unrealized

		switch position.AssetType {
		case model.AssetTypeStock:
			result.StockValue += marketValue
		case model.AssetTypeOption:
			result.OptionValue += marketValue
		case model.AssetTypeCrypto:
			result.CryptoValue += marketValue
		case model.AssetTypeFutures:
			result.FuturesValue += marketValue
		}
	}

	result.PortfolioValue = result.NetCashFlow + result.TotalMarketValue

	logger.WithFields(map[string]interface{}{
		"service":         "portfolio",
		"op":              "ComputePortfolioValue",
		"user_id":         userID,
		"open_positions":  len(open),
		"portfolio_value": result.PortfolioValue,
	}).Debug("Portfolio valued")

	return result, nil
}

// netCashFlow sums ledger amounts, excluding futures margin reservations
// and releases, which are not realized cash movement.
func netCashFlow(transactions []model.CashTransaction) float64 {
	var total float64
	for i := range transactions {
		if transactions[i].CountsTowardCashFlow() {
			total += transactions[i].Amount
		}
	}
	return total
}

// collectSymbols partitions open positions into distinct quote symbols per
// asset type. Options are transformed into OCC symbols; a malformed option
// is logged and left for the stored-value fallback.
func collectSymbols(open []model.Position) (stocks, crypto, options []string) {
	seenStock := map[string]bool{}
	seenCrypto := map[string]bool{}
	seenOption := map[string]bool{}

	for _, position := range open {
		switch position.AssetType {
		case model.AssetTypeStock:
			if !seenStock[position.Symbol] {
				seenStock[position.Symbol] = true
				stocks = append(stocks, position.Symbol)
			}
		case model.AssetTypeCrypto:
			if !seenCrypto[position.Symbol] {
				seenCrypto[position.Symbol] = true
				crypto = append(crypto, position.Symbol)
			}
		case model.AssetTypeOption:
			occ, err := quotes.BuildOptionSymbol(position)
			if err != nil {
				logger.WithFields(map[string]interface{}{
					"service":     "portfolio",
					"op":          "collectSymbols",
					"position_id": position.ID,
				}).WithError(err).Warn("Skipping option from live pricing")
				continue
			}
			if !seenOption[occ] {
				seenOption[occ] = true
				options = append(options, occ)
			}
		}
	}

	return stocks, crypto, options
}

// valuePosition returns the market value and unrealized P&L of one open
// position under the asset-type-specific rules of the valuation engine.
func valuePosition(
	position model.Position,
	stockQuotes, cryptoQuotes, optionQuotes map[string]model.Quote,
) (marketValue, unrealized float64) {

	costBasis := math.Abs(position.TotalCostBasis)

	switch position.AssetType {
	case model.AssetTypeStock, model.AssetTypeCrypto:
		source := stockQuotes
		if position.AssetType == model.AssetTypeCrypto {
			source = cryptoQuotes
		}
		if quote, ok := source[position.Symbol]; ok {
			if price, ok := quote.Price(); ok {
				marketValue = price * position.CurrentQuantity
				unrealized = marketValue - costBasis
				return marketValue, unrealized
			}
		}
		return storedFallback(position)

	case model.AssetTypeOption:
		occ, err := quotes.BuildOptionSymbol(position)
		if err == nil {
			if quote, ok := optionQuotes[occ]; ok {
				price, priced := quote.Price()
				if !priced {
					price = position.AverageOpeningPrice
				}
				marketValue = position.CurrentQuantity * position.Multiplier * price
				if position.Side == model.SideShort {
					// Credit received versus cost to close.
					unrealized = costBasis - marketValue
				} else {
					unrealized = marketValue - costBasis
				}
				return marketValue, unrealized
			}
		}
		return storedFallback(position)

	case model.AssetTypeFutures:
		// No live futures pricing; margin accounting means the stored
		// unrealized P&L is the position's whole value contribution.
		return position.UnrealizedPL, position.UnrealizedPL
	}

	return storedFallback(position)
}

// storedFallback values a position from its stored fields when no live
// quote is available.
func storedFallback(position model.Position) (marketValue, unrealized float64) {
	unrealized = position.UnrealizedPL
	marketValue = math.Abs(position.TotalCostBasis) + position.UnrealizedPL
	return marketValue, unrealized
}

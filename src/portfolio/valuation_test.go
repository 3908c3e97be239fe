package portfolio

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfoliodesk/src/model"
)

func TestNetCashFlowExcludesFuturesMargin(t *testing.T) {
	day := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	store := &fakeStore{
		cash: []model.CashTransaction{
			{UserID: 1, TransactionCode: model.TxCodeDeposit, Amount: 10000, ActivityDate: day},
			{UserID: 1, TransactionCode: model.TxCodeFuturesMargin, Amount: -2000, ActivityDate: day},
			{UserID: 1, TransactionCode: model.TxCodeFuturesMarginRelease, Amount: 2000, ActivityDate: day},
			{UserID: 1, TransactionCode: model.TxCodeFee, Amount: -5, ActivityDate: day},
		},
	}
	service := newTestService(store)

	result, err := service.ComputePortfolioValue(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, 9995.0, result.NetCashFlow)
	assert.Equal(t, 9995.0, result.PortfolioValue, "no open positions means value equals cash flow")
}

func TestComputePortfolioValueStockWithQuote(t *testing.T) {
	store := &fakeStore{
		positions: []model.Position{
			{
				ID: 1, UserID: 1,
				AssetType:           model.AssetTypeStock,
				Symbol:              "ACME",
				Side:                model.SideLong,
				Status:              model.PositionStatusOpen,
				CurrentQuantity:     10,
				AverageOpeningPrice: 100,
				TotalCostBasis:      -1000,
			},
		},
		stockQuotes: map[string]model.Quote{
			"ACME": {Symbol: "ACME", Last: 120},
		},
	}
	service := newTestService(store)

	result, err := service.ComputePortfolioValue(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, 1200.0, result.TotalMarketValue)
	assert.Equal(t, 200.0, result.UnrealizedPL)
	assert.Equal(t, 1200.0, result.StockValue)
	assert.Equal(t, 1200.0, result.PortfolioValue)
}

func TestComputePortfolioValueShortOption(t *testing.T) {
	expiration := time.Date(2024, 7, 19, 0, 0, 0, 0, time.UTC)
	bid, ask := 1.0, 1.2

	store := &fakeStore{
		positions: []model.Position{
			{
				ID: 1, UserID: 1,
				AssetType:       model.AssetTypeOption,
				Symbol:          "ACME",
				Side:            model.SideShort,
				Status:          model.PositionStatusOpen,
				CurrentQuantity: 2,
				Multiplier:      100,
				TotalCostBasis:  500, // credit received
				ExpirationDate:  &expiration,
				StrikePrice:     floatPtr(50),
				OptionType:      strPtr(model.OptionTypePut),
			},
		},
		optionQuotes: map[string]model.Quote{
			// no last trade; midpoint of 1.0/1.2 = 1.1
			"ACME240719P00050000": {Symbol: "ACME240719P00050000", Bid: &bid, Ask: &ask},
		},
	}
	service := newTestService(store)

	result, err := service.ComputePortfolioValue(context.Background(), 1)
	require.NoError(t, err)

	assert.InDelta(t, 220.0, result.OptionValue, 1e-9, "2 contracts x 100 x 1.1")
	assert.InDelta(t, 280.0, result.UnrealizedPL, 1e-9, "credit 500 minus 220 cost to close")
}

func TestComputePortfolioValueQuoteFailureFallsBack(t *testing.T) {
	store := &fakeStore{
		positions: []model.Position{
			{
				ID: 1, UserID: 1,
				AssetType:       model.AssetTypeStock,
				Symbol:          "ACME",
				Status:          model.PositionStatusOpen,
				CurrentQuantity: 10,
				TotalCostBasis:  -1000,
				UnrealizedPL:    50,
			},
		},
		stockErr: assert.AnError,
	}
	service := newTestService(store)

	result, err := service.ComputePortfolioValue(context.Background(), 1)
	require.NoError(t, err, "quote failures must not fail the computation")

	assert.Equal(t, 50.0, result.UnrealizedPL)
	assert.Equal(t, 1050.0, result.TotalMarketValue, "stored cost basis plus stored unrealized")
}

func TestComputePortfolioValueMalformedOptionSkipsLivePricing(t *testing.T) {
	store := &fakeStore{
		positions: []model.Position{
			{
				ID: 1, UserID: 1,
				AssetType:       model.AssetTypeOption,
				Symbol:          "ACME",
				Side:            model.SideLong,
				Status:          model.PositionStatusOpen,
				CurrentQuantity: 1,
				Multiplier:      100,
				TotalCostBasis:  -300,
				UnrealizedPL:    -30,
				// strike/expiration/type missing
			},
		},
		optionQuotes: map[string]model.Quote{},
	}
	service := newTestService(store)

	result, err := service.ComputePortfolioValue(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, -30.0, result.UnrealizedPL)
	assert.Equal(t, 270.0, result.OptionValue)
}

func TestComputePortfolioValueFuturesUsesStoredPL(t *testing.T) {
	margin := 2000.0
	store := &fakeStore{
		positions: []model.Position{
			{
				ID: 1, UserID: 1,
				AssetType:         model.AssetTypeFutures,
				Symbol:            "ESU4",
				Status:            model.PositionStatusOpen,
				CurrentQuantity:   1,
				UnrealizedPL:      350,
				MarginRequirement: &margin,
			},
		},
	}
	service := newTestService(store)

	result, err := service.ComputePortfolioValue(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, 350.0, result.FuturesValue, "margin-based, not notional")
	assert.Equal(t, 350.0, result.UnrealizedPL)
}

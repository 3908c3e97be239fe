package portfolio

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfoliodesk/src/model"
)

func TestDrawdownOverTime(t *testing.T) {
	store := &fakeStore{
		positions: []model.Position{
			{ID: 1, UserID: 1, AssetType: model.AssetTypeStock, Status: model.PositionStatusClosed, RealizedPL: 100, ClosedAt: closedAt(1)},
			{ID: 2, UserID: 1, AssetType: model.AssetTypeStock, Status: model.PositionStatusClosed, RealizedPL: -30, ClosedAt: closedAt(2)},
			{ID: 3, UserID: 1, AssetType: model.AssetTypeStock, Status: model.PositionStatusClosed, RealizedPL: 60, ClosedAt: closedAt(3)},
		},
	}
	service := newTestService(store)

	points, err := service.DrawdownOverTime(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, points, 4, "three close days plus the present-day unrealized point")

	// First point: peak equals value, zero drawdown.
	assert.Equal(t, 100.0, points[0].Value)
	assert.Equal(t, 100.0, points[0].Peak)
	assert.Equal(t, 0.0, points[0].DrawdownPct)

	// Second point: cumulative 70 against peak 100.
	assert.Equal(t, 70.0, points[1].Value)
	assert.Equal(t, 100.0, points[1].Peak)
	assert.InDelta(t, 30.0, points[1].DrawdownPct, 1e-9)

	// Third point: new peak at 130.
	assert.Equal(t, 130.0, points[2].Value)
	assert.Equal(t, 0.0, points[2].DrawdownPct)

	// Present-day point carries no unrealized P&L here.
	assert.Equal(t, 130.0, points[3].Value)
}

func TestDrawdownFirstPointNegative(t *testing.T) {
	store := &fakeStore{
		positions: []model.Position{
			{ID: 1, UserID: 1, AssetType: model.AssetTypeStock, Status: model.PositionStatusClosed, RealizedPL: -50, ClosedAt: closedAt(1)},
		},
	}
	service := newTestService(store)

	points, err := service.DrawdownOverTime(context.Background(), 1)
	require.NoError(t, err)
	require.NotEmpty(t, points)

	// Peak stays at its zero initialization when the series opens in loss.
	assert.Equal(t, -50.0, points[0].Value)
	assert.Equal(t, 0.0, points[0].Peak)
	assert.Equal(t, 0.0, points[0].DrawdownPct, "zero peak guards the division")
}

func TestDrawdownIncludesUnrealized(t *testing.T) {
	store := &fakeStore{
		positions: []model.Position{
			{ID: 1, UserID: 1, AssetType: model.AssetTypeStock, Status: model.PositionStatusClosed, RealizedPL: 100, ClosedAt: closedAt(1)},
			{ID: 2, UserID: 1, AssetType: model.AssetTypeStock, Symbol: "ACME", Status: model.PositionStatusOpen, CurrentQuantity: 5, TotalCostBasis: -500, UnrealizedPL: -40},
		},
	}
	service := newTestService(store)

	points, err := service.DrawdownOverTime(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, points, 2)

	last := points[len(points)-1]
	assert.Equal(t, 60.0, last.Value, "realized 100 plus unrealized -40")
	assert.InDelta(t, 40.0, last.DrawdownPct, 1e-9)
}

package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"portfoliodesk/src/model"
)

func TestPositionRepositoryFindByUserID(t *testing.T) {
	mockDB, mock := newMockDB(t)
	repo := &PositionRepository{db: mockDB}

	openedAt := time.Date(2024, 3, 1, 14, 30, 0, 0, time.UTC)
	positions := []model.Position{
		{ID: 1, UserID: 1, AssetType: model.AssetTypeStock, Symbol: "AAPL", Status: model.PositionStatusOpen, OpenedAt: ptrTime(openedAt)},
		{ID: 2, UserID: 1, AssetType: model.AssetTypeOption, Symbol: "SPY", Status: model.PositionStatusClosed, OpenedAt: ptrTime(openedAt.Add(time.Hour))},
	}

	positionRows := func(returned ...model.Position) *sqlmock.Rows {
		rows := sqlmock.NewRows([]string{"id", "user_id", "asset_type", "symbol", "status", "opened_at"})
		for _, p := range returned {
			rows.AddRow(p.ID, p.UserID, p.AssetType, p.Symbol, p.Status, p.OpenedAt)
		}
		return rows
	}

	t.Run("fetches all positions for user", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "positions" WHERE user_id = $1 ORDER BY opened_at ASC, id ASC`)).
			WithArgs(uint(1)).
			WillReturnRows(positionRows(positions...))

		results, err := repo.FindByUserID(context.Background(), 1, PositionSearchOptions{})
		if err != nil {
			t.Fatalf("unexpected error fetching positions: %v", err)
		}

		if len(results) != 2 {
			t.Fatalf("expected 2 positions, got %d", len(results))
		}

		if results[0].Symbol != "AAPL" || results[1].Symbol != "SPY" {
			t.Fatalf("positions not returned in expected order: %+v", results)
		}
	})

	t.Run("filters by status", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "positions" WHERE user_id = $1 AND status = $2 ORDER BY opened_at ASC, id ASC`)).
			WithArgs(uint(1), model.PositionStatusOpen).
			WillReturnRows(positionRows(positions[0]))

		results, err := repo.FindOpenByUserID(context.Background(), 1)
		if err != nil {
			t.Fatalf("unexpected error fetching open positions: %v", err)
		}

		if len(results) != 1 || results[0].Status != model.PositionStatusOpen {
			t.Fatalf("unexpected open positions: %+v", results)
		}
	})

	t.Run("filters by status and asset type", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "positions" WHERE user_id = $1 AND status = $2 AND asset_type = $3 ORDER BY opened_at ASC, id ASC`)).
			WithArgs(uint(1), model.PositionStatusClosed, model.AssetTypeOption).
			WillReturnRows(positionRows(positions[1]))

		results, err := repo.FindByUserID(context.Background(), 1, PositionSearchOptions{
			Status:    ptrString(model.PositionStatusClosed),
			AssetType: ptrString(model.AssetTypeOption),
		})
		if err != nil {
			t.Fatalf("unexpected error fetching filtered positions: %v", err)
		}

		if len(results) != 1 || results[0].AssetType != model.AssetTypeOption {
			t.Fatalf("unexpected filtered positions: %+v", results)
		}
	})

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet sqlmock expectations: %v", err)
	}
}

func TestPositionRepositoryFindRealizedByDateRange(t *testing.T) {
	mockDB, mock := newMockDB(t)
	repo := &PositionRepository{db: mockDB}

	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 31, 23, 59, 59, 0, time.UTC)
	closedAt := time.Date(2024, 3, 15, 16, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"id", "user_id", "asset_type", "symbol", "status", "realized_pl", "closed_at"}).
		AddRow(uint(7), uint(1), model.AssetTypeStock, "MSFT", model.PositionStatusClosed, 125.0, closedAt)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "positions" WHERE user_id = $1 AND status IN ($2,$3,$4) AND (closed_at >= $5 AND closed_at <= $6) ORDER BY closed_at ASC, id ASC`)).
		WithArgs(uint(1), model.PositionStatusClosed, model.PositionStatusExpired, model.PositionStatusAssigned, start, end).
		WillReturnRows(rows)

	results, err := repo.FindRealizedByDateRange(context.Background(), 1, start, end)
	if err != nil {
		t.Fatalf("unexpected error fetching realized positions: %v", err)
	}

	if len(results) != 1 {
		t.Fatalf("expected 1 realized position, got %d", len(results))
	}

	if results[0].RealizedPL != 125.0 {
		t.Fatalf("unexpected realized P&L: %v", results[0].RealizedPL)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet sqlmock expectations: %v", err)
	}
}

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}

	dialector := postgres.New(postgres.Config{
		DSN:                  "sqlmock_db_0",
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	})

	gdb, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		sqlDB.Close()
		t.Fatalf("failed to open gorm DB with sqlmock: %v", err)
	}

	return gdb, mock
}

func ptrString(val string) *string {
	return &val
}

func ptrTime(val time.Time) *time.Time {
	return &val
}

package portfolio

import (
	"context"
	"time"

	"portfoliodesk/src/model"
	"portfoliodesk/src/repository"
)

// fakeStore backs the service interfaces with in-memory slices.
type fakeStore struct {
	positions  []model.Position
	strategies []model.Strategy
	cash       []model.CashTransaction
	snapshots  []model.PortfolioSnapshot
	upserted   []model.PortfolioSnapshot

	stockQuotes  map[string]model.Quote
	optionQuotes map[string]model.Quote
	cryptoQuotes map[string]model.Quote

	stockErr  error
	cryptoErr error
}

func (f *fakeStore) FindByUserID(_ context.Context, userID uint, options repository.PositionSearchOptions) ([]model.Position, error) {
	var out []model.Position
	for _, p := range f.positions {
		if p.UserID != userID {
			continue
		}
		if options.Status != nil && p.Status != *options.Status {
			continue
		}
		if options.AssetType != nil && p.AssetType != *options.AssetType {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeStore) FindOpenByUserID(ctx context.Context, userID uint) ([]model.Position, error) {
	status := model.PositionStatusOpen
	return f.FindByUserID(ctx, userID, repository.PositionSearchOptions{Status: &status})
}

func (f *fakeStore) FindRealizedByDateRange(_ context.Context, userID uint, start, end time.Time) ([]model.Position, error) {
	var out []model.Position
	for _, p := range f.positions {
		if p.UserID != userID || p.ClosedAt == nil {
			continue
		}
		switch p.Status {
		case model.PositionStatusClosed, model.PositionStatusExpired, model.PositionStatusAssigned:
		default:
			continue
		}
		if p.ClosedAt.Before(start) || p.ClosedAt.After(end) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeStore) FindStrategiesByUserID(_ context.Context, userID uint) ([]model.Strategy, error) {
	var out []model.Strategy
	for _, s := range f.strategies {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeStore) FindByUserIDAndDateRange(_ context.Context, userID uint, start, end time.Time, codes ...string) ([]model.CashTransaction, error) {
	codeSet := map[string]bool{}
	for _, code := range codes {
		codeSet[code] = true
	}
	var out []model.CashTransaction
	for _, tx := range f.cash {
		if tx.UserID != userID {
			continue
		}
		if tx.ActivityDate.Before(start) || tx.ActivityDate.After(end) {
			continue
		}
		if len(codeSet) > 0 && !codeSet[tx.TransactionCode] {
			continue
		}
		out = append(out, tx)
	}
	return out, nil
}

func (f *fakeStore) FindByDate(_ context.Context, userID uint, date time.Time) (*model.PortfolioSnapshot, error) {
	day := date.Truncate(24 * time.Hour)
	for i := range f.snapshots {
		s := f.snapshots[i]
		if s.UserID == userID && s.SnapshotDate.Equal(day) {
			return &s, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) Upsert(_ context.Context, snapshot *model.PortfolioSnapshot) error {
	f.upserted = append(f.upserted, *snapshot)
	return nil
}

func (f *fakeStore) GetStockQuotes(_ context.Context, _ []string) (map[string]model.Quote, error) {
	if f.stockErr != nil {
		return nil, f.stockErr
	}
	return f.stockQuotes, nil
}

func (f *fakeStore) GetOptionQuotes(_ context.Context, _ []string) (map[string]model.Quote, error) {
	if f.stockErr != nil {
		return nil, f.stockErr
	}
	return f.optionQuotes, nil
}

func (f *fakeStore) GetCryptoQuotes(_ context.Context, _ []string) (map[string]model.Quote, error) {
	if f.cryptoErr != nil {
		return nil, f.cryptoErr
	}
	return f.cryptoQuotes, nil
}

// snapshotAdapter separates the snapshot source from the position source,
// whose FindByUserID signatures differ.
type snapshotAdapter struct {
	store *fakeStore
}

func (a snapshotAdapter) FindByDate(ctx context.Context, userID uint, date time.Time) (*model.PortfolioSnapshot, error) {
	return a.store.FindByDate(ctx, userID, date)
}

func (a snapshotAdapter) FindByUserID(_ context.Context, userID uint) ([]model.PortfolioSnapshot, error) {
	var out []model.PortfolioSnapshot
	for _, s := range a.store.snapshots {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (a snapshotAdapter) Upsert(ctx context.Context, snapshot *model.PortfolioSnapshot) error {
	return a.store.Upsert(ctx, snapshot)
}

// strategyAdapter satisfies the strategy source interface, whose method
// names collide with the position source on fakeStore.
type strategyAdapter struct {
	store *fakeStore
}

func (a strategyAdapter) FindByUserID(ctx context.Context, userID uint) ([]model.Strategy, error) {
	return a.store.FindStrategiesByUserID(ctx, userID)
}

func (a strategyAdapter) FindRealizedByDateRange(_ context.Context, userID uint, start, end time.Time) ([]model.Strategy, error) {
	var out []model.Strategy
	for _, s := range a.store.strategies {
		if s.UserID != userID || s.ClosedAt == nil {
			continue
		}
		switch s.Status {
		case model.StrategyStatusClosed, model.StrategyStatusPartiallyClosed,
			model.StrategyStatusAssigned, model.StrategyStatusExpired:
		default:
			continue
		}
		if s.ClosedAt.Before(start) || s.ClosedAt.After(end) {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

// cashAdapter separates the cash source from the position source, whose
// FindByUserID signatures differ.
type cashAdapter struct {
	store *fakeStore
}

func (a cashAdapter) FindByUserID(_ context.Context, userID uint) ([]model.CashTransaction, error) {
	var out []model.CashTransaction
	for _, tx := range a.store.cash {
		if tx.UserID == userID {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (a cashAdapter) FindByUserIDAndDateRange(ctx context.Context, userID uint, start, end time.Time, codes ...string) ([]model.CashTransaction, error) {
	return a.store.FindByUserIDAndDateRange(ctx, userID, start, end, codes...)
}

var testNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func newTestService(store *fakeStore) *Service {
	service := NewService(
		store,
		strategyAdapter{store: store},
		cashAdapter{store: store},
		snapshotAdapter{store: store},
		store,
		store,
	)
	return service.WithClock(func() time.Time { return testNow })
}

package portfolio

import (
	"context"
	"time"

	"portfoliodesk/src/model"
	"portfoliodesk/src/repository"
)

type positionSource interface {
	FindByUserID(ctx context.Context, userID uint, options repository.PositionSearchOptions) ([]model.Position, error)
	FindOpenByUserID(ctx context.Context, userID uint) ([]model.Position, error)
	FindRealizedByDateRange(ctx context.Context, userID uint, start, end time.Time) ([]model.Position, error)
}

type strategySource interface {
	FindByUserID(ctx context.Context, userID uint) ([]model.Strategy, error)
	FindRealizedByDateRange(ctx context.Context, userID uint, start, end time.Time) ([]model.Strategy, error)
}

type cashSource interface {
	FindByUserID(ctx context.Context, userID uint) ([]model.CashTransaction, error)
	FindByUserIDAndDateRange(ctx context.Context, userID uint, start, end time.Time, codes ...string) ([]model.CashTransaction, error)
}

type snapshotSource interface {
	FindByDate(ctx context.Context, userID uint, date time.Time) (*model.PortfolioSnapshot, error)
	FindByUserID(ctx context.Context, userID uint) ([]model.PortfolioSnapshot, error)
	Upsert(ctx context.Context, snapshot *model.PortfolioSnapshot) error
}

type stockQuoter interface {
	GetStockQuotes(ctx context.Context, symbols []string) (map[string]model.Quote, error)
	GetOptionQuotes(ctx context.Context, symbols []string) (map[string]model.Quote, error)
}

type cryptoQuoter interface {
	GetCryptoQuotes(ctx context.Context, symbols []string) (map[string]model.Quote, error)
}

// Service computes portfolio valuation and performance metrics. All methods
// are pure transformations over fetched snapshots of repository state; the
// service holds no mutable state of its own.
type Service struct {
	positions  positionSource
	strategies strategySource
	cash       cashSource
	snapshots  snapshotSource
	stocks     stockQuoter
	crypto     cryptoQuoter

	// now is swappable for tests.
	now func() time.Time
}

func NewService(
	positions positionSource,
	strategies strategySource,
	cash cashSource,
	snapshots snapshotSource,
	stocks stockQuoter,
	crypto cryptoQuoter,
) *Service {
	return &Service{
		positions:  positions,
		strategies: strategies,
		cash:       cash,
		snapshots:  snapshots,
		stocks:     stocks,
		crypto:     crypto,
		now:        time.Now,
	}
}

// WithClock overrides the service clock. Useful for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	clone := *s
	clone.now = now
	return &clone
}

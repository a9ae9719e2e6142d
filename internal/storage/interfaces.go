package storage

import (
	"context"
	"time"

	"strategy-lab/internal/domain"
)

// ParameterStore provides access to optimization_results storage.
type ParameterStore interface {
	// Upsert inserts the optimal parameters for (ticker, strategy_name),
	// replacing any previous record for the same key.
	Upsert(ctx context.Context, p *domain.OptimalParameters) error

	// Get retrieves the stored parameters for a ticker/strategy pair.
	// Returns ErrNotFound if no record exists.
	Get(ctx context.Context, ticker, strategyName string) (*domain.OptimalParameters, error)

	// GetByTicker retrieves all stored parameter sets for a ticker,
	// ordered by strategy name ASC.
	GetByTicker(ctx context.Context, ticker string) ([]*domain.OptimalParameters, error)

	// LastUpdated reports when the record for a ticker/strategy pair was
	// last written. Returns ErrNotFound if no record exists.
	LastUpdated(ctx context.Context, ticker, strategyName string) (time.Time, error)
}

// PriceHistoryStore provides access to price_history storage.
type PriceHistoryStore interface {
	// InsertBulk adds multiple points for a ticker. Points already present
	// for the same (ticker, timestamp_ms) are replaced; duplicates within
	// the batch itself return ErrDuplicateKey.
	InsertBulk(ctx context.Context, ticker string, points domain.PriceSeries) error

	// GetByTicker retrieves all points for a ticker, ordered by timestamp ASC.
	GetByTicker(ctx context.Context, ticker string) (domain.PriceSeries, error)

	// GetByTimeRange retrieves points for a ticker within [start, end] (inclusive).
	GetByTimeRange(ctx context.Context, ticker string, start, end int64) (domain.PriceSeries, error)
}

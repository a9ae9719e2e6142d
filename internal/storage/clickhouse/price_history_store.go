package clickhouse

import (
	"context"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"strategy-lab/internal/domain"
	"strategy-lab/internal/storage"
)

// PriceHistoryStore implements storage.PriceHistoryStore using ClickHouse.
// The backing table is a ReplacingMergeTree keyed on (ticker, timestamp_ms),
// so re-inserting a point replaces it at merge time instead of erroring.
type PriceHistoryStore struct {
	conn *Conn
}

// NewPriceHistoryStore creates a new PriceHistoryStore.
func NewPriceHistoryStore(conn *Conn) *PriceHistoryStore {
	return &PriceHistoryStore{conn: conn}
}

// Compile-time interface check.
var _ storage.PriceHistoryStore = (*PriceHistoryStore)(nil)

// InsertBulk adds points for a ticker. Duplicates within the batch return
// ErrDuplicateKey; duplicates against stored rows are replaced.
func (s *PriceHistoryStore) InsertBulk(ctx context.Context, ticker string, points domain.PriceSeries) error {
	if ticker == "" {
		return storage.ErrInvalidInput
	}
	if len(points) == 0 {
		return nil
	}

	// Check for intra-batch duplicates
	seen := make(map[int64]struct{}, len(points))
	for _, pt := range points {
		if _, exists := seen[pt.TimestampMs]; exists {
			return storage.ErrDuplicateKey
		}
		seen[pt.TimestampMs] = struct{}{}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO price_history (ticker, timestamp_ms, price)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, pt := range points {
		if err := batch.Append(ticker, uint64(pt.TimestampMs), pt.Price); err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByTicker retrieves all points for a ticker, ordered by timestamp ASC.
func (s *PriceHistoryStore) GetByTicker(ctx context.Context, ticker string) (domain.PriceSeries, error) {
	query := `
		SELECT timestamp_ms, price
		FROM price_history FINAL
		WHERE ticker = ?
		ORDER BY timestamp_ms ASC
	`

	rows, err := s.conn.Query(ctx, query, ticker)
	if err != nil {
		return nil, fmt.Errorf("query by ticker: %w", err)
	}
	defer rows.Close()

	return scanPriceHistory(rows)
}

// GetByTimeRange retrieves points for a ticker within [start, end] (inclusive).
func (s *PriceHistoryStore) GetByTimeRange(ctx context.Context, ticker string, start, end int64) (domain.PriceSeries, error) {
	query := `
		SELECT timestamp_ms, price
		FROM price_history FINAL
		WHERE ticker = ? AND timestamp_ms >= ? AND timestamp_ms <= ?
		ORDER BY timestamp_ms ASC
	`

	rows, err := s.conn.Query(ctx, query, ticker, uint64(start), uint64(end))
	if err != nil {
		return nil, fmt.Errorf("query by time range: %w", err)
	}
	defer rows.Close()

	return scanPriceHistory(rows)
}

// scanPriceHistory scans rows into a PriceSeries.
func scanPriceHistory(rows driver.Rows) (domain.PriceSeries, error) {
	var series domain.PriceSeries
	for rows.Next() {
		var timestampMs uint64
		var price float64
		if err := rows.Scan(&timestampMs, &price); err != nil {
			return nil, fmt.Errorf("scan price history row: %w", err)
		}
		series = append(series, domain.PricePoint{TimestampMs: int64(timestampMs), Price: price})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate price history rows: %w", err)
	}
	return series, nil
}

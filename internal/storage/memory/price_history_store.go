package memory

import (
	"context"
	"sort"
	"sync"

	"strategy-lab/internal/domain"
	"strategy-lab/internal/storage"
)

// PriceHistoryStore is an in-memory implementation of storage.PriceHistoryStore.
type PriceHistoryStore struct {
	mu   sync.RWMutex
	data map[string]map[int64]float64 // ticker -> timestamp_ms -> price
}

// NewPriceHistoryStore creates a new in-memory price history store.
func NewPriceHistoryStore() *PriceHistoryStore {
	return &PriceHistoryStore{
		data: make(map[string]map[int64]float64),
	}
}

// Verify interface compliance at compile time.
var _ storage.PriceHistoryStore = (*PriceHistoryStore)(nil)

// InsertBulk adds points for a ticker, replacing existing timestamps.
// Duplicates within the batch return ErrDuplicateKey.
func (s *PriceHistoryStore) InsertBulk(_ context.Context, ticker string, points domain.PriceSeries) error {
	if ticker == "" {
		return storage.ErrInvalidInput
	}
	if len(points) == 0 {
		return nil
	}

	seen := make(map[int64]struct{}, len(points))
	for _, pt := range points {
		if _, exists := seen[pt.TimestampMs]; exists {
			return storage.ErrDuplicateKey
		}
		seen[pt.TimestampMs] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	byTime, exists := s.data[ticker]
	if !exists {
		byTime = make(map[int64]float64, len(points))
		s.data[ticker] = byTime
	}
	for _, pt := range points {
		byTime[pt.TimestampMs] = pt.Price
	}
	return nil
}

// GetByTicker retrieves all points for a ticker, ordered by timestamp ASC.
func (s *PriceHistoryStore) GetByTicker(_ context.Context, ticker string) (domain.PriceSeries, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.collect(ticker, func(int64) bool { return true }), nil
}

// GetByTimeRange retrieves points for a ticker within [start, end] (inclusive).
func (s *PriceHistoryStore) GetByTimeRange(_ context.Context, ticker string, start, end int64) (domain.PriceSeries, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.collect(ticker, func(ts int64) bool { return ts >= start && ts <= end }), nil
}

// collect copies matching points sorted by timestamp. Caller holds the lock.
func (s *PriceHistoryStore) collect(ticker string, match func(int64) bool) domain.PriceSeries {
	byTime, exists := s.data[ticker]
	if !exists {
		return nil
	}

	var result domain.PriceSeries
	for ts, price := range byTime {
		if match(ts) {
			result = append(result, domain.PricePoint{TimestampMs: ts, Price: price})
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].TimestampMs < result[j].TimestampMs
	})

	return result
}

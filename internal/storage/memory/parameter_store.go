package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"strategy-lab/internal/domain"
	"strategy-lab/internal/storage"
)

// paramKey is the composite key for optimization results.
type paramKey struct {
	ticker       string
	strategyName string
}

// ParameterStore is an in-memory implementation of storage.ParameterStore.
type ParameterStore struct {
	mu   sync.RWMutex
	data map[paramKey]*domain.OptimalParameters
}

// NewParameterStore creates a new in-memory parameter store.
func NewParameterStore() *ParameterStore {
	return &ParameterStore{
		data: make(map[paramKey]*domain.OptimalParameters),
	}
}

// Verify interface compliance at compile time.
var _ storage.ParameterStore = (*ParameterStore)(nil)

// Upsert inserts or replaces the record for (ticker, strategy_name).
func (s *ParameterStore) Upsert(_ context.Context, p *domain.OptimalParameters) error {
	if p == nil || p.Ticker == "" || p.StrategyName == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Store a copy to prevent external mutation
	record := *p
	record.Params = p.Params.Clone()
	s.data[paramKey{p.Ticker, p.StrategyName}] = &record
	return nil
}

// Get retrieves the stored parameters. Returns ErrNotFound if not exists.
func (s *ParameterStore) Get(_ context.Context, ticker, strategyName string) (*domain.OptimalParameters, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, exists := s.data[paramKey{ticker, strategyName}]
	if !exists {
		return nil, storage.ErrNotFound
	}

	record := *p
	record.Params = p.Params.Clone()
	return &record, nil
}

// GetByTicker retrieves all records for a ticker, ordered by strategy name ASC.
func (s *ParameterStore) GetByTicker(_ context.Context, ticker string) ([]*domain.OptimalParameters, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.OptimalParameters
	for key, p := range s.data {
		if key.ticker == ticker {
			record := *p
			record.Params = p.Params.Clone()
			result = append(result, &record)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].StrategyName < result[j].StrategyName
	})

	return result, nil
}

// LastUpdated reports the write time of the record. Returns ErrNotFound if not exists.
func (s *ParameterStore) LastUpdated(_ context.Context, ticker, strategyName string) (time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, exists := s.data[paramKey{ticker, strategyName}]
	if !exists {
		return time.Time{}, storage.ErrNotFound
	}
	return p.LastUpdated, nil
}

package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"strategy-lab/internal/domain"
	"strategy-lab/internal/storage"
)

// ParameterStore implements storage.ParameterStore using PostgreSQL.
type ParameterStore struct {
	pool *Pool
}

// NewParameterStore creates a new ParameterStore.
func NewParameterStore(pool *Pool) *ParameterStore {
	return &ParameterStore{pool: pool}
}

// Compile-time interface check.
var _ storage.ParameterStore = (*ParameterStore)(nil)

// Upsert inserts or replaces the record for (ticker, strategy_name).
func (s *ParameterStore) Upsert(ctx context.Context, p *domain.OptimalParameters) error {
	if p == nil || p.Ticker == "" || p.StrategyName == "" {
		return storage.ErrInvalidInput
	}

	params, err := json.Marshal(p.Params)
	if err != nil {
		return fmt.Errorf("marshal parameters: %w", err)
	}

	query := `
		INSERT INTO optimization_results (ticker, strategy_name, parameters, last_updated)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (ticker, strategy_name)
		DO UPDATE SET parameters = EXCLUDED.parameters, last_updated = EXCLUDED.last_updated
	`

	_, err = s.pool.Exec(ctx, query, p.Ticker, p.StrategyName, params, p.LastUpdated)
	if err != nil {
		return fmt.Errorf("upsert optimization result: %w", err)
	}
	return nil
}

// Get retrieves the stored parameters. Returns ErrNotFound if not exists.
func (s *ParameterStore) Get(ctx context.Context, ticker, strategyName string) (*domain.OptimalParameters, error) {
	query := `
		SELECT ticker, strategy_name, parameters, last_updated
		FROM optimization_results
		WHERE ticker = $1 AND strategy_name = $2
	`

	row := s.pool.QueryRow(ctx, query, ticker, strategyName)
	p, err := scanParameters(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get optimization result: %w", err)
	}
	return p, nil
}

// GetByTicker retrieves all records for a ticker, ordered by strategy name ASC.
func (s *ParameterStore) GetByTicker(ctx context.Context, ticker string) ([]*domain.OptimalParameters, error) {
	query := `
		SELECT ticker, strategy_name, parameters, last_updated
		FROM optimization_results
		WHERE ticker = $1
		ORDER BY strategy_name ASC
	`

	rows, err := s.pool.Query(ctx, query, ticker)
	if err != nil {
		return nil, fmt.Errorf("get optimization results by ticker: %w", err)
	}
	defer rows.Close()

	var result []*domain.OptimalParameters
	for rows.Next() {
		p, err := scanParameters(rows)
		if err != nil {
			return nil, fmt.Errorf("scan optimization result row: %w", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate optimization result rows: %w", err)
	}

	return result, nil
}

// LastUpdated reports the write time of the record. Returns ErrNotFound if not exists.
func (s *ParameterStore) LastUpdated(ctx context.Context, ticker, strategyName string) (time.Time, error) {
	query := `
		SELECT last_updated
		FROM optimization_results
		WHERE ticker = $1 AND strategy_name = $2
	`

	var lastUpdated time.Time
	err := s.pool.QueryRow(ctx, query, ticker, strategyName).Scan(&lastUpdated)
	if err != nil {
		if isNotFoundError(err) {
			return time.Time{}, storage.ErrNotFound
		}
		return time.Time{}, fmt.Errorf("get last updated: %w", err)
	}
	return lastUpdated, nil
}

// scanParameters scans a single row into OptimalParameters.
func scanParameters(row pgx.Row) (*domain.OptimalParameters, error) {
	var p domain.OptimalParameters
	var params []byte

	err := row.Scan(&p.Ticker, &p.StrategyName, &params, &p.LastUpdated)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(params, &p.Params); err != nil {
		return nil, fmt.Errorf("unmarshal parameters: %w", err)
	}
	return &p, nil
}

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"strategy-lab/internal/domain"
	"strategy-lab/internal/storage"
)

func TestParameterStore_UpsertAndGet(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewParameterStore(pool)
	ctx := context.Background()

	p := &domain.OptimalParameters{
		Ticker:       "AAPL",
		StrategyName: "MA_CROSSOVER",
		Params:       domain.ParameterSet{"short_window": 50, "long_window": 200},
		LastUpdated:  time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC),
	}

	err := store.Upsert(ctx, p)
	require.NoError(t, err)

	got, err := store.Get(ctx, "AAPL", "MA_CROSSOVER")
	require.NoError(t, err)

	assert.Equal(t, p.Ticker, got.Ticker)
	assert.Equal(t, p.StrategyName, got.StrategyName)
	assert.Zero(t, got.Params.Compare(p.Params))
	assert.True(t, got.LastUpdated.Equal(p.LastUpdated))
}

func TestParameterStore_UpsertReplaces(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewParameterStore(pool)
	ctx := context.Background()

	first := &domain.OptimalParameters{
		Ticker:       "AAPL",
		StrategyName: "RSI",
		Params:       domain.ParameterSet{"period": 14, "oversold_threshold": 30, "overbought_threshold": 70},
		LastUpdated:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.Upsert(ctx, first))

	second := &domain.OptimalParameters{
		Ticker:       "AAPL",
		StrategyName: "RSI",
		Params:       domain.ParameterSet{"period": 10, "oversold_threshold": 25, "overbought_threshold": 75},
		LastUpdated:  time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.Upsert(ctx, second))

	got, err := store.Get(ctx, "AAPL", "RSI")
	require.NoError(t, err)

	assert.Equal(t, float64(10), got.Params["period"])
	assert.True(t, got.LastUpdated.Equal(second.LastUpdated))

	// Still a single row for the key.
	all, err := store.GetByTicker(ctx, "AAPL")
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestParameterStore_NotFound(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewParameterStore(pool)
	ctx := context.Background()

	_, err := store.Get(ctx, "NOPE", "RSI")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = store.LastUpdated(ctx, "NOPE", "RSI")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestParameterStore_GetByTickerSorted(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewParameterStore(pool)
	ctx := context.Background()

	for _, name := range []string{"RSI", "BOLLINGER_BANDS", "MA_CROSSOVER"} {
		err := store.Upsert(ctx, &domain.OptimalParameters{
			Ticker:       "MSFT",
			StrategyName: name,
			Params:       domain.ParameterSet{"x": 1},
			LastUpdated:  time.Now().UTC(),
		})
		require.NoError(t, err)
	}

	// A second ticker must not leak into the result.
	err := store.Upsert(ctx, &domain.OptimalParameters{
		Ticker:       "AAPL",
		StrategyName: "RSI",
		Params:       domain.ParameterSet{"x": 2},
		LastUpdated:  time.Now().UTC(),
	})
	require.NoError(t, err)

	got, err := store.GetByTicker(ctx, "MSFT")
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "BOLLINGER_BANDS", got[0].StrategyName)
	assert.Equal(t, "MA_CROSSOVER", got[1].StrategyName)
	assert.Equal(t, "RSI", got[2].StrategyName)
}

func TestParameterStore_LastUpdated(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewParameterStore(pool)
	ctx := context.Background()

	when := time.Date(2024, 5, 20, 8, 30, 0, 0, time.UTC)
	err := store.Upsert(ctx, &domain.OptimalParameters{
		Ticker:       "AAPL",
		StrategyName: "BOLLINGER_BANDS",
		Params:       domain.ParameterSet{"window": 20, "std_dev": 2},
		LastUpdated:  when,
	})
	require.NoError(t, err)

	got, err := store.LastUpdated(ctx, "AAPL", "BOLLINGER_BANDS")
	require.NoError(t, err)
	assert.True(t, got.Equal(when))
}

func TestParameterStore_InvalidInput(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewParameterStore(pool)
	ctx := context.Background()

	err := store.Upsert(ctx, nil)
	assert.ErrorIs(t, err, storage.ErrInvalidInput)

	err = store.Upsert(ctx, &domain.OptimalParameters{Ticker: "AAPL"})
	assert.ErrorIs(t, err, storage.ErrInvalidInput)
}

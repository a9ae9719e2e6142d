package clickhouse

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"strategy-lab/internal/domain"
	"strategy-lab/internal/storage"
)

func TestPriceHistoryStore_InsertAndGet(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewPriceHistoryStore(conn)
	ctx := context.Background()

	points := domain.PriceSeries{
		{TimestampMs: 1700000000000, Price: 150.25},
		{TimestampMs: 1700086400000, Price: 151.10},
		{TimestampMs: 1700172800000, Price: 149.80},
	}

	err := store.InsertBulk(ctx, "AAPL", points)
	require.NoError(t, err)

	got, err := store.GetByTicker(ctx, "AAPL")
	require.NoError(t, err)
	require.Len(t, got, 3)

	for i := range points {
		assert.Equal(t, points[i].TimestampMs, got[i].TimestampMs)
		assert.Equal(t, points[i].Price, got[i].Price)
	}
}

func TestPriceHistoryStore_GetByTimeRange(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewPriceHistoryStore(conn)
	ctx := context.Background()

	points := domain.PriceSeries{
		{TimestampMs: 1000, Price: 10},
		{TimestampMs: 2000, Price: 11},
		{TimestampMs: 3000, Price: 12},
		{TimestampMs: 4000, Price: 13},
	}
	require.NoError(t, store.InsertBulk(ctx, "MSFT", points))

	got, err := store.GetByTimeRange(ctx, "MSFT", 2000, 3000)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(2000), got[0].TimestampMs)
	assert.Equal(t, int64(3000), got[1].TimestampMs)
}

func TestPriceHistoryStore_TickerIsolation(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewPriceHistoryStore(conn)
	ctx := context.Background()

	require.NoError(t, store.InsertBulk(ctx, "AAPL", domain.PriceSeries{{TimestampMs: 1000, Price: 10}}))
	require.NoError(t, store.InsertBulk(ctx, "MSFT", domain.PriceSeries{{TimestampMs: 1000, Price: 20}}))

	got, err := store.GetByTicker(ctx, "AAPL")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 10.0, got[0].Price)
}

func TestPriceHistoryStore_IntraBatchDuplicate(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewPriceHistoryStore(conn)
	ctx := context.Background()

	points := domain.PriceSeries{
		{TimestampMs: 1000, Price: 10},
		{TimestampMs: 1000, Price: 11},
	}
	err := store.InsertBulk(ctx, "AAPL", points)
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestPriceHistoryStore_EmptyBatch(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewPriceHistoryStore(conn)
	assert.NoError(t, store.InsertBulk(context.Background(), "AAPL", nil))
}

func TestPriceHistoryStore_UnknownTicker(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewPriceHistoryStore(conn)
	got, err := store.GetByTicker(context.Background(), "NOPE")
	require.NoError(t, err)
	assert.Empty(t, got)
}

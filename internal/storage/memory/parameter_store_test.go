package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"strategy-lab/internal/domain"
	"strategy-lab/internal/storage"
)

func TestParameterStore_UpsertAndGet(t *testing.T) {
	store := NewParameterStore()
	ctx := context.Background()

	p := &domain.OptimalParameters{
		Ticker:       "AAPL",
		StrategyName: "MA_CROSSOVER",
		Params:       domain.ParameterSet{"short_window": 50, "long_window": 200},
		LastUpdated:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	if err := store.Upsert(ctx, p); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	got, err := store.Get(ctx, "AAPL", "MA_CROSSOVER")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Params.Compare(p.Params) != 0 {
		t.Errorf("Params mismatch: got %s, want %s", got.Params, p.Params)
	}
	if !got.LastUpdated.Equal(p.LastUpdated) {
		t.Errorf("LastUpdated mismatch: got %v, want %v", got.LastUpdated, p.LastUpdated)
	}
}

func TestParameterStore_UpsertReplaces(t *testing.T) {
	store := NewParameterStore()
	ctx := context.Background()

	first := &domain.OptimalParameters{
		Ticker:       "AAPL",
		StrategyName: "RSI",
		Params:       domain.ParameterSet{"period": 14},
		LastUpdated:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	second := &domain.OptimalParameters{
		Ticker:       "AAPL",
		StrategyName: "RSI",
		Params:       domain.ParameterSet{"period": 10},
		LastUpdated:  time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	}

	if err := store.Upsert(ctx, first); err != nil {
		t.Fatalf("first Upsert failed: %v", err)
	}
	if err := store.Upsert(ctx, second); err != nil {
		t.Fatalf("second Upsert failed: %v", err)
	}

	got, err := store.Get(ctx, "AAPL", "RSI")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Params["period"] != 10 {
		t.Errorf("period = %v, want 10", got.Params["period"])
	}
	if !got.LastUpdated.Equal(second.LastUpdated) {
		t.Errorf("LastUpdated not replaced: %v", got.LastUpdated)
	}
}

func TestParameterStore_NotFound(t *testing.T) {
	store := NewParameterStore()
	ctx := context.Background()

	if _, err := store.Get(ctx, "AAPL", "RSI"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Get: expected ErrNotFound, got %v", err)
	}
	if _, err := store.LastUpdated(ctx, "AAPL", "RSI"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("LastUpdated: expected ErrNotFound, got %v", err)
	}
}

func TestParameterStore_InvalidInput(t *testing.T) {
	store := NewParameterStore()
	ctx := context.Background()

	if err := store.Upsert(ctx, nil); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for nil, got %v", err)
	}
	if err := store.Upsert(ctx, &domain.OptimalParameters{StrategyName: "RSI"}); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for empty ticker, got %v", err)
	}
}

func TestParameterStore_GetByTickerSorted(t *testing.T) {
	store := NewParameterStore()
	ctx := context.Background()

	for _, name := range []string{"RSI", "BOLLINGER_BANDS", "MA_CROSSOVER"} {
		err := store.Upsert(ctx, &domain.OptimalParameters{
			Ticker:       "MSFT",
			StrategyName: name,
			Params:       domain.ParameterSet{},
			LastUpdated:  time.Now(),
		})
		if err != nil {
			t.Fatalf("Upsert %s failed: %v", name, err)
		}
	}

	got, err := store.GetByTicker(ctx, "MSFT")
	if err != nil {
		t.Fatalf("GetByTicker failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 records, got %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i-1].StrategyName > got[i].StrategyName {
			t.Errorf("records not sorted by strategy name: %s before %s",
				got[i-1].StrategyName, got[i].StrategyName)
		}
	}
}

func TestParameterStore_ReturnsCopies(t *testing.T) {
	store := NewParameterStore()
	ctx := context.Background()

	p := &domain.OptimalParameters{
		Ticker:       "AAPL",
		StrategyName: "RSI",
		Params:       domain.ParameterSet{"period": 14},
		LastUpdated:  time.Now(),
	}
	if err := store.Upsert(ctx, p); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	got, _ := store.Get(ctx, "AAPL", "RSI")
	got.Params["period"] = 99

	again, _ := store.Get(ctx, "AAPL", "RSI")
	if again.Params["period"] != 14 {
		t.Errorf("store leaked internal state: period = %v", again.Params["period"])
	}
}

func TestParameterStore_ConcurrentUpserts(t *testing.T) {
	store := NewParameterStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = store.Upsert(ctx, &domain.OptimalParameters{
				Ticker:       "AAPL",
				StrategyName: "RSI",
				Params:       domain.ParameterSet{"period": float64(i)},
				LastUpdated:  time.Now(),
			})
		}(i)
	}
	wg.Wait()

	if _, err := store.Get(ctx, "AAPL", "RSI"); err != nil {
		t.Fatalf("Get after concurrent upserts failed: %v", err)
	}
}

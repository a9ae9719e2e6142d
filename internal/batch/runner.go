// Package batch re-optimizes strategy parameters for a universe of tickers.
// Each ticker's history is fetched once and shared across its strategies;
// a failing ticker is reported and skipped without aborting the run.
package batch

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"strategy-lab/internal/domain"
	"strategy-lab/internal/marketdata"
	"strategy-lab/internal/observability"
	"strategy-lab/internal/optimizer"
	"strategy-lab/internal/storage"
	"strategy-lab/internal/strategy"
)

// Default configuration values.
const (
	// DefaultStaleness is how old stored parameters may be before they are
	// re-optimized.
	DefaultStaleness = 24 * time.Hour

	// DefaultLookbackDays is the history window fetched per ticker.
	DefaultLookbackDays = 365
)

// Runner coordinates staleness checks, history fetches, and optimizations
// for a set of tickers.
type Runner struct {
	provider   marketdata.Provider
	params     storage.ParameterStore
	prices     storage.PriceHistoryStore
	optimizer  *optimizer.Optimizer
	strategies []string
	staleness  time.Duration
	lookback   time.Duration
	workers    int
	verbose    bool
	now        func() time.Time
}

// Options for creating a Runner.
type Options struct {
	// Required
	Provider       marketdata.Provider
	ParameterStore storage.ParameterStore
	Optimizer      *optimizer.Optimizer

	// PriceHistoryStore, when set, mirrors every fetched series for later
	// inspection and replay.
	PriceHistoryStore storage.PriceHistoryStore

	// Strategies to optimize per ticker. Defaults to all known strategies.
	Strategies []string

	// Staleness is the maximum age of stored parameters before they are
	// refreshed. Defaults to 24h.
	Staleness time.Duration

	// LookbackDays is the history window fetched per ticker. Defaults to 365.
	LookbackDays int

	// Workers bounds concurrent ticker processing. Defaults to 1.
	Workers int

	Verbose bool

	// Now overrides the clock, for tests.
	Now func() time.Time
}

// New creates a new Runner, applying option defaults.
func New(opts Options) *Runner {
	strategies := opts.Strategies
	if len(strategies) == 0 {
		strategies = strategy.Types
	}
	staleness := opts.Staleness
	if staleness <= 0 {
		staleness = DefaultStaleness
	}
	lookbackDays := opts.LookbackDays
	if lookbackDays <= 0 {
		lookbackDays = DefaultLookbackDays
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = 1
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Runner{
		provider:   opts.Provider,
		params:     opts.ParameterStore,
		prices:     opts.PriceHistoryStore,
		optimizer:  opts.Optimizer,
		strategies: strategies,
		staleness:  staleness,
		lookback:   time.Duration(lookbackDays) * 24 * time.Hour,
		workers:    workers,
		verbose:    opts.Verbose,
		now:        now,
	}
}

// RunResult contains results from a batch run.
type RunResult struct {
	TickersProcessed int
	ParametersFresh  int
	ParametersSaved  int
	Errors           []string
}

// Run refreshes stale parameters for every ticker. Tickers are processed on
// a bounded worker pool; per-ticker failures are collected in the result and
// never abort the remaining work.
func (r *Runner) Run(ctx context.Context, tickers []string) (*RunResult, error) {
	if r.provider == nil || r.params == nil || r.optimizer == nil {
		return nil, errors.New("batch runner misconfigured: provider, parameter store, and optimizer are required")
	}

	result := &RunResult{}
	var mu sync.Mutex

	jobs := make(chan string)
	var wg sync.WaitGroup
	for w := 0; w < r.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ticker := range jobs {
				saved, skipped, err := r.processTicker(ctx, ticker)

				mu.Lock()
				result.ParametersSaved += saved
				result.ParametersFresh += skipped
				if err != nil {
					result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", ticker, err))
					observability.RecordTickerProcessed("error")
				} else if skipped > 0 && saved == 0 {
					observability.RecordTickerProcessed("fresh")
				} else {
					result.TickersProcessed++
					observability.RecordTickerProcessed("ok")
				}
				mu.Unlock()
			}
		}()
	}

feed:
	for _, ticker := range tickers {
		select {
		case jobs <- ticker:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	sort.Strings(result.Errors)

	if err := ctx.Err(); err != nil {
		return result, err
	}

	observability.DefaultMetrics.LastSuccessfulBatch.SetToCurrentTime()
	r.log("batch completed: %d processed, %d skipped, %d saved, %d errors",
		result.TickersProcessed, result.ParametersFresh, result.ParametersSaved, len(result.Errors))
	return result, nil
}

// processTicker refreshes every stale strategy for one ticker. The history
// is fetched once and shared. Returns the number of parameter sets saved and
// the number of strategies skipped as fresh.
func (r *Runner) processTicker(ctx context.Context, ticker string) (saved, skipped int, err error) {
	now := r.now()

	var stale []string
	for _, strategyType := range r.strategies {
		fresh, err := r.isFresh(ctx, ticker, strategyType, now)
		if err != nil {
			return 0, skipped, err
		}
		if fresh {
			skipped++
			continue
		}
		stale = append(stale, strategyType)
	}
	if len(stale) == 0 {
		r.log("%s: all parameters fresh", ticker)
		return 0, skipped, nil
	}

	history, err := r.provider.GetHistory(ctx, ticker, now.Add(-r.lookback), now)
	if err != nil {
		return 0, skipped, fmt.Errorf("fetch history: %w", err)
	}

	if r.prices != nil {
		if err := r.prices.InsertBulk(ctx, ticker, history); err != nil {
			return 0, skipped, fmt.Errorf("store history: %w", err)
		}
	}

	for _, strategyType := range stale {
		def, ok := strategy.DefinitionFor(strategyType)
		if !ok {
			return saved, skipped, fmt.Errorf("%w: %s", optimizer.ErrUnknownStrategyType, strategyType)
		}

		results, err := r.optimizer.Run(ctx, strategyType, def.DefaultSpace(), history)
		if err != nil {
			return saved, skipped, fmt.Errorf("optimize %s: %w", strategyType, err)
		}
		if len(results) == 0 {
			return saved, skipped, fmt.Errorf("optimize %s: no valid candidates", strategyType)
		}

		best := results[0]
		record := &domain.OptimalParameters{
			Ticker:       ticker,
			StrategyName: strategyType,
			Params:       best.Params,
			LastUpdated:  now,
		}
		if err := r.params.Upsert(ctx, record); err != nil {
			return saved, skipped, fmt.Errorf("persist %s: %w", strategyType, err)
		}
		observability.RecordParametersPersisted()
		saved++
		r.log("%s %s: saved %s (final value %.2f)", ticker, strategyType, best.Params, best.Metrics.FinalValue)
	}

	return saved, skipped, nil
}

// isFresh reports whether stored parameters are newer than the staleness
// window. A missing record is stale, not an error.
func (r *Runner) isFresh(ctx context.Context, ticker, strategyType string, now time.Time) (bool, error) {
	lastUpdated, err := r.params.LastUpdated(ctx, ticker, strategyType)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("check staleness: %w", err)
	}
	return now.Sub(lastUpdated) < r.staleness, nil
}

func (r *Runner) log(format string, args ...interface{}) {
	if r.verbose {
		log.Printf("[batch] "+format, args...)
	}
}

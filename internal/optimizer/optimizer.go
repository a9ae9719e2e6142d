// Package optimizer runs grid searches over strategy parameter spaces.
// Candidate evaluations are pure functions of the shared read-only price
// series and run concurrently on a bounded worker pool; results are ranked
// once after the full join, so the output never depends on completion order.
package optimizer

import (
	"context"
	"errors"
	"io"
	"log"
	"runtime"
	"sort"
	"sync"
	"time"

	"strategy-lab/internal/domain"
	"strategy-lab/internal/observability"
	"strategy-lab/internal/portfolio"
	"strategy-lab/internal/strategy"
)

// Optimizer errors
var (
	ErrUnknownStrategyType = errors.New("unknown strategy type")
	ErrNoPriceData         = errors.New("no price data for optimization")
)

// DefaultInitialCash is the starting capital per simulated candidate.
const DefaultInitialCash = 10000

// Options configures an Optimizer.
type Options struct {
	// Workers bounds concurrent candidate evaluations. Defaults to NumCPU.
	Workers int

	// InitialCash is the simulated starting capital. Defaults to 10000.
	InitialCash float64

	// Logger receives per-candidate failure logs. Defaults to a silent logger.
	Logger *log.Logger
}

// Optimizer evaluates every valid combination of a parameter space against a
// price series and ranks the outcomes.
type Optimizer struct {
	workers     int
	initialCash float64
	log         *log.Logger
}

// New creates an Optimizer, applying option defaults.
func New(opts Options) *Optimizer {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	initialCash := opts.InitialCash
	if initialCash <= 0 {
		initialCash = DefaultInitialCash
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Optimizer{workers: workers, initialCash: initialCash, log: logger}
}

// Run enumerates the parameter space, silently discards combinations failing
// the strategy's validity predicate, evaluates the rest concurrently, and
// returns the surviving results sorted by final value descending with the
// deterministic lexicographic parameter tie-break. A failing candidate is
// logged and excluded; it never aborts the batch. An empty result is valid.
func (o *Optimizer) Run(ctx context.Context, strategyType string, space domain.ParameterSpace, prices domain.PriceSeries) ([]domain.CandidateResult, error) {
	def, ok := strategy.DefinitionFor(strategyType)
	if !ok {
		return nil, ErrUnknownStrategyType
	}
	if len(prices) == 0 {
		return nil, ErrNoPriceData
	}

	started := time.Now()

	var candidates []domain.ParameterSet
	for _, params := range Enumerate(space) {
		if !def.Valid(params) {
			observability.RecordCandidateInvalid(strategyType)
			continue
		}
		candidates = append(candidates, params)
	}

	results := o.evaluateAll(ctx, strategyType, candidates, prices)

	sort.Slice(results, func(i, j int) bool {
		if results[i].Metrics.FinalValue != results[j].Metrics.FinalValue {
			return results[i].Metrics.FinalValue > results[j].Metrics.FinalValue
		}
		return results[i].Params.Compare(results[j].Params) < 0
	})

	observability.RecordOptimization(strategyType, time.Since(started).Seconds())

	return results, ctx.Err()
}

// evaluateAll fans candidates out to the worker pool and joins all results.
// Evaluation is side-effect-free between candidates, so no locks are needed
// beyond the collection channel.
func (o *Optimizer) evaluateAll(ctx context.Context, strategyType string, candidates []domain.ParameterSet, prices domain.PriceSeries) []domain.CandidateResult {
	jobs := make(chan domain.ParameterSet)
	out := make(chan domain.CandidateResult, len(candidates))

	var wg sync.WaitGroup
	for w := 0; w < o.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for params := range jobs {
				result, err := o.evaluate(strategyType, params, prices)
				if err != nil {
					observability.RecordCandidateFailed(strategyType)
					o.log.Printf("excluding candidate %s [%s]: %v", strategyType, params, err)
					continue
				}
				observability.RecordCandidateEvaluated(strategyType)
				out <- result
			}
		}()
	}

	for _, params := range candidates {
		select {
		case jobs <- params:
		case <-ctx.Done():
			// Stop feeding; in-flight evaluations finish on their own.
			close(jobs)
			wg.Wait()
			close(out)
			return collect(out)
		}
	}
	close(jobs)
	wg.Wait()
	close(out)

	return collect(out)
}

// evaluate runs one candidate end to end: construct, generate, simulate.
func (o *Optimizer) evaluate(strategyType string, params domain.ParameterSet, prices domain.PriceSeries) (domain.CandidateResult, error) {
	strat, err := strategy.FromParams(strategyType, params)
	if err != nil {
		return domain.CandidateResult{}, err
	}

	signals := strat.GenerateSignals(prices)
	metrics, _, err := portfolio.Simulate(signals, o.initialCash)
	if err != nil {
		return domain.CandidateResult{}, err
	}

	return domain.CandidateResult{Params: params, Metrics: metrics}, nil
}

func collect(out <-chan domain.CandidateResult) []domain.CandidateResult {
	var results []domain.CandidateResult
	for r := range out {
		results = append(results, r)
	}
	return results
}

// Command optimize grid-searches one strategy's parameters for a ticker and
// prints the ranked results.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"strategy-lab/internal/config"
	"strategy-lab/internal/domain"
	"strategy-lab/internal/marketdata"
	"strategy-lab/internal/marketdata/stub"
	"strategy-lab/internal/optimizer"
	"strategy-lab/internal/reporting"
	"strategy-lab/internal/storage"
	"strategy-lab/internal/storage/memory"
	"strategy-lab/internal/storage/migrations"
	pgstore "strategy-lab/internal/storage/postgres"
	"strategy-lab/internal/strategy"
)

func main() {
	configPath := flag.String("config", "", "YAML config file (optional)")
	ticker := flag.String("ticker", "", "Ticker to optimize (required)")
	strategyType := flag.String("strategy", "", "Strategy: BUY_AND_HOLD, MA_CROSSOVER, RSI, BOLLINGER_BANDS (required)")

	workers := flag.Int("workers", 0, "Concurrent candidate evaluations (default: NumCPU)")
	initialCash := flag.Float64("initial-cash", optimizer.DefaultInitialCash, "Simulated starting capital")
	lookbackDays := flag.Int("lookback-days", 365, "History window in days")
	top := flag.Int("top", 10, "Rows to print (0 = all)")

	providerEndpoint := flag.String("provider-endpoint", "", "Market data API endpoint (default: synthetic data)")
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL connection string (required with --persist)")
	persistResult := flag.Bool("persist", false, "Persist the best parameters")

	outputJSON := flag.Bool("json", false, "Output as JSON")
	outputCSV := flag.Bool("csv", false, "Output as CSV")

	flag.Parse()

	logger := log.New(os.Stderr, "[optimize] ", log.LstdFlags)

	if *ticker == "" {
		logger.Fatal("--ticker is required")
	}
	if *strategyType == "" {
		logger.Fatal("--strategy is required")
	}
	*strategyType = strings.ToUpper(*strategyType)
	if _, ok := strategy.DefinitionFor(*strategyType); !ok {
		logger.Fatalf("Invalid strategy: %s. Must be one of %s", *strategyType, strings.Join(strategy.Types, ", "))
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			logger.Fatalf("load config: %v", err)
		}
	}
	if *providerEndpoint == "" {
		*providerEndpoint = cfg.Provider.Endpoint
	}
	if *postgresDSN == "" {
		*postgresDSN = cfg.Storage.PostgresDSN
	}
	if *workers == 0 {
		*workers = cfg.Optimizer.Workers
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, shutting down...", sig)
		cancel()
	}()

	provider := buildProvider(*providerEndpoint, *ticker, *lookbackDays)

	now := time.Now()
	history, err := provider.GetHistory(ctx, *ticker, now.AddDate(0, 0, -*lookbackDays), now)
	if err != nil {
		logger.Fatalf("fetch history for %s: %v", *ticker, err)
	}
	logger.Printf("Fetched %d points for %s", len(history), *ticker)

	def, _ := strategy.DefinitionFor(*strategyType)
	opt := optimizer.New(optimizer.Options{
		Workers:     *workers,
		InitialCash: *initialCash,
		Logger:      logger,
	})

	results, err := opt.Run(ctx, *strategyType, def.DefaultSpace(), history)
	if err != nil {
		logger.Fatalf("optimization failed: %v", err)
	}
	logger.Printf("Evaluated %d valid candidates", len(results))

	report := reporting.New(*ticker, *strategyType, *initialCash, results).Top(*top)

	switch {
	case *outputJSON:
		output, _ := json.MarshalIndent(report, "", "  ")
		fmt.Println(string(output))
	case *outputCSV:
		fmt.Print(reporting.RenderCSV(report))
	default:
		fmt.Print(reporting.RenderMarkdown(report))
	}

	if *persistResult {
		if len(results) == 0 {
			logger.Fatal("nothing to persist: no valid candidates")
		}
		if err := persistBest(ctx, *postgresDSN, *ticker, *strategyType, results[0], logger); err != nil {
			logger.Fatalf("persist failed: %v", err)
		}
	}
}

// buildProvider selects the HTTP provider or, with no endpoint, a stub
// seeded with deterministic synthetic history.
func buildProvider(endpoint, ticker string, lookbackDays int) marketdata.Provider {
	if endpoint != "" {
		return marketdata.NewHTTPProvider(endpoint)
	}

	s := stub.NewProvider()
	start := time.Now().AddDate(0, 0, -lookbackDays)
	s.AddHistory(ticker, stub.SyntheticHistory(start.UnixMilli(), lookbackDays, 100))
	return s
}

// persistBest upserts the winning parameters, using Postgres when a DSN is
// given and the in-memory store otherwise (useful only for dry runs).
func persistBest(ctx context.Context, dsn, ticker, strategyType string, best domain.CandidateResult, logger *log.Logger) error {
	var store storage.ParameterStore = memory.NewParameterStore()

	if dsn != "" {
		pool, err := pgstore.NewPool(ctx, dsn)
		if err != nil {
			return fmt.Errorf("connect to postgres: %w", err)
		}
		defer pool.Close()

		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
		store = pgstore.NewParameterStore(pool)
	} else {
		logger.Printf("no --postgres-dsn given, persisting to memory only")
	}

	record := &domain.OptimalParameters{
		Ticker:       ticker,
		StrategyName: strategyType,
		Params:       best.Params,
		LastUpdated:  time.Now().UTC(),
	}
	if err := store.Upsert(ctx, record); err != nil {
		return err
	}

	logger.Printf("Persisted %s %s: %s", ticker, strategyType, best.Params)
	return nil
}

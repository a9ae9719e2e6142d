// Command batch refreshes stale optimal parameters for a ticker universe.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"strategy-lab/internal/batch"
	"strategy-lab/internal/config"
	"strategy-lab/internal/marketdata"
	"strategy-lab/internal/marketdata/stub"
	"strategy-lab/internal/observability"
	"strategy-lab/internal/optimizer"
	"strategy-lab/internal/storage"
	chstore "strategy-lab/internal/storage/clickhouse"
	"strategy-lab/internal/storage/memory"
	"strategy-lab/internal/storage/migrations"
	pgstore "strategy-lab/internal/storage/postgres"
	"strategy-lab/internal/strategy"
)

func main() {
	configPath := flag.String("config", "", "YAML config file (optional)")
	tickersFlag := flag.String("tickers", "", "Comma-separated tickers (overrides config)")
	strategiesFlag := flag.String("strategies", "", "Comma-separated strategies (default: all)")

	stalenessHours := flag.Int("staleness-hours", 0, "Refresh parameters older than this (default: 24)")
	lookbackDays := flag.Int("lookback-days", 0, "History window in days (default: 365)")
	workers := flag.Int("workers", 0, "Concurrent tickers (default: 1)")
	initialCash := flag.Float64("initial-cash", optimizer.DefaultInitialCash, "Simulated starting capital")

	providerEndpoint := flag.String("provider-endpoint", "", "Market data API endpoint (default: synthetic data)")
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL connection string (default: in-memory)")
	clickhouseDSN := flag.String("clickhouse-dsn", "", "ClickHouse connection string for history mirroring (optional)")
	metricsAddr := flag.String("metrics-addr", "", "Address for the Prometheus /metrics endpoint (optional)")

	outputJSON := flag.Bool("json", false, "Output summary as JSON")
	verbose := flag.Bool("verbose", false, "Verbose logging")

	flag.Parse()

	logger := log.New(os.Stderr, "[batch] ", log.LstdFlags)

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			logger.Fatalf("load config: %v", err)
		}
	}

	tickers := splitList(*tickersFlag)
	if len(tickers) == 0 {
		tickers = cfg.Batch.Tickers
	}
	if len(tickers) == 0 {
		logger.Fatal("--tickers or batch.tickers in config is required")
	}

	strategies := splitList(strings.ToUpper(*strategiesFlag))
	if len(strategies) == 0 {
		strategies = cfg.Batch.Strategies
	}
	for _, s := range strategies {
		if _, ok := strategy.DefinitionFor(s); !ok {
			logger.Fatalf("Invalid strategy: %s. Must be one of %s", s, strings.Join(strategy.Types, ", "))
		}
	}

	if *stalenessHours == 0 {
		*stalenessHours = cfg.Batch.StalenessHrs
	}
	if *lookbackDays == 0 {
		*lookbackDays = cfg.Batch.LookbackDays
	}
	if *workers == 0 {
		*workers = cfg.Batch.Workers
	}
	if *providerEndpoint == "" {
		*providerEndpoint = cfg.Provider.Endpoint
	}
	if *postgresDSN == "" {
		*postgresDSN = cfg.Storage.PostgresDSN
	}
	if *clickhouseDSN == "" {
		*clickhouseDSN = cfg.Storage.ClickhouseDSN
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

	if *metricsAddr != "" {
		go serveMetrics(*metricsAddr, logger)
	}

	provider := buildProvider(*providerEndpoint, tickers, *lookbackDays)

	var paramStore storage.ParameterStore = memory.NewParameterStore()
	if *postgresDSN != "" {
		pool, err := pgstore.NewPool(ctx, *postgresDSN)
		if err != nil {
			logger.Fatalf("connect to postgres: %v", err)
		}
		defer pool.Close()

		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			logger.Fatalf("run postgres migrations: %v", err)
		}
		paramStore = pgstore.NewParameterStore(pool)
	}

	var priceStore storage.PriceHistoryStore
	if *clickhouseDSN != "" {
		conn, err := migrations.RunClickhouseMigrations(ctx, *clickhouseDSN)
		if err != nil {
			logger.Fatalf("run clickhouse migrations: %v", err)
		}
		defer conn.Close()

		priceStore = chstore.NewPriceHistoryStore(conn)
	}

	runner := batch.New(batch.Options{
		Provider:          provider,
		ParameterStore:    paramStore,
		PriceHistoryStore: priceStore,
		Optimizer: optimizer.New(optimizer.Options{
			InitialCash: *initialCash,
			Logger:      logger,
		}),
		Strategies:   strategies,
		Staleness:    time.Duration(*stalenessHours) * time.Hour,
		LookbackDays: *lookbackDays,
		Workers:      *workers,
		Verbose:      *verbose,
	})

	logger.Printf("Starting batch: %d tickers, %d strategies", len(tickers), len(strategies))
	started := time.Now()

	result, err := runner.Run(ctx, tickers)
	if err != nil {
		logger.Fatalf("batch failed: %v", err)
	}

	if *outputJSON {
		output, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(output))
	} else {
		printSummary(result, time.Since(started))
	}

	if len(result.Errors) > 0 {
		os.Exit(1)
	}
}

// buildProvider selects the HTTP provider or, with no endpoint, a stub
// seeded with deterministic synthetic history for every ticker.
func buildProvider(endpoint string, tickers []string, lookbackDays int) marketdata.Provider {
	if endpoint != "" {
		return marketdata.NewHTTPProvider(endpoint)
	}

	if lookbackDays <= 0 {
		lookbackDays = batch.DefaultLookbackDays
	}
	s := stub.NewProvider()
	start := time.Now().AddDate(0, 0, -lookbackDays)
	for _, ticker := range tickers {
		s.AddHistory(ticker, stub.SyntheticHistory(start.UnixMilli(), lookbackDays, 100))
	}
	return s
}

func serveMetrics(addr string, logger *log.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", observability.Handler())
	logger.Printf("Serving metrics on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Printf("metrics server: %v", err)
	}
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// printSummary outputs a human-readable batch summary.
func printSummary(result *batch.RunResult, elapsed time.Duration) {
	fmt.Println()
	fmt.Println("=== Batch Summary ===")
	fmt.Printf("Tickers processed:  %d\n", result.TickersProcessed)
	fmt.Printf("Parameters fresh:   %d\n", result.ParametersFresh)
	fmt.Printf("Parameters saved:   %d\n", result.ParametersSaved)
	fmt.Printf("Elapsed:            %s\n", elapsed.Round(time.Millisecond))
	if len(result.Errors) > 0 {
		fmt.Printf("Errors (%d):\n", len(result.Errors))
		for _, e := range result.Errors {
			fmt.Printf("  - %s\n", e)
		}
	}
}

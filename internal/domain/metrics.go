package domain

import "time"

// PortfolioPoint is the portfolio state recorded after processing one step.
// Invariant: Cash >= 0, Holdings >= 0, Total = Cash + Holdings, and
// immediately after a transaction at most one of Cash, Holdings is nonzero.
type PortfolioPoint struct {
	TimestampMs int64
	Cash        float64
	Holdings    float64 // mark-to-market value of the held position
	Total       float64
}

// PerformanceMetrics summarizes a completed portfolio simulation. All fields
// are derived from the portfolio value series in one pass and are never
// partially populated.
type PerformanceMetrics struct {
	TotalReturn          float64 `json:"total_return"`
	CAGR                 float64 `json:"cagr"`
	AnnualizedVolatility float64 `json:"annualized_volatility"`
	SharpeRatio          float64 `json:"sharpe_ratio"`
	MaxDrawdown          float64 `json:"max_drawdown"`
	FinalValue           float64 `json:"final_value"`
}

// CandidateResult pairs one evaluated parameter combination with its metrics.
type CandidateResult struct {
	Params  ParameterSet
	Metrics PerformanceMetrics
}

// OptimalParameters is the persisted outcome of an optimization run,
// keyed by (ticker, strategy name).
type OptimalParameters struct {
	Ticker       string
	StrategyName string
	Params       ParameterSet
	LastUpdated  time.Time
}

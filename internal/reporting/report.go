// Package reporting renders optimization results as CSV and Markdown.
package reporting

import (
	"time"

	"strategy-lab/internal/domain"
)

// Report holds one optimization run's ranked results for rendering.
type Report struct {
	GeneratedAt  time.Time
	Ticker       string
	StrategyType string
	InitialCash  float64

	// Rows in rank order, best first.
	Rows []ResultRow
}

// ResultRow is one ranked candidate.
type ResultRow struct {
	Rank                 int
	Params               string
	TotalReturn          float64
	CAGR                 float64
	AnnualizedVolatility float64
	SharpeRatio          float64
	MaxDrawdown          float64
	FinalValue           float64
}

// New builds a report from ranked optimizer results. The input order is
// preserved, so callers pass results exactly as the optimizer returned them.
func New(ticker, strategyType string, initialCash float64, results []domain.CandidateResult) *Report {
	rows := make([]ResultRow, len(results))
	for i, r := range results {
		rows[i] = ResultRow{
			Rank:                 i + 1,
			Params:               r.Params.String(),
			TotalReturn:          r.Metrics.TotalReturn,
			CAGR:                 r.Metrics.CAGR,
			AnnualizedVolatility: r.Metrics.AnnualizedVolatility,
			SharpeRatio:          r.Metrics.SharpeRatio,
			MaxDrawdown:          r.Metrics.MaxDrawdown,
			FinalValue:           r.Metrics.FinalValue,
		}
	}
	return &Report{
		GeneratedAt:  time.Now().UTC(),
		Ticker:       ticker,
		StrategyType: strategyType,
		InitialCash:  initialCash,
		Rows:         rows,
	}
}

// Top returns a copy of the report truncated to the first n rows.
func (r *Report) Top(n int) *Report {
	if n < 0 || n >= len(r.Rows) {
		return r
	}
	truncated := *r
	truncated.Rows = r.Rows[:n]
	return &truncated
}

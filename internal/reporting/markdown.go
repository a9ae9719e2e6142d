package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders the report as a Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString(fmt.Sprintf("# Optimization Report: %s / %s\n\n", r.Ticker, r.StrategyType))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Initial capital: %.2f | Candidates: %d\n\n", r.InitialCash, len(r.Rows)))

	// Results
	sb.WriteString("## Ranked Results\n\n")
	if len(r.Rows) > 0 {
		sb.WriteString("| Rank | Params | Return | CAGR | Volatility | Sharpe | MaxDD | Final Value |\n")
		sb.WriteString("|------|--------|--------|------|------------|--------|-------|-------------|\n")
		for _, row := range r.Rows {
			sb.WriteString(fmt.Sprintf("| %d | %s | %.4f | %.4f | %.4f | %.4f | %.4f | %.2f |\n",
				row.Rank, row.Params,
				row.TotalReturn, row.CAGR, row.AnnualizedVolatility,
				row.SharpeRatio, row.MaxDrawdown, row.FinalValue))
		}
	} else {
		sb.WriteString("No valid candidates.\n")
	}
	sb.WriteString("\n")

	return sb.String()
}

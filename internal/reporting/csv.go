package reporting

import (
	"fmt"
	"strings"
)

// RenderCSV renders the ranked results as a CSV string.
func RenderCSV(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString("rank,params,total_return,cagr,annualized_volatility,sharpe_ratio,max_drawdown,final_value\n")

	// Rows
	for _, row := range r.Rows {
		sb.WriteString(fmt.Sprintf("%d,%q,%.6f,%.6f,%.6f,%.6f,%.6f,%.2f\n",
			row.Rank,
			row.Params,
			row.TotalReturn,
			row.CAGR,
			row.AnnualizedVolatility,
			row.SharpeRatio,
			row.MaxDrawdown,
			row.FinalValue,
		))
	}

	return sb.String()
}

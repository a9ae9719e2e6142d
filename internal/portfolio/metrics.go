package portfolio

import (
	"math"

	"strategy-lab/internal/domain"
)

// computeMetrics derives all performance metrics in one pass over a
// completed portfolio state series. states is non-empty.
func computeMetrics(states []domain.PortfolioPoint, initialCash float64) domain.PerformanceMetrics {
	finalValue := states[len(states)-1].Total
	totalReturn := finalValue/initialCash - 1

	// CAGR over the observed span, assuming 252 trading days per year.
	numYears := float64(len(states)) / tradingDaysPerYear
	cagr := 0.0
	if numYears > 0 {
		cagr = math.Pow(finalValue/initialCash, 1/numYears) - 1
	}

	volatility := annualizedVolatility(states)

	// Zero volatility guards the division rather than propagating infinity.
	sharpe := 0.0
	if volatility != 0 {
		sharpe = (cagr - riskFreeRate) / volatility
	}

	return domain.PerformanceMetrics{
		TotalReturn:          totalReturn,
		CAGR:                 cagr,
		AnnualizedVolatility: volatility,
		SharpeRatio:          sharpe,
		MaxDrawdown:          maxDrawdown(states),
		FinalValue:           finalValue,
	}
}

// annualizedVolatility is the sample standard deviation of daily returns
// scaled by sqrt(252). A series too short to yield two daily returns has no
// measurable volatility and reports 0.
func annualizedVolatility(states []domain.PortfolioPoint) float64 {
	var returns []float64
	for i := 1; i < len(states); i++ {
		returns = append(returns, states[i].Total/states[i-1].Total-1)
	}
	if len(returns) < 2 {
		return 0
	}

	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	sumSq := 0.0
	for _, r := range returns {
		d := r - mean
		sumSq += d * d
	}
	stddev := math.Sqrt(sumSq / float64(len(returns)-1))

	return stddev * math.Sqrt(tradingDaysPerYear)
}

// maxDrawdown is the worst decline from the running peak of portfolio value,
// expressed as a non-positive fraction.
func maxDrawdown(states []domain.PortfolioPoint) float64 {
	peak := states[0].Total
	worst := 0.0
	for _, s := range states {
		if s.Total > peak {
			peak = s.Total
		}
		dd := s.Total/peak - 1
		if dd < worst {
			worst = dd
		}
	}
	return worst
}

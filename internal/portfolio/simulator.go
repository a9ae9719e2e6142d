// Package portfolio simulates signal-driven trading over a single asset and
// derives performance metrics from the resulting portfolio value series.
package portfolio

import (
	"errors"

	"strategy-lab/internal/domain"
)

// ErrInsufficientData is returned when the signal series is empty.
var ErrInsufficientData = errors.New("insufficient data: empty signal series")

// Trading days per year, used for annualization.
const tradingDaysPerYear = 252

// Fixed risk-free rate for the Sharpe ratio.
const riskFreeRate = 0.02

// Simulate replays a signal series in timestamp order with full-reinvestment
// bookkeeping: a buy converts all cash into position at the step's price, a
// sell converts the whole position back into cash. There is no partial
// sizing, leverage, or fee model, and repeated same-direction signals are
// no-ops. It returns the derived metrics and the per-step portfolio states.
func Simulate(signals domain.SignalSeries, initialCash float64) (domain.PerformanceMetrics, []domain.PortfolioPoint, error) {
	if len(signals) == 0 {
		return domain.PerformanceMetrics{}, nil, ErrInsufficientData
	}

	cash := initialCash
	position := 0.0
	states := make([]domain.PortfolioPoint, len(signals))

	for i, sp := range signals {
		switch sp.Signal {
		case domain.SignalBuy:
			if cash > 0 {
				position = cash / sp.Price
				cash = 0
			}
		case domain.SignalSell:
			if position > 0 {
				cash = position * sp.Price
				position = 0
			}
		}

		holdings := position * sp.Price
		states[i] = domain.PortfolioPoint{
			TimestampMs: sp.TimestampMs,
			Cash:        cash,
			Holdings:    holdings,
			Total:       cash + holdings,
		}
	}

	return computeMetrics(states, initialCash), states, nil
}

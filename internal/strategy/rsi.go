package strategy

import (
	"fmt"

	"strategy-lab/internal/domain"
)

// RSI trades on the relative strength index: buy when the market is oversold,
// sell when it is overbought.
type RSI struct {
	Period              int
	OversoldThreshold   float64
	OverboughtThreshold float64
}

// NewRSI creates a new RSI strategy.
// Returns ErrNonPositiveWindow when period < 1 and ErrThresholdOrder when
// oversold >= overbought.
func NewRSI(period int, oversold, overbought float64) (*RSI, error) {
	if period < 1 {
		return nil, ErrNonPositiveWindow
	}
	if oversold >= overbought {
		return nil, ErrThresholdOrder
	}
	return &RSI{Period: period, OversoldThreshold: oversold, OverboughtThreshold: overbought}, nil
}

// Name returns the strategy identifier including parameters.
func (s *RSI) Name() string {
	return fmt.Sprintf("%s_%d_%g_%g", TypeRSI, s.Period, s.OversoldThreshold, s.OverboughtThreshold)
}

// GenerateSignals computes per-step price deltas, rolling means of gains and
// absolute losses over Period, and RSI = 100 - 100/(1+RS). Steps without a
// full lookback have no defined RSI and emit hold. When the rolling loss is
// zero and the gain positive, RS is infinite and RSI is exactly 100 (fully
// overbought); when both are zero the RSI is undefined and the step holds.
func (s *RSI) GenerateSignals(prices domain.PriceSeries) domain.SignalSeries {
	n := len(prices)
	signals := make(domain.SignalSeries, n)

	// deltas[i] is the price change from step i-1 to i; deltas[0] is unused.
	deltas := make([]float64, n)
	for i := 1; i < n; i++ {
		deltas[i] = prices[i].Price - prices[i-1].Price
	}

	for i, p := range prices {
		sig := domain.SignalHold

		// First defined RSI is at index Period: it needs Period deltas,
		// and the delta at index 0 does not exist.
		if i >= s.Period {
			gainSum, lossSum := 0.0, 0.0
			for j := i - s.Period + 1; j <= i; j++ {
				if deltas[j] > 0 {
					gainSum += deltas[j]
				} else {
					lossSum += -deltas[j]
				}
			}
			gain := gainSum / float64(s.Period)
			loss := lossSum / float64(s.Period)

			rsi, defined := 0.0, false
			switch {
			case loss > 0:
				rs := gain / loss
				rsi, defined = 100-100/(1+rs), true
			case gain > 0:
				// Zero loss with positive gain: fully overbought.
				rsi, defined = 100, true
			}

			if defined {
				if rsi < s.OversoldThreshold {
					sig = domain.SignalBuy
				} else if rsi > s.OverboughtThreshold {
					sig = domain.SignalSell
				}
			}
		}

		signals[i] = domain.SignalPoint{TimestampMs: p.TimestampMs, Price: p.Price, Signal: sig}
	}
	return signals
}

// Ensure RSI implements Strategy
var _ Strategy = (*RSI)(nil)

package strategy

import (
	"fmt"
	"math"

	"strategy-lab/internal/domain"
)

// BollingerBands trades mean reversion against rolling-volatility bands:
// buy below the lower band, sell above the upper band.
type BollingerBands struct {
	Window int
	StdDev float64
}

// NewBollingerBands creates a new BollingerBands strategy.
// Returns ErrWindowTooSmall when window < 2 (the sample standard deviation
// needs at least two points) and ErrNonPositiveStdDev when stdDev <= 0.
func NewBollingerBands(window int, stdDev float64) (*BollingerBands, error) {
	if window < 2 {
		return nil, ErrWindowTooSmall
	}
	if stdDev <= 0 {
		return nil, ErrNonPositiveStdDev
	}
	return &BollingerBands{Window: window, StdDev: stdDev}, nil
}

// Name returns the strategy identifier including parameters.
func (s *BollingerBands) Name() string {
	return fmt.Sprintf("%s_%d_%g", TypeBollingerBands, s.Window, s.StdDev)
}

// GenerateSignals computes rolling mean +/- StdDev rolling standard
// deviations over Window. Steps without a full lookback have undefined bands
// and emit hold.
func (s *BollingerBands) GenerateSignals(prices domain.PriceSeries) domain.SignalSeries {
	values := make([]float64, len(prices))
	for i, p := range prices {
		values[i] = p.Price
	}

	means, stds := rollingMeanStd(values, s.Window)

	signals := make(domain.SignalSeries, len(prices))
	for i, p := range prices {
		sig := domain.SignalHold
		if !math.IsNaN(means[i]) {
			lower := means[i] - s.StdDev*stds[i]
			upper := means[i] + s.StdDev*stds[i]
			if p.Price < lower {
				sig = domain.SignalBuy
			} else if p.Price > upper {
				sig = domain.SignalSell
			}
		}
		signals[i] = domain.SignalPoint{TimestampMs: p.TimestampMs, Price: p.Price, Signal: sig}
	}
	return signals
}

// Ensure BollingerBands implements Strategy
var _ Strategy = (*BollingerBands)(nil)

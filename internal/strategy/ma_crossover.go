package strategy

import (
	"fmt"

	"strategy-lab/internal/domain"
)

// MACrossover trades on crossovers of two simple moving averages. Signals
// are the first difference of the short>long state, so each actual crossover
// emits exactly one trade event rather than a held position indicator.
type MACrossover struct {
	ShortWindow int
	LongWindow  int
}

// NewMACrossover creates a new MACrossover strategy.
// Returns ErrWindowOrder when shortWindow >= longWindow and
// ErrNonPositiveWindow when either window is < 1.
func NewMACrossover(shortWindow, longWindow int) (*MACrossover, error) {
	if shortWindow < 1 || longWindow < 1 {
		return nil, ErrNonPositiveWindow
	}
	if shortWindow >= longWindow {
		return nil, ErrWindowOrder
	}
	return &MACrossover{ShortWindow: shortWindow, LongWindow: longWindow}, nil
}

// Name returns the strategy identifier including parameters.
func (s *MACrossover) Name() string {
	return fmt.Sprintf("%s_%d_%d", TypeMACrossover, s.ShortWindow, s.LongWindow)
}

// GenerateSignals computes both moving averages with partial windows at the
// series start, derives the boolean short>long state (forced to 0 before
// index ShortWindow to suppress spurious early signals), and emits the first
// difference of that state: a rising edge is one buy, a falling edge one sell.
func (s *MACrossover) GenerateSignals(prices domain.PriceSeries) domain.SignalSeries {
	values := make([]float64, len(prices))
	for i, p := range prices {
		values[i] = p.Price
	}

	shortMavg := rollingMeanPartial(values, s.ShortWindow)
	longMavg := rollingMeanPartial(values, s.LongWindow)

	signals := make(domain.SignalSeries, len(prices))
	prevState := 0
	for i, p := range prices {
		state := 0
		if i >= s.ShortWindow && shortMavg[i] > longMavg[i] {
			state = 1
		}

		signals[i] = domain.SignalPoint{
			TimestampMs: p.TimestampMs,
			Price:       p.Price,
			Signal:      domain.Signal(state - prevState),
		}
		prevState = state
	}
	return signals
}

// Ensure MACrossover implements Strategy
var _ Strategy = (*MACrossover)(nil)

package strategy

import "strategy-lab/internal/domain"

// BuyAndHold buys on the first observation and never trades again.
// It is the parameterless baseline every other strategy is measured against.
type BuyAndHold struct{}

// NewBuyAndHold creates a new BuyAndHold strategy.
func NewBuyAndHold() *BuyAndHold {
	return &BuyAndHold{}
}

// Name returns "BUY_AND_HOLD".
func (s *BuyAndHold) Name() string {
	return TypeBuyAndHold
}

// GenerateSignals emits a single buy at index 0 and hold everywhere else.
func (s *BuyAndHold) GenerateSignals(prices domain.PriceSeries) domain.SignalSeries {
	signals := make(domain.SignalSeries, len(prices))
	for i, p := range prices {
		sig := domain.SignalHold
		if i == 0 {
			sig = domain.SignalBuy
		}
		signals[i] = domain.SignalPoint{TimestampMs: p.TimestampMs, Price: p.Price, Signal: sig}
	}
	return signals
}

// Ensure BuyAndHold implements Strategy
var _ Strategy = (*BuyAndHold)(nil)

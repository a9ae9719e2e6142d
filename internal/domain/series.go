package domain

// Signal is a discrete trade instruction for a single time step.
type Signal int

// Signal values
const (
	SignalSell Signal = -1
	SignalHold Signal = 0
	SignalBuy  Signal = 1
)

// String returns a human-readable signal name.
func (s Signal) String() string {
	switch s {
	case SignalBuy:
		return "BUY"
	case SignalSell:
		return "SELL"
	default:
		return "HOLD"
	}
}

// PricePoint is a single observation in a daily price series.
type PricePoint struct {
	TimestampMs int64   // Unix timestamp in milliseconds
	Price       float64 // adjusted closing price
}

// PriceSeries is an ordered sequence of price points. Timestamps are strictly
// increasing with no duplicates. A series is shared read-only across all
// candidate evaluations of an optimization run and must not be mutated.
type PriceSeries []PricePoint

// Validate checks ordering and positivity invariants.
func (ps PriceSeries) Validate() error {
	for i, p := range ps {
		if p.Price <= 0 {
			return ErrNonPositivePrice
		}
		if i > 0 && p.TimestampMs <= ps[i-1].TimestampMs {
			return ErrUnorderedSeries
		}
	}
	return nil
}

// SignalPoint pairs a price observation with the signal emitted at that step.
type SignalPoint struct {
	TimestampMs int64
	Price       float64
	Signal      Signal
}

// SignalSeries is aligned 1:1 with the price series it was generated from.
// It is produced fresh per evaluation and never mutated afterwards.
type SignalSeries []SignalPoint

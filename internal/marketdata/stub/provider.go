// Package stub provides an in-memory market data provider for tests and
// offline runs.
package stub

import (
	"context"
	"fmt"
	"math"
	"time"

	"strategy-lab/internal/domain"
	"strategy-lab/internal/marketdata"
)

const dayMs = 24 * 60 * 60 * 1000

// Provider implements marketdata.Provider from in-memory series.
type Provider struct {
	Histories map[string]domain.PriceSeries
	Quotes    map[string]float64
}

// NewProvider creates a new stub provider.
func NewProvider() *Provider {
	return &Provider{
		Histories: make(map[string]domain.PriceSeries),
		Quotes:    make(map[string]float64),
	}
}

var _ marketdata.Provider = (*Provider)(nil)

// GetHistory returns the stored series for a ticker clipped to [start, end].
func (p *Provider) GetHistory(_ context.Context, ticker string, start, end time.Time) (domain.PriceSeries, error) {
	series, ok := p.Histories[ticker]
	if !ok {
		return nil, fmt.Errorf("%w: %s", marketdata.ErrNoData, ticker)
	}

	startMs, endMs := start.UnixMilli(), end.UnixMilli()
	var out domain.PriceSeries
	for _, pt := range series {
		if pt.TimestampMs >= startMs && pt.TimestampMs <= endMs {
			out = append(out, pt)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %s", marketdata.ErrNoData, ticker)
	}
	return out, nil
}

// GetLivePrice returns the stored quote, falling back to the last history point.
func (p *Provider) GetLivePrice(_ context.Context, ticker string) (float64, error) {
	if quote, ok := p.Quotes[ticker]; ok {
		return quote, nil
	}
	if series, ok := p.Histories[ticker]; ok && len(series) > 0 {
		return series[len(series)-1].Price, nil
	}
	return 0, fmt.Errorf("%w: %s", marketdata.ErrNoData, ticker)
}

// AddHistory stores a price series for a ticker.
func (p *Provider) AddHistory(ticker string, series domain.PriceSeries) {
	p.Histories[ticker] = series
}

// AddQuote stores a live quote for a ticker.
func (p *Provider) AddQuote(ticker string, price float64) {
	p.Quotes[ticker] = price
}

// SyntheticHistory generates a deterministic oscillating daily series anchored
// at startMs. Useful for exercising strategies without a live API.
func SyntheticHistory(startMs int64, days int, base float64) domain.PriceSeries {
	out := make(domain.PriceSeries, days)
	for i := 0; i < days; i++ {
		price := base * (1 + 0.2*math.Sin(float64(i)/9) + 0.0005*float64(i))
		out[i] = domain.PricePoint{TimestampMs: startMs + int64(i)*dayMs, Price: price}
	}
	return out
}

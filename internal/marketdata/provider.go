// Package marketdata defines the price data source abstraction and its
// HTTP implementation.
package marketdata

import (
	"context"
	"errors"
	"time"

	"strategy-lab/internal/domain"
)

// ErrNoData is returned when a provider has no price history for a ticker.
var ErrNoData = errors.New("no market data for ticker")

// Provider supplies historical and live prices for tickers.
type Provider interface {
	// GetHistory retrieves the daily closing price series for a ticker over
	// [start, end]. The returned series is ordered by timestamp ascending.
	GetHistory(ctx context.Context, ticker string, start, end time.Time) (domain.PriceSeries, error)

	// GetLivePrice retrieves the most recent traded price for a ticker.
	GetLivePrice(ctx context.Context, ticker string) (float64, error)
}

// Quote is a single live price observation.
type Quote struct {
	Ticker      string  `json:"ticker"`
	Price       float64 `json:"price"`
	TimestampMs int64   `json:"timestamp_ms"`
}

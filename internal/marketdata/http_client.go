package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"strategy-lab/internal/domain"
	"strategy-lab/internal/observability"
)

// Default configuration values.
const (
	DefaultTimeout     = 30 * time.Second
	DefaultMaxRetries  = 3
	DefaultRetryDelay  = 1 * time.Second
	DefaultMaxDelay    = 10 * time.Second
	DefaultBackoffMult = 2.0
)

// HTTPProvider implements Provider against a REST price API.
type HTTPProvider struct {
	endpoint    string
	client      *http.Client
	maxRetries  int
	retryDelay  time.Duration
	maxDelay    time.Duration
	backoffMult float64
}

// ProviderOption configures HTTPProvider.
type ProviderOption func(*HTTPProvider)

// WithTimeout sets HTTP client timeout.
func WithTimeout(d time.Duration) ProviderOption {
	return func(p *HTTPProvider) {
		p.client.Timeout = d
	}
}

// WithMaxRetries sets maximum retry attempts.
func WithMaxRetries(n int) ProviderOption {
	return func(p *HTTPProvider) {
		p.maxRetries = n
	}
}

// WithRetryDelay sets initial retry delay.
func WithRetryDelay(d time.Duration) ProviderOption {
	return func(p *HTTPProvider) {
		p.retryDelay = d
	}
}

// WithMaxDelay sets maximum retry delay.
func WithMaxDelay(d time.Duration) ProviderOption {
	return func(p *HTTPProvider) {
		p.maxDelay = d
	}
}

// WithHTTPClient sets custom http.Client.
func WithHTTPClient(client *http.Client) ProviderOption {
	return func(p *HTTPProvider) {
		p.client = client
	}
}

// NewHTTPProvider creates a new HTTP market data provider.
func NewHTTPProvider(endpoint string, opts ...ProviderOption) *HTTPProvider {
	p := &HTTPProvider{
		endpoint:    endpoint,
		client:      &http.Client{Timeout: DefaultTimeout},
		maxRetries:  DefaultMaxRetries,
		retryDelay:  DefaultRetryDelay,
		maxDelay:    DefaultMaxDelay,
		backoffMult: DefaultBackoffMult,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var _ Provider = (*HTTPProvider)(nil)

// historyResponse is the raw API response for the history endpoint.
type historyResponse struct {
	Ticker string `json:"ticker"`
	Points []struct {
		TimestampMs int64   `json:"timestamp_ms"`
		Price       float64 `json:"price"`
	} `json:"points"`
}

// GetHistory retrieves the closing price series for a ticker.
func (p *HTTPProvider) GetHistory(ctx context.Context, ticker string, start, end time.Time) (domain.PriceSeries, error) {
	q := url.Values{}
	q.Set("ticker", ticker)
	q.Set("start_ms", strconv.FormatInt(start.UnixMilli(), 10))
	q.Set("end_ms", strconv.FormatInt(end.UnixMilli(), 10))

	var result historyResponse
	if err := p.get(ctx, "/v1/history", q, &result); err != nil {
		observability.RecordHistoryFetch("error")
		return nil, err
	}

	if len(result.Points) == 0 {
		observability.RecordHistoryFetch("empty")
		return nil, fmt.Errorf("%w: %s", ErrNoData, ticker)
	}

	series := make(domain.PriceSeries, len(result.Points))
	for i, pt := range result.Points {
		series[i] = domain.PricePoint{TimestampMs: pt.TimestampMs, Price: pt.Price}
	}
	if err := series.Validate(); err != nil {
		observability.RecordHistoryFetch("invalid")
		return nil, fmt.Errorf("history for %s: %w", ticker, err)
	}

	observability.RecordHistoryFetch("ok")
	return series, nil
}

// GetLivePrice retrieves the latest traded price for a ticker.
func (p *HTTPProvider) GetLivePrice(ctx context.Context, ticker string) (float64, error) {
	q := url.Values{}
	q.Set("ticker", ticker)

	var quote Quote
	if err := p.get(ctx, "/v1/price", q, &quote); err != nil {
		return 0, err
	}
	if quote.Price <= 0 {
		return 0, fmt.Errorf("%w: %s", ErrNoData, ticker)
	}
	return quote.Price, nil
}

// get performs a GET request with retries and exponential backoff.
func (p *HTTPProvider) get(ctx context.Context, path string, query url.Values, result interface{}) error {
	fullURL := p.endpoint + path + "?" + query.Encode()

	delay := p.retryDelay
	var lastErr error

	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			// Exponential backoff
			delay = time.Duration(float64(delay) * p.backoffMult)
			if delay > p.maxDelay {
				delay = p.maxDelay
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := p.client.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("http request: %w", err)
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("read response: %w", err)
			continue
		}

		switch {
		case resp.StatusCode == http.StatusNotFound:
			// Not retried: the ticker does not exist upstream.
			return fmt.Errorf("%w: %s", ErrNoData, query.Get("ticker"))
		case resp.StatusCode == http.StatusTooManyRequests:
			lastErr = fmt.Errorf("rate limited (429)")
			continue
		case resp.StatusCode != http.StatusOK:
			lastErr = fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
			continue
		}

		if err := json.Unmarshal(body, result); err != nil {
			lastErr = fmt.Errorf("unmarshal response: %w", err)
			continue
		}

		return nil
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

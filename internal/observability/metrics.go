// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Optimizer metrics
	CandidatesEvaluated *prometheus.CounterVec
	CandidatesInvalid   *prometheus.CounterVec
	CandidatesFailed    *prometheus.CounterVec
	OptimizationRuns    *prometheus.CounterVec
	OptimizationSeconds *prometheus.HistogramVec

	// Batch metrics
	TickersProcessed    *prometheus.CounterVec
	ParametersPersisted prometheus.Counter
	LastSuccessfulBatch prometheus.Gauge

	// Market data metrics
	HistoryFetches *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "strategy_lab"
	}

	return &Metrics{
		CandidatesEvaluated: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "optimizer",
			Name:      "candidates_evaluated_total",
			Help:      "Total number of candidate parameter sets evaluated successfully",
		}, []string{"strategy"}),
		CandidatesInvalid: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "optimizer",
			Name:      "candidates_invalid_total",
			Help:      "Total number of grid combinations excluded by validity predicates",
		}, []string{"strategy"}),
		CandidatesFailed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "optimizer",
			Name:      "candidates_failed_total",
			Help:      "Total number of candidate evaluations excluded by errors",
		}, []string{"strategy"}),
		OptimizationRuns: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "optimizer",
			Name:      "runs_total",
			Help:      "Total number of optimization runs",
		}, []string{"strategy"}),
		OptimizationSeconds: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "optimizer",
			Name:      "run_duration_seconds",
			Help:      "Optimization run duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120, 300},
		}, []string{"strategy"}),

		TickersProcessed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "batch",
			Name:      "tickers_processed_total",
			Help:      "Total number of tickers processed by status",
		}, []string{"status"}),
		ParametersPersisted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "batch",
			Name:      "parameters_persisted_total",
			Help:      "Total number of optimal parameter sets written to the store",
		}),
		LastSuccessfulBatch: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "batch",
			Name:      "last_successful_run_timestamp",
			Help:      "Unix timestamp of the last successful batch run",
		}),

		HistoryFetches: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "marketdata",
			Name:      "history_fetches_total",
			Help:      "Total number of history fetches by status",
		}, []string{"status"}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordCandidateEvaluated increments the evaluated candidates counter.
func RecordCandidateEvaluated(strategyType string) {
	DefaultMetrics.CandidatesEvaluated.WithLabelValues(strategyType).Inc()
}

// RecordCandidateInvalid increments the invalid candidates counter.
func RecordCandidateInvalid(strategyType string) {
	DefaultMetrics.CandidatesInvalid.WithLabelValues(strategyType).Inc()
}

// RecordCandidateFailed increments the failed candidates counter.
func RecordCandidateFailed(strategyType string) {
	DefaultMetrics.CandidatesFailed.WithLabelValues(strategyType).Inc()
}

// RecordOptimization records one completed optimization run.
func RecordOptimization(strategyType string, seconds float64) {
	DefaultMetrics.OptimizationRuns.WithLabelValues(strategyType).Inc()
	DefaultMetrics.OptimizationSeconds.WithLabelValues(strategyType).Observe(seconds)
}

// RecordTickerProcessed records a batch ticker outcome.
func RecordTickerProcessed(status string) {
	DefaultMetrics.TickersProcessed.WithLabelValues(status).Inc()
}

// RecordParametersPersisted increments the persisted parameters counter.
func RecordParametersPersisted() {
	DefaultMetrics.ParametersPersisted.Inc()
}

// RecordHistoryFetch records a market data fetch outcome.
func RecordHistoryFetch(status string) {
	DefaultMetrics.HistoryFetches.WithLabelValues(status).Inc()
}

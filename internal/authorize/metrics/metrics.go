package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the authorize module.
type Metrics struct {
	// Policy input fetch latencies by source
	FetchLatency *prometheus.HistogramVec

	// Decision outcomes by outcome and payment method
	DecisionOutcome *prometheus.CounterVec

	// Reason codes attached to decisions
	ReasonCodes *prometheus.CounterVec

	// Overall evaluation latency
	EvaluateLatency prometheus.Histogram
}

// New creates a new Metrics instance with all authorize module metrics registered.
func New() *Metrics {
	return &Metrics{
		FetchLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "spendgate_authorize_fetch_duration_seconds",
			Help:    "Duration of policy input fetches by source",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"source"}), // source: "ruleset", "program"

		DecisionOutcome: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "spendgate_authorize_outcomes_total",
			Help: "Total decision outcomes by outcome and payment method",
		}, []string{"outcome", "method"}),

		ReasonCodes: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "spendgate_authorize_reasons_total",
			Help: "Total policy reasons attached to decisions by code",
		}, []string{"code"}),

		EvaluateLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "spendgate_authorize_evaluate_duration_seconds",
			Help:    "Duration of full decision evaluation including input fetches",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
	}
}

// ObserveFetchLatency records the duration of fetching a policy input.
func (m *Metrics) ObserveFetchLatency(source string, d time.Duration) {
	if m != nil {
		m.FetchLatency.WithLabelValues(source).Observe(d.Seconds())
	}
}

// IncrementOutcome records a decision outcome.
func (m *Metrics) IncrementOutcome(outcome, method string) {
	if m != nil {
		m.DecisionOutcome.WithLabelValues(outcome, method).Inc()
	}
}

// IncrementReason records one policy reason on a decision.
func (m *Metrics) IncrementReason(code string) {
	if m != nil {
		m.ReasonCodes.WithLabelValues(code).Inc()
	}
}

// ObserveEvaluateLatency records the total evaluation duration.
func (m *Metrics) ObserveEvaluateLatency(d time.Duration) {
	if m != nil {
		m.EvaluateLatency.Observe(d.Seconds())
	}
}

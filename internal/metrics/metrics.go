// Package metrics exposes Prometheus counters and histograms for field
// evaluation, the observability layer the inference engine itself stays
// silent on (pkg/infer has no metrics dependency; only the CLI/MCP hosts
// that call it do).
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FieldEvaluations counts best_value_for calls by field and outcome.
	FieldEvaluations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "attrinfer",
		Subsystem: "field",
		Name:      "evaluations_total",
		Help:      "Total field evaluations by field name and outcome",
	}, []string{"field", "outcome"})

	// EvaluationLatency measures wall-clock time spent evaluating one
	// field for one entity instance.
	EvaluationLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "attrinfer",
		Subsystem: "field",
		Name:      "evaluation_latency_seconds",
		Help:      "Field evaluation latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	}, []string{"field"})

	// BestValueScore tracks the winning score a field's best_value
	// produced, useful for spotting parcels with uniformly low confidence.
	BestValueScore = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "attrinfer",
		Subsystem: "field",
		Name:      "best_value_score",
		Help:      "Distribution of the score attached to each field's best value",
		Buckets:   []float64{0, 0.05, 0.1, 0.2, 0.3, 0.5, 0.7, 0.9, 1.0},
	}, []string{"field"})
)

const (
	outcomeOK    = "ok"
	outcomeEmpty = "empty"
	outcomeError = "error"
)

// ObserveFieldEvaluation records one field evaluation outcome and its
// duration, starting from a time.Now() captured by the caller.
func ObserveFieldEvaluation(field string, started time.Time, ok bool, score float64, err error) {
	EvaluationLatency.WithLabelValues(field).Observe(time.Since(started).Seconds())

	switch {
	case err != nil:
		FieldEvaluations.WithLabelValues(field, outcomeError).Inc()
	case !ok:
		FieldEvaluations.WithLabelValues(field, outcomeEmpty).Inc()
	default:
		FieldEvaluations.WithLabelValues(field, outcomeOK).Inc()
		BestValueScore.WithLabelValues(field).Observe(score)
	}
}

package processor

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Exec modes.
const (
	ModeFilter  = "filter"
	ModeSearch  = "search"
	ModeInvalid = "invalid"
)

// Drop reasons.
const (
	ReasonClause     = "clause"
	ReasonMeta       = "meta"
	ReasonProjection = "projection"
)

// Metrics contains Prometheus metrics for query compilation.
type Metrics struct {
	execTotal    *prometheus.CounterVec
	execDuration *prometheus.HistogramVec
	droppedTotal *prometheus.CounterVec
}

var (
	metricsInstance *Metrics
	metricsOnce     sync.Once
)

// GetMetrics returns the singleton processor metrics instance.
func GetMetrics() *Metrics {
	metricsOnce.Do(func() {
		metricsInstance = &Metrics{
			execTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "qproc",
					Subsystem: "processor",
					Name:      "exec_total",
					Help:      "Total number of compiled queries",
				},
				[]string{"mode"},
			),
			execDuration: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Namespace: "qproc",
					Subsystem: "processor",
					Name:      "exec_duration_seconds",
					Help:      "Duration of query compilation in seconds",
					Buckets: []float64{
						.00001, .00005, .0001, .0005,
						.001, .005, .01, .05,
					},
				},
				[]string{"mode"},
			),
			droppedTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "qproc",
					Subsystem: "processor",
					Name:      "dropped_total",
					Help:      "Total number of query values dropped during compilation",
				},
				[]string{"reason"},
			),
		}
	})
	return metricsInstance
}

// MustRegister registers all processor metric collectors with the given
// Prometheus registry. promauto registers with the default registry; servers
// exposing a custom registry call this to publish the processor metrics.
func (m *Metrics) MustRegister(registry *prometheus.Registry) {
	registry.MustRegister(
		m.execTotal,
		m.execDuration,
		m.droppedTotal,
	)
}

// Init pre-initializes label combinations with zero values so the series
// appear in /metrics output immediately after startup. Idempotent.
func (m *Metrics) Init() {
	for _, mode := range []string{ModeFilter, ModeSearch, ModeInvalid} {
		m.execTotal.WithLabelValues(mode)
		m.execDuration.WithLabelValues(mode)
	}
	for _, reason := range []string{ReasonClause, ReasonMeta, ReasonProjection} {
		m.droppedTotal.WithLabelValues(reason)
	}
}

// RecordExec records one compilation.
func (m *Metrics) RecordExec(mode string, seconds float64) {
	m.execTotal.WithLabelValues(mode).Inc()
	m.execDuration.WithLabelValues(mode).Observe(seconds)
}

// RecordDropped records a dropped value.
func (m *Metrics) RecordDropped(reason string) {
	m.droppedTotal.WithLabelValues(reason).Inc()
}

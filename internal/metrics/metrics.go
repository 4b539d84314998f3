// Package metrics defines the Prometheus instruments for document mutations, rendering and export.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values for mutations.
const (
	OutcomeApplied  = "applied"
	OutcomeNotFound = "not_found"
	OutcomeInvalid  = "invalid"
	OutcomeConflict = "conflict"
)

// Metrics provides observability for the CV document lifecycle.
type Metrics struct {
	Mutations      *prometheus.CounterVec
	RenderDuration prometheus.Histogram
	RenderFailures prometheus.Counter
	ExportDuration prometheus.Histogram
	ExportFailures prometheus.Counter
	ExportBytes    prometheus.Histogram
}

// New creates the instruments and registers them with reg.
// Pass a fresh prometheus.NewRegistry() in tests to avoid duplicate registration.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Mutations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "cv_document_mutations_total",
			Help: "Document mutations by collection, operation and outcome",
		}, []string{"collection", "operation", "outcome"}),
		RenderDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "cv_render_duration_seconds",
			Help:    "Duration of HTML document rendering",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1},
		}),
		RenderFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "cv_render_failures_total",
			Help: "Total number of failed renders",
		}),
		ExportDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "cv_export_duration_seconds",
			Help:    "Duration of PDF export including browser startup",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 30},
		}),
		ExportFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "cv_export_failures_total",
			Help: "Total number of failed PDF exports",
		}),
		ExportBytes: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "cv_export_size_bytes",
			Help:    "Size of exported PDF documents",
			Buckets: prometheus.ExponentialBuckets(16*1024, 2, 8),
		}),
	}
}

// ObserveMutation records one store mutation.
func (m *Metrics) ObserveMutation(collection, operation, outcome string) {
	if m == nil {
		return
	}
	m.Mutations.WithLabelValues(collection, operation, outcome).Inc()
}

// ObserveRender records the duration of a render started at start.
func (m *Metrics) ObserveRender(start time.Time, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.RenderFailures.Inc()
		return
	}
	m.RenderDuration.Observe(time.Since(start).Seconds())
}

// ObserveExport records a finished export of size bytes started at start.
func (m *Metrics) ObserveExport(start time.Time, size int, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.ExportFailures.Inc()
		return
	}
	m.ExportDuration.Observe(time.Since(start).Seconds())
	m.ExportBytes.Observe(float64(size))
}

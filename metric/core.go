package metric

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics contains all platform-level metrics (not request-specific)
type Metrics struct {
	// Pipeline lifecycle metrics
	PipelinesCreated prometheus.Counter
	RunsStarted      *prometheus.CounterVec
	RunsFinished     *prometheus.CounterVec
	ActivePipelines  prometheus.Gauge
	RunDuration      prometheus.Histogram

	// Negotiation and validation metrics
	CapsChecks            *prometheus.CounterVec
	ValidationDiagnostics *prometheus.CounterVec

	// Documentation fetcher metrics
	DocFetches *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all platform metrics
func NewMetrics() *Metrics {
	return &Metrics{
		PipelinesCreated: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "pipewright",
				Subsystem: "pipelines",
				Name:      "created_total",
				Help:      "Total number of pipeline instances created",
			},
		),

		RunsStarted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "pipewright",
				Subsystem: "pipelines",
				Name:      "runs_started_total",
				Help:      "Total number of pipeline runs started",
			},
			[]string{"mode"},
		),

		RunsFinished: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "pipewright",
				Subsystem: "pipelines",
				Name:      "runs_finished_total",
				Help:      "Total number of pipeline runs reaching a terminal state",
			},
			[]string{"state"},
		),

		ActivePipelines: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "pipewright",
				Subsystem: "pipelines",
				Name:      "active",
				Help:      "Number of pipeline instances currently running or paused",
			},
		),

		RunDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "pipewright",
				Subsystem: "pipelines",
				Name:      "run_duration_seconds",
				Help:      "Pipeline run duration from start to terminal state in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.1, 2, 12),
			},
		),

		CapsChecks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "pipewright",
				Subsystem: "negotiate",
				Name:      "caps_checks_total",
				Help:      "Total number of caps compatibility checks by verdict",
			},
			[]string{"verdict"},
		),

		ValidationDiagnostics: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "pipewright",
				Subsystem: "validate",
				Name:      "diagnostics_total",
				Help:      "Total number of validation diagnostics by kind",
			},
			[]string{"kind"},
		),

		DocFetches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "pipewright",
				Subsystem: "docs",
				Name:      "fetches_total",
				Help:      "Total number of element documentation fetches by outcome",
			},
			[]string{"outcome"},
		),
	}
}

// RecordRunStarted increments the run counter for a mode and the active gauge
func (m *Metrics) RecordRunStarted(mode string) {
	m.RunsStarted.WithLabelValues(mode).Inc()
	m.ActivePipelines.Inc()
}

// RecordRunFinished increments the terminal-state counter, observes the run
// duration, and decrements the active gauge
func (m *Metrics) RecordRunFinished(state string, seconds float64) {
	m.RunsFinished.WithLabelValues(state).Inc()
	m.RunDuration.Observe(seconds)
	m.ActivePipelines.Dec()
}

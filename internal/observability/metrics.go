package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus instruments exported by a classification
// run. Unlike a long-lived server, NewMetrics takes its own registry
// rather than registering against prometheus's global default registry:
// a CLI run that builds one Metrics per invocation (and tests that build
// several within one process) would otherwise panic on duplicate
// registration.
type Metrics struct {
	registry *prometheus.Registry

	FoldsTotal        *prometheus.CounterVec
	FoldDuration      *prometheus.HistogramVec
	DatasetRows       prometheus.Gauge
	ExperimentAccuracy *prometheus.GaugeVec
	ExperimentsSkipped prometheus.Counter
}

// NewMetrics creates and registers the classification-run metrics
// against a fresh registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		FoldsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "riona_folds_total",
				Help: "Total number of leave-one-out folds evaluated, by algorithm and mode",
			},
			[]string{"algorithm", "mode"},
		),
		FoldDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "riona_fold_duration_seconds",
				Help:    "Duration of a single leave-one-out fold",
				Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1, 5},
			},
			[]string{"algorithm", "mode"},
		),
		DatasetRows: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "riona_dataset_rows",
				Help: "Number of instances in the loaded dataset",
			},
		),
		ExperimentAccuracy: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "riona_experiment_accuracy",
				Help: "Leave-one-out accuracy of the most recently completed experiment, by algorithm, mode, k, and voting rule",
			},
			[]string{"algorithm", "mode", "k", "rule"},
		),
		ExperimentsSkipped: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "riona_experiments_skipped_total",
				Help: "Total number of experiments skipped because k exceeded the dataset size",
			},
		),
	}

	registry.MustRegister(m.FoldsTotal, m.FoldDuration, m.DatasetRows, m.ExperimentAccuracy, m.ExperimentsSkipped)
	return m
}

// Registry returns the registry metrics were registered against, for
// serving on --metrics-addr.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordFold records one leave-one-out fold's duration.
func (m *Metrics) RecordFold(algorithm, mode string, duration time.Duration) {
	m.FoldsTotal.WithLabelValues(algorithm, mode).Inc()
	m.FoldDuration.WithLabelValues(algorithm, mode).Observe(duration.Seconds())
}

// SetDatasetRows records the size of the loaded dataset.
func (m *Metrics) SetDatasetRows(rows int) {
	m.DatasetRows.Set(float64(rows))
}

// RecordExperimentAccuracy records one experiment's leave-one-out
// accuracy under a given voting rule.
func (m *Metrics) RecordExperimentAccuracy(algorithm, mode, k, rule string, accuracy float64) {
	m.ExperimentAccuracy.WithLabelValues(algorithm, mode, k, rule).Set(accuracy)
}

// RecordExperimentSkipped records an experiment skipped for k exceeding
// the dataset size.
func (m *Metrics) RecordExperimentSkipped() {
	m.ExperimentsSkipped.Inc()
}

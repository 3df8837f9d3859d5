package observability

import (
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
)

func TestNewMetricsRegistersDistinctRegistries(t *testing.T) {
	// Two Metrics instances must not panic from duplicate registration,
	// which the teacher's promauto/global-registry pattern would trigger
	// if called twice within one process (as repeated test runs do).
	a := NewMetrics()
	b := NewMetrics()
	if a.Registry() == b.Registry() {
		t.Fatalf("expected independent registries")
	}
}

func TestRecordFoldIncrementsCounterAndHistogram(t *testing.T) {
	m := NewMetrics()
	m.RecordFold("RIONA", "g", 2*time.Millisecond)
	m.RecordFold("RIONA", "g", 3*time.Millisecond)

	mf, err := m.Registry().Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}

	var foundCounter, foundHist bool
	for _, f := range mf {
		switch f.GetName() {
		case "riona_folds_total":
			foundCounter = true
			for _, metric := range f.GetMetric() {
				if metric.GetCounter().GetValue() != 2 {
					t.Errorf("expected counter value 2, got %v", metric.GetCounter().GetValue())
				}
			}
		case "riona_fold_duration_seconds":
			foundHist = true
			for _, metric := range f.GetMetric() {
				if metric.GetHistogram().GetSampleCount() != 2 {
					t.Errorf("expected 2 histogram samples, got %d", metric.GetHistogram().GetSampleCount())
				}
			}
		}
	}
	if !foundCounter {
		t.Errorf("riona_folds_total not found in registry")
	}
	if !foundHist {
		t.Errorf("riona_fold_duration_seconds not found in registry")
	}
}

func TestSetDatasetRowsAndExperimentAccuracy(t *testing.T) {
	m := NewMetrics()
	m.SetDatasetRows(150)
	m.RecordExperimentAccuracy("RIA", "g", "3", "standard", 0.93)
	m.RecordExperimentSkipped()

	mf, err := m.Registry().Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}
	byName := make(map[string]*dto.MetricFamily)
	for _, f := range mf {
		byName[f.GetName()] = f
	}

	rows := byName["riona_dataset_rows"]
	if rows == nil || rows.GetMetric()[0].GetGauge().GetValue() != 150 {
		t.Errorf("expected riona_dataset_rows=150")
	}

	acc := byName["riona_experiment_accuracy"]
	if acc == nil || acc.GetMetric()[0].GetGauge().GetValue() != 0.93 {
		t.Errorf("expected riona_experiment_accuracy=0.93")
	}

	skipped := byName["riona_experiments_skipped_total"]
	if skipped == nil || skipped.GetMetric()[0].GetCounter().GetValue() != 1 {
		t.Errorf("expected riona_experiments_skipped_total=1")
	}
}

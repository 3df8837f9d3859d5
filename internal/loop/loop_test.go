package loop

import (
	"sync"
	"testing"

	"github.com/michaltopolski/riona-go/internal/dataset"
	"github.com/michaltopolski/riona-go/internal/metric"
)

func newDataset(types []dataset.AttrKind, labels []string) *dataset.Dataset {
	ds := &dataset.Dataset{Types: types, DecisionIndex: make(map[string]int)}
	for _, l := range labels {
		if _, ok := ds.DecisionIndex[l]; !ok {
			ds.DecisionIndex[l] = len(ds.DecisionValues)
			ds.DecisionValues = append(ds.DecisionValues, l)
		}
	}
	return ds
}

// fourRowFixture is scenario S1 again: a single nominal attribute that
// perfectly separates two classes of two rows each.
func fourRowFixture() *dataset.Dataset {
	ds := newDataset([]dataset.AttrKind{dataset.Nominal}, []string{"A", "A", "B", "B"})
	rows := []struct{ color, decision string }{
		{"red", "A"}, {"red", "A"}, {"blue", "B"}, {"blue", "B"},
	}
	for i, r := range rows {
		ds.Rows = append(ds.Rows, dataset.Instance{
			ID:       i + 1,
			Attrs:    []dataset.AttributeValue{{Raw: r.color}},
			Decision: r.decision,
		})
	}
	return ds
}

func TestRunConfusionMatrixRowSumsEqualClassSizes(t *testing.T) {
	ds := fourRowFixture()
	cfg := metric.DefaultDistanceConfig(false)
	exps := []Experiment{{Algorithm: KNN, Mode: Global, K: 1, N: -1}}

	results := Run(ds, cfg, exps, RunConfig{}, nil)
	if len(results) != 1 {
		t.Fatalf("expected 1 experiment result, got %d", len(results))
	}
	r := results[0]
	if r.Skipped() {
		t.Fatalf("experiment unexpectedly skipped, kEff=%d", r.KEff)
	}

	classSizes := ds.ClassSizes(ds.AllIndices())
	for i, want := range classSizes {
		var gotStd, gotNorm int
		for j := range r.ConfusionStd[i] {
			gotStd += r.ConfusionStd[i][j]
			gotNorm += r.ConfusionNorm[i][j]
		}
		if gotStd != want {
			t.Errorf("confusion-std row %d sums to %d, want %d (class size)", i, gotStd, want)
		}
		if gotNorm != want {
			t.Errorf("confusion-norm row %d sums to %d, want %d (class size)", i, gotNorm, want)
		}
	}

	if len(r.Folds) != len(ds.Rows) {
		t.Fatalf("expected %d fold results, got %d", len(ds.Rows), len(r.Folds))
	}
	for i, f := range r.Folds {
		if f.PredictedStandard != ds.Rows[i].Decision {
			t.Errorf("row %d: predicted %s, want %s", i, f.PredictedStandard, ds.Rows[i].Decision)
		}
	}
}

func TestRunClampsKWhenKExceedsDatasetSize(t *testing.T) {
	ds := fourRowFixture() // 4 rows -> max usable k is 3
	cfg := metric.DefaultDistanceConfig(false)
	exps := []Experiment{{Algorithm: KNN, Mode: Global, K: 10, N: -1}}

	results := Run(ds, cfg, exps, RunConfig{}, nil)
	r := results[0]
	if r.KEff != 3 {
		t.Errorf("expected kEff clamped to len(rows)-1=3, got %d", r.KEff)
	}
}

func TestRunSkipsWhenEvenClampedKIsZero(t *testing.T) {
	// A 1-row dataset has no possible training set, so maxK = 0 and every
	// requested k clamps to 0: the experiment must be marked skipped and
	// produce no confusion matrices or fold results.
	ds := newDataset([]dataset.AttrKind{dataset.Nominal}, []string{"A"})
	ds.Rows = append(ds.Rows, dataset.Instance{
		ID:       1,
		Attrs:    []dataset.AttributeValue{{Raw: "red"}},
		Decision: "A",
	})
	cfg := metric.DefaultDistanceConfig(false)
	exps := []Experiment{{Algorithm: RIONA, Mode: Global, K: 1}}

	results := Run(ds, cfg, exps, RunConfig{}, nil)
	r := results[0]
	if !r.Skipped() {
		t.Fatalf("expected experiment to be skipped, kEff=%d", r.KEff)
	}
	if r.ConfusionStd != nil || r.Folds != nil {
		t.Errorf("expected no confusion matrix or folds for a skipped experiment")
	}
}

func TestRunLocalModeRebuildsStatsPerFold(t *testing.T) {
	ds := fourRowFixture()
	cfg := metric.DefaultDistanceConfig(false)
	exps := []Experiment{{Algorithm: RIA, Mode: Local, K: 1}}

	results := Run(ds, cfg, exps, RunConfig{}, nil)
	r := results[0]
	for i, f := range r.Folds {
		if f.PredictedStandard != ds.Rows[i].Decision {
			t.Errorf("local-mode RIA row %d: predicted %s, want %s", i, f.PredictedStandard, ds.Rows[i].Decision)
		}
	}
}

func TestRunDeterministicUnderWorkerCount(t *testing.T) {
	ds := fourRowFixture()
	cfg := metric.DefaultDistanceConfig(false)
	exps := []Experiment{{Algorithm: KNN, Mode: Global, K: 1, N: -1}}

	seq := Run(ds, cfg, exps, RunConfig{Workers: 1}, nil)
	par := Run(ds, cfg, exps, RunConfig{Workers: 4}, nil)

	for i := range seq[0].Folds {
		if seq[0].Folds[i].PredictedStandard != par[0].Folds[i].PredictedStandard {
			t.Errorf("fold %d: sequential=%s concurrent=%s, want matching predictions regardless of worker count",
				i, seq[0].Folds[i].PredictedStandard, par[0].Folds[i].PredictedStandard)
		}
	}
	for i := range seq[0].ConfusionStd {
		for j := range seq[0].ConfusionStd[i] {
			if seq[0].ConfusionStd[i][j] != par[0].ConfusionStd[i][j] {
				t.Errorf("confusion[%d][%d]: sequential=%d concurrent=%d", i, j, seq[0].ConfusionStd[i][j], par[0].ConfusionStd[i][j])
			}
		}
	}
}

func TestRunProgressCallbackFiresOncePerFold(t *testing.T) {
	ds := fourRowFixture()
	cfg := metric.DefaultDistanceConfig(false)
	exps := []Experiment{{Algorithm: KNN, Mode: Global, K: 1, N: -1}}

	var count int
	var mu sync.Mutex
	Run(ds, cfg, exps, RunConfig{Workers: 2}, func(expIdx, foldIdx, total int) {
		mu.Lock()
		count++
		mu.Unlock()
		if total != len(ds.Rows) {
			t.Errorf("expected total=%d, got %d", len(ds.Rows), total)
		}
	})
	if count != len(ds.Rows) {
		t.Errorf("expected %d progress callbacks, got %d", len(ds.Rows), count)
	}
}

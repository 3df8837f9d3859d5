// Package classify composes the metric, rule, and vote primitives into
// the three classifier variants: RIONA, RIA, and a two-stage k+NN.
package classify

import (
	"github.com/michaltopolski/riona-go/internal/dataset"
	"github.com/michaltopolski/riona-go/internal/metric"
	"github.com/michaltopolski/riona-go/internal/rule"
	"github.com/michaltopolski/riona-go/internal/vote"
)

// Result is a single test instance's classification: both vote-rule
// predictions and the neighbor list that produced them.
type Result struct {
	PredictedStandard   string
	PredictedNormalized string
	KNNList             []metric.Neighbor
}

func aggregate(ds *dataset.Dataset, support, classSizes []int) (standard, normalized string) {
	standard = vote.ChooseClass(ds.DecisionValues, support, classSizes, false)
	normalized = vote.ChooseClass(ds.DecisionValues, support, classSizes, true)
	return
}

// RIONA classifies testIdx by: computing its k nearest neighbors under
// stats, then counting each neighbor as support for its decision iff the
// g-rule it induces with the test instance is consistent over the
// neighborhood itself. The returned neighbor list is N verbatim.
func RIONA(ds *dataset.Dataset, cfg metric.DistanceConfig, stats metric.Stats, trainingIdx []int, testIdx, k int) Result {
	test := ds.Rows[testIdx]
	neighbors := metric.Neighbors(ds, stats, cfg, test, trainingIdx, k)
	nIdx := metric.Indices(neighbors)

	support := make([]int, ds.NumClasses())
	for _, idx := range nIdx {
		training := ds.Rows[idx]
		if rule.IsConsistent(ds, stats, cfg, test, training, nIdx) {
			support[ds.ClassOf(idx)]++
		}
	}

	classSizes := ds.ClassSizes(trainingIdx)
	std, norm := aggregate(ds, support, classSizes)
	return Result{PredictedStandard: std, PredictedNormalized: norm, KNNList: neighbors}
}

// RIA classifies testIdx by counting every training row whose g-rule is
// consistent over the whole training set as support for its decision.
// kForReport is not consumed by the vote; it only sizes the neighbor list
// attached for the kNN output file, a reporting convention the original
// implementation preserves even though RIA's decision logic ignores k.
func RIA(ds *dataset.Dataset, cfg metric.DistanceConfig, stats metric.Stats, trainingIdx []int, testIdx, kForReport int) Result {
	test := ds.Rows[testIdx]

	support := make([]int, ds.NumClasses())
	for _, idx := range trainingIdx {
		training := ds.Rows[idx]
		if rule.IsConsistent(ds, stats, cfg, test, training, trainingIdx) {
			support[ds.ClassOf(idx)]++
		}
	}

	classSizes := ds.ClassSizes(trainingIdx)
	std, norm := aggregate(ds, support, classSizes)
	knnList := metric.Neighbors(ds, stats, cfg, test, trainingIdx, kForReport)
	return Result{PredictedStandard: std, PredictedNormalized: norm, KNNList: knnList}
}

// KPlusNN classifies testIdx with the two-stage procedure: a preliminary
// neighborhood of size n (clamped to at least k, then to at most
// len(trainingIdx), in that order) is selected under baseStats; a doubly
// local Stats is re-induced from that neighborhood alone; then the final
// k neighbors are recomputed under the local metric and voted on.
func KPlusNN(ds *dataset.Dataset, cfg metric.DistanceConfig, baseStats metric.Stats, trainingIdx []int, testIdx, k, n int) Result {
	test := ds.Rows[testIdx]

	if n < k {
		n = k
	}
	if n > len(trainingIdx) {
		n = len(trainingIdx)
	}

	prelim := metric.Neighbors(ds, baseStats, cfg, test, trainingIdx, n)
	prelimIdx := metric.Indices(prelim)

	localStats := metric.BuildStats(ds, prelimIdx, cfg)
	final := metric.Neighbors(ds, localStats, cfg, test, prelimIdx, k)

	support := make([]int, ds.NumClasses())
	for _, nb := range final {
		support[ds.ClassOf(nb.Index)]++
	}

	classSizes := ds.ClassSizes(trainingIdx)
	std, norm := aggregate(ds, support, classSizes)
	return Result{PredictedStandard: std, PredictedNormalized: norm, KNNList: final}
}

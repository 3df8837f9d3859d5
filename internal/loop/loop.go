// Package loop drives leave-one-out cross-validation across a configured
// set of (algorithm, mode, k) triples, dispatching each fold to one of
// the three classifier variants and accumulating confusion matrices.
package loop

import (
	"runtime"
	"sync"

	"github.com/michaltopolski/riona-go/internal/classify"
	"github.com/michaltopolski/riona-go/internal/dataset"
	"github.com/michaltopolski/riona-go/internal/metric"
)

// Algorithm selects which classifier variant an Experiment runs.
type Algorithm int

const (
	RIONA Algorithm = iota
	RIA
	KNN
)

func (a Algorithm) String() string {
	switch a {
	case RIONA:
		return "RIONA"
	case RIA:
		return "RIA"
	case KNN:
		return "KNN"
	default:
		return "UNKNOWN"
	}
}

// Mode selects whether an Experiment's base Stats is the dataset-wide
// global Stats or rebuilt per fold from the training set.
type Mode int

const (
	Global Mode = iota
	Local
)

func (m Mode) String() string {
	if m == Global {
		return "g"
	}
	return "l"
}

// Experiment is one (algorithm, mode, k) triple to evaluate.
type Experiment struct {
	Algorithm Algorithm
	Mode      Mode
	K         int
	// N is the preliminary-neighborhood size for KNN; -1 means "use the
	// training-set size", resolved per fold once trainingIdx is known.
	N int
}

// FoldResult is one row's outcome within an experiment run.
type FoldResult struct {
	PredictedStandard   string
	PredictedNormalized string
	Neighbors           []metric.Neighbor
}

// ExperimentResult is the full outcome of one Experiment: kEff (k after
// clamping to the dataset size), per-row predictions and neighbor lists
// in row order, and the two confusion matrices.
type ExperimentResult struct {
	Experiment      Experiment
	KEff            int
	Folds           []FoldResult
	ConfusionStd    [][]int
	ConfusionNorm   [][]int
}

// Skipped reports whether this experiment produced no output because
// kEff clamped below 1 (dataset too small for the requested k).
func (r ExperimentResult) Skipped() bool {
	return r.KEff < 1
}

// Progress is called after every fold completes, in no particular order
// when Workers > 1; implementations that need ordered progress should
// track completion counts, not fold identity.
type Progress func(expIndex, foldIndex, totalFolds int)

// RunConfig bounds the driver's optional fold-level parallelism.
type RunConfig struct {
	// Workers caps the number of folds evaluated concurrently within one
	// experiment. 0 or 1 means fully sequential (the default, and always
	// safe); values above runtime.NumCPU() are clamped down to it.
	Workers int
}

// Run builds the global Stats once, then evaluates every experiment in
// order, each via leave-one-out over the full dataset. No experiment's
// fold loop depends on another experiment's results, so RunConfig.Workers
// only bounds concurrency *within* a single experiment's fold loop; one
// experiment always finishes (in fold order, in its ConfusionStd/Norm)
// before its ExperimentResult is appended.
func Run(ds *dataset.Dataset, cfg metric.DistanceConfig, experiments []Experiment, runCfg RunConfig, progress Progress) []ExperimentResult {
	globalStats := metric.BuildStats(ds, ds.AllIndices(), cfg)

	results := make([]ExperimentResult, 0, len(experiments))
	for expIdx, exp := range experiments {
		results = append(results, runExperiment(ds, cfg, globalStats, exp, expIdx, runCfg, progress))
	}
	return results
}

func runExperiment(ds *dataset.Dataset, cfg metric.DistanceConfig, globalStats metric.Stats, exp Experiment, expIdx int, runCfg RunConfig, progress Progress) ExperimentResult {
	n := len(ds.Rows)
	maxK := n - 1
	kEff := exp.K
	if kEff > maxK {
		kEff = maxK
	}

	result := ExperimentResult{Experiment: exp, KEff: kEff}
	if kEff < 1 {
		return result
	}

	d := ds.NumClasses()
	result.ConfusionStd = newMatrix(d)
	result.ConfusionNorm = newMatrix(d)
	result.Folds = make([]FoldResult, n)

	workers := runCfg.Workers
	if workers < 1 {
		workers = 1
	}
	if max := runtime.NumCPU(); workers > max {
		workers = max
	}

	foldIdx := make(chan int)
	var wg sync.WaitGroup
	var mu sync.Mutex // guards ConfusionStd/ConfusionNorm

	worker := func() {
		defer wg.Done()
		for i := range foldIdx {
			fold := runFold(ds, cfg, globalStats, exp, kEff, i)
			result.Folds[i] = fold

			trueIdx := ds.ClassOf(i)
			stdIdx := ds.DecisionIndex[fold.PredictedStandard]
			normIdx := ds.DecisionIndex[fold.PredictedNormalized]

			mu.Lock()
			result.ConfusionStd[trueIdx][stdIdx]++
			result.ConfusionNorm[trueIdx][normIdx]++
			mu.Unlock()

			if progress != nil {
				progress(expIdx, i, n)
			}
		}
	}

	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go worker()
	}
	for i := 0; i < n; i++ {
		foldIdx <- i
	}
	close(foldIdx)
	wg.Wait()

	return result
}

func runFold(ds *dataset.Dataset, cfg metric.DistanceConfig, globalStats metric.Stats, exp Experiment, kEff, testIdx int) FoldResult {
	trainingIdx := make([]int, 0, len(ds.Rows)-1)
	for j := range ds.Rows {
		if j != testIdx {
			trainingIdx = append(trainingIdx, j)
		}
	}

	baseStats := globalStats
	if exp.Mode == Local {
		baseStats = metric.BuildStats(ds, trainingIdx, cfg)
	}

	var res classify.Result
	switch exp.Algorithm {
	case RIONA:
		res = classify.RIONA(ds, cfg, baseStats, trainingIdx, testIdx, kEff)
	case RIA:
		res = classify.RIA(ds, cfg, baseStats, trainingIdx, testIdx, kEff)
	case KNN:
		n := exp.N
		if n < 0 {
			n = len(trainingIdx)
		}
		res = classify.KPlusNN(ds, cfg, baseStats, trainingIdx, testIdx, kEff, n)
	}

	return FoldResult{
		PredictedStandard:   res.PredictedStandard,
		PredictedNormalized: res.PredictedNormalized,
		Neighbors:           res.KNNList,
	}
}

func newMatrix(d int) [][]int {
	m := make([][]int, d)
	for i := range m {
		m[i] = make([]int, d)
	}
	return m
}

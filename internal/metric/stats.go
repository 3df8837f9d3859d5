// Package metric implements the heterogeneous distance space: per-attribute
// numeric ranges, the Simplified Value Difference Metric (SVDM) for
// nominal attributes, and the k-nearest-neighbor selector built on top of
// both. Stats are always derived from an explicit row subset so that the
// same code builds a global, a per-fold local, or a doubly-local
// (k+NN preliminary-neighborhood) metric.
package metric

import "github.com/michaltopolski/riona-go/internal/dataset"

// DistanceConfig controls the SVDM variant and the missing-value
// penalties. svdmPrime halves the nominal distance sum into [0,1]; the
// recognized default missing-nominal penalty tracks that choice.
type DistanceConfig struct {
	SVDMPrime      bool
	MissingNominal float64
	MissingNumeric float64
}

// DefaultDistanceConfig returns the config for either SVDM ([0,2], missing
// penalty 2.0) or SVDM' ([0,1], missing penalty 1.0); MissingNumeric is
// always 1.0 on the normalized numeric scale.
func DefaultDistanceConfig(svdmPrime bool) DistanceConfig {
	cfg := DistanceConfig{SVDMPrime: svdmPrime, MissingNumeric: 1.0}
	if svdmPrime {
		cfg.MissingNominal = 1.0
	} else {
		cfg.MissingNominal = 2.0
	}
	return cfg
}

// NumericStat holds the observed range of a numeric attribute over a
// subset. When the subset has no non-missing value, HasValue is false and
// Min/Max/Range are all zero.
type NumericStat struct {
	Min, Max, Range float64
	HasValue        bool
}

// NominalStat holds, for one nominal attribute, the distinct tokens
// observed in a subset (in first-appearance order) and their pairwise
// SVDM distance matrix.
type NominalStat struct {
	Values []string       // index -> token, first-appearance order
	Index  map[string]int // token -> index
	Dist   [][]float64    // symmetric, zero diagonal
}

// Stats is the pair of per-attribute numeric and nominal statistics
// derived from one row subset. Immutable once built.
type Stats struct {
	Numeric []NumericStat // len == number of conditional attributes; inert entries on nominal slots
	Nominal []NominalStat // len == number of conditional attributes; inert entries on numeric slots
}

// BuildStats derives Stats exclusively from the rows addressed by subset.
// It never errors: an empty subset yields all-zero numeric stats and
// empty nominal value sets.
func BuildStats(ds *dataset.Dataset, subset []int, cfg DistanceConfig) Stats {
	m := ds.NumAttrs()
	stats := Stats{
		Numeric: make([]NumericStat, m),
		Nominal: make([]NominalStat, m),
	}

	for a := 0; a < m; a++ {
		switch ds.Types[a] {
		case dataset.Numeric:
			stats.Numeric[a] = buildNumericStat(ds, subset, a)
		case dataset.Nominal:
			stats.Nominal[a] = buildNominalStat(ds, subset, a, cfg)
		}
	}
	return stats
}

func buildNumericStat(ds *dataset.Dataset, subset []int, attr int) NumericStat {
	var ns NumericStat
	for _, idx := range subset {
		v := ds.Rows[idx].Attrs[attr]
		if v.Missing {
			continue
		}
		if !ns.HasValue {
			ns.Min, ns.Max = v.Num, v.Num
			ns.HasValue = true
			continue
		}
		if v.Num < ns.Min {
			ns.Min = v.Num
		}
		if v.Num > ns.Max {
			ns.Max = v.Num
		}
	}
	if !ns.HasValue {
		ns.Min, ns.Max, ns.Range = 0, 0, 0
	} else {
		ns.Range = ns.Max - ns.Min
	}
	return ns
}

func buildNominalStat(ds *dataset.Dataset, subset []int, attr int, cfg DistanceConfig) NominalStat {
	d := ds.NumClasses()

	counts := make(map[string][]int)
	totals := make(map[string]int)
	var values []string
	index := make(map[string]int)

	for _, idx := range subset {
		inst := ds.Rows[idx]
		v := inst.Attrs[attr]
		if v.Missing {
			continue
		}
		if _, seen := index[v.Raw]; !seen {
			index[v.Raw] = len(values)
			values = append(values, v.Raw)
			counts[v.Raw] = make([]int, d)
		}
		cls := ds.DecisionIndex[inst.Decision]
		counts[v.Raw][cls]++
		totals[v.Raw]++
	}

	n := len(values)
	dist := make([][]float64, n)
	for i := range dist {
		dist[i] = make([]float64, n)
	}

	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			sum := svdmSum(counts[values[i]], totals[values[i]], counts[values[j]], totals[values[j]], d)
			if cfg.SVDMPrime {
				sum *= 0.5
			}
			dist[i][j] = sum
			dist[j][i] = sum
		}
	}

	return NominalStat{Values: values, Index: index, Dist: dist}
}

func svdmSum(countsI []int, totalI int, countsJ []int, totalJ int, d int) float64 {
	var sum float64
	for c := 0; c < d; c++ {
		var pi, pj float64
		if totalI != 0 {
			pi = float64(countsI[c]) / float64(totalI)
		}
		if totalJ != 0 {
			pj = float64(countsJ[c]) / float64(totalJ)
		}
		diff := pi - pj
		if diff < 0 {
			diff = -diff
		}
		sum += diff
	}
	return sum
}

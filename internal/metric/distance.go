package metric

import "github.com/michaltopolski/riona-go/internal/dataset"

// NominalDistance looks up the SVDM distance between two nominal tokens
// under ns. A token absent from ns.Index — whether because the cell was
// missing when ns was built or because the value was never observed in
// that subset — collapses to cfg.MissingNominal.
func NominalDistance(ns NominalStat, a, b string, cfg DistanceConfig) float64 {
	ia, ok := ns.Index[a]
	if !ok {
		return cfg.MissingNominal
	}
	ib, ok := ns.Index[b]
	if !ok {
		return cfg.MissingNominal
	}
	return ns.Dist[ia][ib]
}

// InstanceDistance sums unweighted per-attribute contributions between x
// and y. The result is not normalized by attribute count; it is merely
// non-negative.
func InstanceDistance(ds *dataset.Dataset, stats Stats, cfg DistanceConfig, x, y dataset.Instance) float64 {
	var sum float64
	for a, kind := range ds.Types {
		vx, vy := x.Attrs[a], y.Attrs[a]
		switch kind {
		case dataset.Numeric:
			if vx.Missing || vy.Missing {
				sum += cfg.MissingNumeric
				continue
			}
			ns := stats.Numeric[a]
			if !ns.HasValue || ns.Range == 0 {
				continue
			}
			diff := vx.Num - vy.Num
			if diff < 0 {
				diff = -diff
			}
			sum += diff / ns.Range
		case dataset.Nominal:
			if vx.Missing || vy.Missing {
				sum += cfg.MissingNominal
				continue
			}
			sum += NominalDistance(stats.Nominal[a], vx.Raw, vy.Raw, cfg)
		}
	}
	return sum
}

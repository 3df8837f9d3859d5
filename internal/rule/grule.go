// Package rule implements the generalized-rule ("g-rule") consistency
// test underlying RIA and RIONA: the per-attribute predicate induced by a
// (test, training) pair, and whether it survives a verification pass over
// a candidate set.
package rule

import (
	"github.com/michaltopolski/riona-go/internal/dataset"
	"github.com/michaltopolski/riona-go/internal/metric"
)

// eps is the SVDM-comparison tolerance; nominal g-rule satisfaction
// compares floating-point distances and must not use exact equality.
const eps = 1e-12

// Satisfies reports whether candidate is covered by the g-rule induced by
// (test, training): for each attribute, a missing cell on any of the three
// sides removes that attribute's constraint; a numeric attribute requires
// candidate's value to fall within [min(test,training), max(test,training)];
// a nominal attribute requires candidate to be no farther from test (in
// SVDM) than training is from test.
func Satisfies(ds *dataset.Dataset, stats metric.Stats, cfg metric.DistanceConfig, candidate, test, training dataset.Instance) bool {
	for a, kind := range ds.Types {
		vTest, vTrain, vCand := test.Attrs[a], training.Attrs[a], candidate.Attrs[a]
		if vTest.Missing || vTrain.Missing || vCand.Missing {
			continue
		}

		switch kind {
		case dataset.Numeric:
			lo, hi := vTest.Num, vTrain.Num
			if lo > hi {
				lo, hi = hi, lo
			}
			if vCand.Num < lo || vCand.Num > hi {
				return false
			}
		case dataset.Nominal:
			ns := stats.Nominal[a]
			r := metric.NominalDistance(ns, vTest.Raw, vTrain.Raw, cfg)
			d := metric.NominalDistance(ns, vTest.Raw, vCand.Raw, cfg)
			if d > r+eps {
				return false
			}
		}
	}
	return true
}

// IsConsistent reports whether the g-rule induced by (test, training) is
// consistent on verifySet: no row with a decision different from
// training's may satisfy it. Rows sharing training's decision never
// invalidate the rule, whether or not they satisfy it.
func IsConsistent(ds *dataset.Dataset, stats metric.Stats, cfg metric.DistanceConfig, test, training dataset.Instance, verifySet []int) bool {
	for _, idx := range verifySet {
		cand := ds.Rows[idx]
		if cand.Decision != training.Decision && Satisfies(ds, stats, cfg, cand, test, training) {
			return false
		}
	}
	return true
}
